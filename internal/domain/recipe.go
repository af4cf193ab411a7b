// Package domain defines the core types and interfaces for the costing engine.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is a costable list of ingredient requirements plus the yield it
// produces.
type Recipe struct {
	ID          string                  `yaml:"id" json:"id"`
	Name        string                  `yaml:"name" json:"name"`
	Description string                  `yaml:"description,omitempty" json:"description,omitempty"`
	Ingredients []IngredientRequirement `yaml:"ingredients" json:"ingredients"`
	Yield       *Yield                  `yaml:"yield,omitempty" json:"yield,omitempty"`
	Tags        []string                `yaml:"tags,omitempty" json:"tags,omitempty"`
	Version     int                     `yaml:"version,omitempty" json:"version,omitempty"`

	// Set only on recipes produced by scaling another recipe.
	ScaledFrom  string  `yaml:"scaled_from,omitempty" json:"scaled_from,omitempty"`
	ScaleFactor float64 `yaml:"scale_factor,omitempty" json:"scale_factor,omitempty"`
}

// Yield is how much a recipe produces, e.g. 12 "empanadas" or 1.5 "kg".
type Yield struct {
	Quantity float64 `yaml:"quantity" json:"quantity"`
	Unit     string  `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// IngredientRequirement is one line of a recipe. SupplyID is the primary key
// used to find the supply; Name and AltName are fallbacks matched against the
// supply's name, in that order.
type IngredientRequirement struct {
	SupplyID string  `yaml:"supply_id,omitempty" json:"supply_id,omitempty"`
	Name     string  `yaml:"name,omitempty" json:"name,omitempty"`
	AltName  string  `yaml:"alt_name,omitempty" json:"alt_name,omitempty"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
	Unit     string  `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Label returns the best human-readable name for the requirement.
func (r IngredientRequirement) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.AltName != "":
		return r.AltName
	default:
		return r.SupplyID
	}
}

// Summary returns the listing view of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Tags:        r.Tags,
	}
}
