package domain

// Issue tags why a line could not be costed.
type Issue string

const (
	IssueNone               Issue = ""
	IssueMissingRequirement Issue = "missing_requirement"
	IssueSupplyNotFound     Issue = "supply_not_found"
)

// LineCost is the costing result for a single ingredient requirement.
// Cost is zero whenever Issue is set.
type LineCost struct {
	Requirement IngredientRequirement `json:"requirement"`
	SupplyFound bool                  `json:"supply_found"`
	SupplyID    string                `json:"supply_id,omitempty"`
	SupplyName  string                `json:"supply_name,omitempty"`

	// PurchaseUnit is the unit UnitPrice and ConvertedQuantity are expressed in.
	PurchaseUnit      string  `json:"purchase_unit,omitempty"`
	UnitPrice         float64 `json:"unit_price"`
	ConvertedQuantity float64 `json:"converted_quantity"`
	Cost              float64 `json:"cost"`

	Issue   Issue  `json:"issue,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// CostBreakdown is the full costing result for a recipe. It is built fresh on
// every call and always carries partial results alongside any Errors.
type CostBreakdown struct {
	RecipeID         string     `json:"recipe_id"`
	RecipeName       string     `json:"recipe_name"`
	TotalCost        float64    `json:"total_cost"`
	CostPerYieldUnit float64    `json:"cost_per_yield_unit"`
	YieldQuantity    float64    `json:"yield_quantity"`
	YieldUnit        string     `json:"yield_unit,omitempty"`
	Lines            []LineCost `json:"lines"`
	Summary          string     `json:"summary,omitempty"`
	Errors           []string   `json:"errors,omitempty"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// Complete reports whether every line was matched to a supply.
func (b *CostBreakdown) Complete() bool {
	return len(b.Errors) == 0
}

// Unmatched returns the lines whose supply could not be resolved.
func (b *CostBreakdown) Unmatched() []LineCost {
	var out []LineCost
	for _, l := range b.Lines {
		if !l.SupplyFound {
			out = append(out, l)
		}
	}
	return out
}
