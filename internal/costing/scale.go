package costing

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottocost/internal/domain"
)

// ScaleRecipe returns a copy of the recipe with its yield and every
// requirement quantity multiplied by factor. The copy gets a fresh ID built
// from the source ID, the factor and a time-ordered UUID, so derived recipes
// never collide with their source or with each other. The source recipe is
// not modified.
//
// Scaling does not cost anything; feed the result to Calculator.CostRecipe.
func ScaleRecipe(recipe *domain.Recipe, factor float64) (*domain.Recipe, error) {
	if recipe == nil {
		return nil, domain.ErrNilRecipe
	}
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: got %v", domain.ErrInvalidScale, factor)
	}

	token, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating recipe id: %w", err)
	}

	f := strconv.FormatFloat(factor, 'f', -1, 64)
	out := &domain.Recipe{
		ID:          fmt.Sprintf("%s-x%s-%s", recipe.ID, f, token),
		Name:        fmt.Sprintf("%s (x%s)", recipe.Name, f),
		Description: recipe.Description,
		Ingredients: make([]domain.IngredientRequirement, len(recipe.Ingredients)),
		Tags:        slices.Clone(recipe.Tags),
		Version:     recipe.Version,
		ScaledFrom:  recipe.ID,
		ScaleFactor: factor,
	}

	for i, ing := range recipe.Ingredients {
		ing.Quantity *= factor
		out.Ingredients[i] = ing
	}
	if recipe.Yield != nil {
		out.Yield = &domain.Yield{
			Quantity: recipe.Yield.Quantity * factor,
			Unit:     recipe.Yield.Unit,
		}
	}

	return out, nil
}

// FactorForYield returns the factor that scales the recipe to produce target
// yield units.
func FactorForYield(recipe *domain.Recipe, target float64) (float64, error) {
	if recipe == nil {
		return 0, domain.ErrNilRecipe
	}
	if recipe.Yield == nil || !(recipe.Yield.Quantity > 0) {
		return 0, fmt.Errorf("recipe %s: %w", recipe.ID, domain.ErrNoYield)
	}
	factor := target / recipe.Yield.Quantity
	if !(factor > 0) || math.IsInf(factor, 0) {
		return 0, fmt.Errorf("%w: target %v", domain.ErrInvalidScale, target)
	}
	return factor, nil
}
