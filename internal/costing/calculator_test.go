package costing

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	return New(logger.New(logger.LevelOff, nil))
}

func testCatalog() []domain.SupplyItem {
	return []domain.SupplyItem{
		{ID: "flour", Name: "Flour", PurchasePrice: 1000, PurchaseQuantity: 1, PurchaseUnit: "kg"},
		{ID: "eggs", Name: "Eggs", PurchasePrice: 300, PurchaseQuantity: 1, PurchaseUnit: "unit"},
		{ID: "milk", Name: "Milk", PurchasePrice: 1800, PurchaseQuantity: 1, PurchaseUnit: "l"},
		{ID: "sugar", Name: "Sugar", PurchasePrice: 2400, PurchaseQuantity: 2, PurchaseUnit: "kg"},
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name   string
		supply domain.SupplyItem
		want   float64
	}{
		{"per kilo", domain.SupplyItem{PurchasePrice: 1000, PurchaseQuantity: 1}, 1000},
		{"bulk bag", domain.SupplyItem{PurchasePrice: 2400, PurchaseQuantity: 2}, 1200},
		{"missing quantity", domain.SupplyItem{PurchasePrice: 500}, 500},
		{"negative quantity", domain.SupplyItem{PurchasePrice: 500, PurchaseQuantity: -4}, 500},
		{"NaN quantity", domain.SupplyItem{PurchasePrice: 500, PurchaseQuantity: math.NaN()}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitPrice(tt.supply))
		})
	}
}

func TestUnitPriceIsLinear(t *testing.T) {
	base := domain.SupplyItem{PurchasePrice: 750, PurchaseQuantity: 3}
	p := UnitPrice(base)

	doubledPrice := base
	doubledPrice.PurchasePrice *= 2
	assert.InDelta(t, 2*p, UnitPrice(doubledPrice), 1e-9)

	doubledQty := base
	doubledQty.PurchaseQuantity *= 2
	assert.InDelta(t, p/2, UnitPrice(doubledQty), 1e-9)
}

func TestResolveCostSoftFailures(t *testing.T) {
	calc := newTestCalculator(t)

	line := calc.ResolveCost(nil, &domain.SupplyItem{ID: "x", PurchasePrice: 10})
	assert.Equal(t, domain.IssueMissingRequirement, line.Issue)
	assert.Zero(t, line.Cost)

	req := &domain.IngredientRequirement{Name: "Flour", Quantity: 1, Unit: "kg"}
	line = calc.ResolveCost(req, nil)
	assert.Equal(t, domain.IssueSupplyNotFound, line.Issue)
	assert.False(t, line.SupplyFound)
	assert.Zero(t, line.Cost)
	assert.Equal(t, "Flour", line.Requirement.Name)
}

func TestResolveCostPassesThroughNonPositiveQuantities(t *testing.T) {
	calc := newTestCalculator(t)
	flour := testCatalog()[0]

	line := calc.ResolveCost(&domain.IngredientRequirement{Quantity: 0, Unit: "g"}, &flour)
	assert.Zero(t, line.Cost)
	assert.Equal(t, domain.IssueNone, line.Issue)

	line = calc.ResolveCost(&domain.IngredientRequirement{Quantity: -200, Unit: "g"}, &flour)
	assert.InDelta(t, -200.0, line.Cost, 1e-9)
}

func TestResolveCostEmptyUnitMeansPurchaseUnit(t *testing.T) {
	calc := newTestCalculator(t)
	milk := testCatalog()[2]

	line := calc.ResolveCost(&domain.IngredientRequirement{Quantity: 0.5}, &milk)
	assert.Empty(t, line.Warning)
	assert.InDelta(t, 900.0, line.Cost, 1e-9)
}

func TestResolveCostDefaultsPurchaseUnit(t *testing.T) {
	calc := newTestCalculator(t)
	lemon := domain.SupplyItem{ID: "lemon", Name: "Lemon", PurchasePrice: 150}

	line := calc.ResolveCost(&domain.IngredientRequirement{Quantity: 1, Unit: "maple"}, &lemon)
	assert.Equal(t, "unit", line.PurchaseUnit)
	assert.InDelta(t, 30.0, line.ConvertedQuantity, 1e-9)
	assert.InDelta(t, 4500.0, line.Cost, 1e-9)
}

func TestCostRecipeFlourScenario(t *testing.T) {
	calc := newTestCalculator(t)
	recipe := &domain.Recipe{
		ID:          "bread",
		Name:        "Bread",
		Ingredients: []domain.IngredientRequirement{{Name: "Flour", Quantity: 500, Unit: "g"}},
	}

	b, err := calc.CostRecipe(recipe, testCatalog())
	require.NoError(t, err)
	require.Len(t, b.Lines, 1)

	line := b.Lines[0]
	assert.True(t, line.SupplyFound)
	assert.Equal(t, 1000.0, line.UnitPrice)
	assert.Equal(t, "kg", line.PurchaseUnit)
	assert.InDelta(t, 0.5, line.ConvertedQuantity, 1e-12)
	assert.InDelta(t, 500.0, line.Cost, 1e-9)
	assert.InDelta(t, 500.0, b.TotalCost, 1e-9)
	assert.True(t, b.Complete())
}

func TestCostRecipeMapleScenario(t *testing.T) {
	calc := newTestCalculator(t)
	recipe := &domain.Recipe{
		ID:          "omelette",
		Ingredients: []domain.IngredientRequirement{{Name: "Eggs", Quantity: 2, Unit: "maple"}},
	}

	b, err := calc.CostRecipe(recipe, testCatalog())
	require.NoError(t, err)

	line := b.Lines[0]
	assert.InDelta(t, 60.0, line.ConvertedQuantity, 1e-9)
	assert.InDelta(t, 18000.0, line.Cost, 1e-9)
	assert.InDelta(t, 18000.0, b.TotalCost, 1e-9)
}

func TestCostRecipeUnmatchedSupply(t *testing.T) {
	calc := newTestCalculator(t)
	recipe := &domain.Recipe{
		ID: "cake",
		Ingredients: []domain.IngredientRequirement{
			{SupplyID: "flour", Quantity: 250, Unit: "g"},
			{SupplyID: "saffron", Name: "Saffron", Quantity: 1, Unit: "g"},
			{SupplyID: "sugar", Quantity: 100, Unit: "g"},
		},
	}

	b, err := calc.CostRecipe(recipe, testCatalog())
	require.NoError(t, err)
	require.Len(t, b.Lines, 3)

	missing := b.Lines[1]
	assert.False(t, missing.SupplyFound)
	assert.Zero(t, missing.Cost)
	assert.Equal(t, domain.IssueSupplyNotFound, missing.Issue)

	assert.InDelta(t, 250.0+120.0, b.TotalCost, 1e-9)
	require.Len(t, b.Errors, 1)
	assert.Contains(t, b.Errors[0], "Saffron")
	assert.False(t, b.Complete())
	assert.Len(t, b.Unmatched(), 1)
}

func TestCostRecipeTotalIsSumOfLines(t *testing.T) {
	calc := newTestCalculator(t)
	recipe := &domain.Recipe{
		ID: "flan",
		Ingredients: []domain.IngredientRequirement{
			{Name: "Milk", Quantity: 1000, Unit: "ml"},
			{Name: "Eggs", Quantity: 6, Unit: "unit"},
			{Name: "Sugar", Quantity: 200, Unit: "g"},
			{Name: "Vanilla", Quantity: 5, Unit: "ml"},
		},
	}

	b, err := calc.CostRecipe(recipe, testCatalog())
	require.NoError(t, err)

	var sum float64
	for _, l := range b.Lines {
		sum += l.Cost
	}
	assert.Equal(t, sum, b.TotalCost)
	assert.InDelta(t, 1800.0+1800.0+240.0, b.TotalCost, 1e-9)
}

func TestCostRecipeMatchPriority(t *testing.T) {
	catalog := []domain.SupplyItem{
		{ID: "a", Name: "Butter", PurchasePrice: 1},
		{ID: "b", Name: "Manteca", PurchasePrice: 2},
		{ID: "c", Name: "Butter", PurchasePrice: 3},
	}

	tests := []struct {
		name   string
		req    domain.IngredientRequirement
		wantID string
	}{
		{"id beats name", domain.IngredientRequirement{SupplyID: "c", Name: "Manteca"}, "c"},
		{"name when id unknown", domain.IngredientRequirement{SupplyID: "zz", Name: "Manteca"}, "b"},
		{"first name match wins", domain.IngredientRequirement{Name: "Butter"}, "a"},
		{"alt name fallback", domain.IngredientRequirement{Name: "Beurre", AltName: "Manteca"}, "b"},
		{"no match", domain.IngredientRequirement{Name: "Ghee"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchSupply(tt.req, catalog)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestCostRecipeEmpty(t *testing.T) {
	calc := newTestCalculator(t)
	b, err := calc.CostRecipe(&domain.Recipe{ID: "nothing"}, testCatalog())
	require.NoError(t, err)
	assert.Zero(t, b.TotalCost)
	assert.NotNil(t, b.Lines)
	assert.Empty(t, b.Lines)
	assert.NotEmpty(t, b.Summary)
	assert.Empty(t, b.Errors)
}

func TestCostRecipeNil(t *testing.T) {
	calc := newTestCalculator(t)
	_, err := calc.CostRecipe(nil, testCatalog())
	assert.ErrorIs(t, err, domain.ErrNilRecipe)
}

func TestCostRecipeYield(t *testing.T) {
	calc := newTestCalculator(t)
	ingredients := []domain.IngredientRequirement{{Name: "Flour", Quantity: 1, Unit: "kg"}}

	tests := []struct {
		name  string
		yield *domain.Yield
		want  float64
	}{
		{"absent defaults to one", nil, 1000},
		{"ten portions", &domain.Yield{Quantity: 10, Unit: "portions"}, 100},
		{"zero yield", &domain.Yield{Quantity: 0}, 0},
		{"negative yield", &domain.Yield{Quantity: -2}, 0},
		{"NaN yield", &domain.Yield{Quantity: math.NaN()}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := calc.CostRecipe(&domain.Recipe{ID: "r", Ingredients: ingredients, Yield: tt.yield}, testCatalog())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, b.CostPerYieldUnit, 1e-9)
			assert.False(t, math.IsNaN(b.CostPerYieldUnit))
			assert.False(t, math.IsInf(b.CostPerYieldUnit, 0))
		})
	}
}

func TestCostRecipeUnknownConversionWarns(t *testing.T) {
	calc := newTestCalculator(t)
	recipe := &domain.Recipe{
		ID:          "sauce",
		Ingredients: []domain.IngredientRequirement{{Name: "Milk", Quantity: 2, Unit: "taza"}},
	}

	b, err := calc.CostRecipe(recipe, testCatalog())
	require.NoError(t, err)
	assert.True(t, b.Lines[0].SupplyFound)
	assert.InDelta(t, 3600.0, b.TotalCost, 1e-9)
	require.Len(t, b.Warnings, 1)
	assert.Contains(t, b.Warnings[0], "assumed 1:1")
	assert.Empty(t, b.Errors)
}

func TestCostRecipeNonFiniteCostIsZeroed(t *testing.T) {
	calc := newTestCalculator(t)
	catalog := []domain.SupplyItem{{ID: "gold", Name: "Gold", PurchasePrice: math.Inf(1)}}
	recipe := &domain.Recipe{
		ID:          "r",
		Ingredients: []domain.IngredientRequirement{{SupplyID: "gold", Quantity: 1}},
	}

	b, err := calc.CostRecipe(recipe, catalog)
	require.NoError(t, err)
	assert.Zero(t, b.TotalCost)
	assert.NotEmpty(t, b.Warnings)
	require.Len(t, b.Lines, 1)
	assert.Zero(t, b.Lines[0].UnitPrice)
	assert.Zero(t, b.Lines[0].Cost)
	assert.Contains(t, b.Lines[0].Warning, "non-finite")
}

func assertFinite(t *testing.T, b *domain.CostBreakdown) {
	t.Helper()
	nums := map[string]float64{
		"total":    b.TotalCost,
		"per unit": b.CostPerYieldUnit,
		"yield":    b.YieldQuantity,
	}
	for i, l := range b.Lines {
		nums[fmt.Sprintf("line %d quantity", i)] = l.Requirement.Quantity
		nums[fmt.Sprintf("line %d unit price", i)] = l.UnitPrice
		nums[fmt.Sprintf("line %d converted", i)] = l.ConvertedQuantity
		nums[fmt.Sprintf("line %d cost", i)] = l.Cost
	}
	for name, v := range nums {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s = %v, want a finite number", name, v)
		}
	}
}

func TestCostRecipeNeverReturnsNonFinite(t *testing.T) {
	tests := []struct {
		name    string
		catalog []domain.SupplyItem
		recipe  *domain.Recipe
	}{
		{
			name:    "infinite price",
			catalog: []domain.SupplyItem{{ID: "gold", PurchasePrice: math.Inf(1)}},
			recipe:  &domain.Recipe{Ingredients: []domain.IngredientRequirement{{SupplyID: "gold", Quantity: 1}}},
		},
		{
			name:    "NaN quantity",
			catalog: testCatalog(),
			recipe:  &domain.Recipe{Ingredients: []domain.IngredientRequirement{{SupplyID: "flour", Quantity: math.NaN(), Unit: "kg"}}},
		},
		{
			name:    "infinite quantity",
			catalog: testCatalog(),
			recipe:  &domain.Recipe{Ingredients: []domain.IngredientRequirement{{SupplyID: "milk", Quantity: math.Inf(-1), Unit: "ml"}}},
		},
		{
			name:    "total overflows",
			catalog: []domain.SupplyItem{{ID: "big", PurchasePrice: math.MaxFloat64, PurchaseQuantity: 1}},
			recipe: &domain.Recipe{Ingredients: []domain.IngredientRequirement{
				{SupplyID: "big", Quantity: 1},
				{SupplyID: "big", Quantity: 1},
			}},
		},
		{
			name:    "NaN yield",
			catalog: testCatalog(),
			recipe: &domain.Recipe{
				Ingredients: []domain.IngredientRequirement{{SupplyID: "flour", Quantity: 1, Unit: "kg"}},
				Yield:       &domain.Yield{Quantity: math.NaN()},
			},
		},
	}
	calc := newTestCalculator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := calc.CostRecipe(tt.recipe, tt.catalog)
			require.NoError(t, err)
			assertFinite(t, b)
			assert.NotEmpty(t, b.Warnings)
		})
	}
}

func TestCostRecipeIsIdempotent(t *testing.T) {
	calc := newTestCalculator(t)
	catalog := testCatalog()
	recipe := &domain.Recipe{
		ID: "flan",
		Ingredients: []domain.IngredientRequirement{
			{Name: "Milk", Quantity: 750, Unit: "ml"},
			{Name: "Eggs", Quantity: 0.2, Unit: "maple"},
			{Name: "Nope", Quantity: 1},
		},
		Yield: &domain.Yield{Quantity: 8, Unit: "portions"},
	}

	first, err := calc.CostRecipe(recipe, catalog)
	require.NoError(t, err)
	second, err := calc.CostRecipe(recipe, catalog)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, testCatalog(), catalog, "catalog must not be mutated")
}
