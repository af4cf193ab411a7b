package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hammamikhairi/ottocost/internal/costing"
	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/inventory"
	"github.com/hammamikhairi/ottocost/internal/logger"
	"github.com/hammamikhairi/ottocost/internal/recipe"
)

func setupEngine(t *testing.T, opts ...Option) (*Engine, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	recipes := recipe.NewMemorySource(log)
	catalog := inventory.NewMemoryCatalog(log, inventory.DefaultSupplies()...)
	eng := New(recipes, catalog, costing.New(log), log, opts...)
	return eng, context.Background()
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCostRecipe(t *testing.T) {
	eng, ctx := setupEngine(t)

	tests := []struct {
		id        string
		total     float64
		perUnit   float64
		unmatched int
	}{
		{"flan-casero", 2650, 265, 1},
		{"empanadas-carne", 7310, 7310.0 / 12, 1},
		{"masa-pizza", 2474, 618.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			b, err := eng.CostRecipe(ctx, tt.id)
			if err != nil {
				t.Fatalf("cost: %v", err)
			}
			if !near(b.TotalCost, tt.total) {
				t.Fatalf("total = %v, want %v", b.TotalCost, tt.total)
			}
			if !near(b.CostPerYieldUnit, tt.perUnit) {
				t.Fatalf("per unit = %v, want %v", b.CostPerYieldUnit, tt.perUnit)
			}
			if got := len(b.Unmatched()); got != tt.unmatched {
				t.Fatalf("unmatched = %d, want %d", got, tt.unmatched)
			}
		})
	}
}

func TestCostRecipeUnknown(t *testing.T) {
	eng, ctx := setupEngine(t)

	_, err := eng.CostRecipe(ctx, "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCostRecipeSeesPriceChanges(t *testing.T) {
	eng, ctx := setupEngine(t)

	before, err := eng.CostRecipe(ctx, "flan-casero")
	if err != nil {
		t.Fatalf("cost: %v", err)
	}

	if _, err := eng.SetSupplyPrice(ctx, "leche", 2300); err != nil {
		t.Fatalf("set price: %v", err)
	}

	after, err := eng.CostRecipe(ctx, "flan-casero")
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if !near(after.TotalCost-before.TotalCost, 1000) {
		t.Fatalf("expected total to rise by 1000, got %v -> %v", before.TotalCost, after.TotalCost)
	}
}

func TestSetSupplyPriceUnknown(t *testing.T) {
	eng, ctx := setupEngine(t)

	if _, err := eng.SetSupplyPrice(ctx, "caviar", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type readOnlyCatalog struct{ domain.SupplyCatalog }

func TestSetSupplyPriceReadOnly(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	catalog := readOnlyCatalog{inventory.NewMemoryCatalog(log, inventory.DefaultSupplies()...)}
	eng := New(recipe.NewMemorySource(log), catalog, costing.New(log), log)

	if _, err := eng.SetSupplyPrice(context.Background(), "leche", 1); err == nil {
		t.Fatal("expected error for read-only catalog")
	}
}

func TestScaleRecipeLeavesSourceAlone(t *testing.T) {
	eng, ctx := setupEngine(t)

	scaled, err := eng.ScaleRecipe(ctx, "flan-casero", 2)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	if scaled.ID == "flan-casero" {
		t.Fatal("scaled recipe reused the source ID")
	}
	if scaled.ScaledFrom != "flan-casero" {
		t.Fatalf("ScaledFrom = %q", scaled.ScaledFrom)
	}

	orig, err := eng.GetRecipe(ctx, "flan-casero")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if orig.Yield.Quantity != 10 || orig.Ingredients[0].Quantity != 1 {
		t.Fatal("source recipe was modified by scaling")
	}

	if _, err := eng.GetRecipe(ctx, scaled.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("scaled recipe should not be stored, got %v", err)
	}
}

func TestCostScaled(t *testing.T) {
	eng, ctx := setupEngine(t)

	base, err := eng.CostRecipe(ctx, "empanadas-carne")
	if err != nil {
		t.Fatalf("cost: %v", err)
	}

	for _, f := range []float64{0.5, 2, 3.25} {
		_, b, err := eng.CostScaled(ctx, "empanadas-carne", f)
		if err != nil {
			t.Fatalf("cost scaled x%v: %v", f, err)
		}
		if !near(b.TotalCost, base.TotalCost*f) {
			t.Fatalf("x%v: total = %v, want %v", f, b.TotalCost, base.TotalCost*f)
		}
		if !near(b.CostPerYieldUnit, base.CostPerYieldUnit) {
			t.Fatalf("x%v: per unit = %v, want %v", f, b.CostPerYieldUnit, base.CostPerYieldUnit)
		}
	}

	if _, _, err := eng.CostScaled(ctx, "empanadas-carne", 0); !errors.Is(err, domain.ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
}

func TestScaleToYield(t *testing.T) {
	eng, ctx := setupEngine(t)

	scaled, b, err := eng.ScaleToYield(ctx, "masa-pizza", 10)
	if err != nil {
		t.Fatalf("scale to yield: %v", err)
	}
	if scaled.Yield.Quantity != 10 {
		t.Fatalf("yield = %v, want 10", scaled.Yield.Quantity)
	}
	if !near(scaled.ScaleFactor, 2.5) {
		t.Fatalf("factor = %v, want 2.5", scaled.ScaleFactor)
	}
	if !near(b.TotalCost, 2474*2.5) {
		t.Fatalf("total = %v, want %v", b.TotalCost, 2474*2.5)
	}
}

func TestScaleToYieldWithoutYield(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	recipes := recipe.NewEmptySource(log)
	if err := recipes.Add(context.Background(), &domain.Recipe{ID: "sin-rinde", Name: "Sin rinde"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	eng := New(recipes, inventory.NewMemoryCatalog(log), costing.New(log), log)

	if _, _, err := eng.ScaleToYield(context.Background(), "sin-rinde", 4); !errors.Is(err, domain.ErrNoYield) {
		t.Fatalf("expected ErrNoYield, got %v", err)
	}
}

func TestCostAll(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		eng, ctx := setupEngine(t, WithWorkers(workers))

		all, err := eng.CostAll(ctx)
		if err != nil {
			t.Fatalf("workers=%d: cost all: %v", workers, err)
		}
		list, err := eng.ListRecipes(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != len(list) {
			t.Fatalf("workers=%d: got %d results, want %d", workers, len(all), len(list))
		}
		for i := range list {
			if all[i].RecipeID != list[i].ID {
				t.Fatalf("workers=%d: result %d is %s, want %s", workers, i, all[i].RecipeID, list[i].ID)
			}
			single, err := eng.CostRecipe(ctx, list[i].ID)
			if err != nil {
				t.Fatalf("cost: %v", err)
			}
			if single.TotalCost != all[i].TotalCost {
				t.Fatalf("%s: batch total %v differs from single %v", list[i].ID, all[i].TotalCost, single.TotalCost)
			}
		}
	}
}

func TestUpdateRecipe(t *testing.T) {
	eng, ctx := setupEngine(t)

	r, err := eng.GetRecipe(ctx, "flan-casero")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	r.Ingredients = r.Ingredients[:3]
	if err := eng.UpdateRecipe(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}

	b, err := eng.CostRecipe(ctx, "flan-casero")
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if !b.Complete() {
		t.Fatalf("expected complete breakdown after dropping vanilla, errors=%v", b.Errors)
	}
}

func TestSearchRecipes(t *testing.T) {
	eng, ctx := setupEngine(t)

	got, err := eng.SearchRecipes(ctx, "postre")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "flan-casero" {
		t.Fatalf("unexpected search result: %+v", got)
	}
}
