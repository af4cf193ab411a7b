// Package engine wires recipes, the supply catalog and the calculator into
// the operations the CLI exposes.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottocost/internal/costing"
	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithWorkers bounds how many recipes CostAll costs at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// Engine serves costing requests. It depends only on interfaces and is
// fully testable with in-memory sources.
type Engine struct {
	recipes domain.RecipeSource
	catalog domain.SupplyCatalog
	calc    *costing.Calculator
	log     *logger.Logger
	workers int
}

// RecipeUpdater is an optional interface that RecipeSource implementations
// can satisfy to support in-place recipe mutations.
type RecipeUpdater interface {
	Update(ctx context.Context, recipe *domain.Recipe) error
}

// New creates a costing engine with the given dependencies and options.
func New(recipes domain.RecipeSource, catalog domain.SupplyCatalog, calc *costing.Calculator, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes: recipes,
		catalog: catalog,
		calc:    calc,
		log:     log,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// SearchRecipes returns recipes matching the query.
func (e *Engine) SearchRecipes(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	return e.recipes.Search(ctx, query)
}

// UpdateRecipe persists a mutated recipe. Returns an error if the
// underlying RecipeSource does not support updates.
func (e *Engine) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	updater, ok := e.recipes.(RecipeUpdater)
	if !ok {
		return fmt.Errorf("recipe source does not support updates")
	}
	return updater.Update(ctx, recipe)
}

// Supplies returns the current catalog snapshot.
func (e *Engine) Supplies(ctx context.Context) ([]domain.SupplyItem, error) {
	return e.catalog.List(ctx)
}

// SetSupplyPrice changes what a supply costs to buy. The purchase quantity
// and unit are kept. Returns an error if the catalog is read-only.
func (e *Engine) SetSupplyPrice(ctx context.Context, id string, price float64) (*domain.SupplyItem, error) {
	w, ok := e.catalog.(domain.SupplyWriter)
	if !ok {
		return nil, fmt.Errorf("supply catalog does not support updates")
	}
	item, err := e.catalog.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting supply: %w", err)
	}
	old := item.PurchasePrice
	item.PurchasePrice = price
	if err := w.Upsert(ctx, *item); err != nil {
		return nil, fmt.Errorf("saving supply: %w", err)
	}
	e.log.Info("supply %s price changed %.2f -> %.2f", id, old, price)
	return item, nil
}

// CostRecipe costs a stored recipe against a fresh catalog snapshot.
func (e *Engine) CostRecipe(ctx context.Context, id string) (*domain.CostBreakdown, error) {
	recipe, err := e.recipes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	return e.cost(ctx, recipe)
}

// ScaleRecipe returns a derived copy of a stored recipe multiplied by factor.
// Nothing is costed and the source is left as it was.
func (e *Engine) ScaleRecipe(ctx context.Context, id string, factor float64) (*domain.Recipe, error) {
	recipe, err := e.recipes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	scaled, err := costing.ScaleRecipe(recipe, factor)
	if err != nil {
		return nil, err
	}
	e.log.Debug("scaled %s by %g -> %s", id, factor, scaled.ID)
	return scaled, nil
}

// CostScaled scales a stored recipe and costs the result.
func (e *Engine) CostScaled(ctx context.Context, id string, factor float64) (*domain.Recipe, *domain.CostBreakdown, error) {
	scaled, err := e.ScaleRecipe(ctx, id, factor)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.cost(ctx, scaled)
	if err != nil {
		return nil, nil, err
	}
	return scaled, b, nil
}

// ScaleToYield scales a stored recipe so it yields target units, and costs
// the result.
func (e *Engine) ScaleToYield(ctx context.Context, id string, target float64) (*domain.Recipe, *domain.CostBreakdown, error) {
	recipe, err := e.recipes.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting recipe: %w", err)
	}
	factor, err := costing.FactorForYield(recipe, target)
	if err != nil {
		return nil, nil, err
	}
	scaled, err := costing.ScaleRecipe(recipe, factor)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.cost(ctx, scaled)
	if err != nil {
		return nil, nil, err
	}
	return scaled, b, nil
}

// CostAll costs every recipe against one catalog snapshot. Results follow
// ListRecipes order.
func (e *Engine) CostAll(ctx context.Context) ([]*domain.CostBreakdown, error) {
	summaries, err := e.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	catalog, err := e.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing supplies: %w", err)
	}

	out := make([]*domain.CostBreakdown, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, s := range summaries {
		g.Go(func() error {
			recipe, err := e.recipes.Get(gctx, s.ID)
			if err != nil {
				return fmt.Errorf("getting recipe %s: %w", s.ID, err)
			}
			b, err := e.calc.CostRecipe(recipe, catalog)
			if err != nil {
				return fmt.Errorf("costing recipe %s: %w", s.ID, err)
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.log.Info("costed %d recipes against %d supplies", len(out), len(catalog))
	return out, nil
}

func (e *Engine) cost(ctx context.Context, recipe *domain.Recipe) (*domain.CostBreakdown, error) {
	catalog, err := e.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing supplies: %w", err)
	}
	b, err := e.calc.CostRecipe(recipe, catalog)
	if err != nil {
		return nil, err
	}
	if len(b.Errors) > 0 {
		e.log.Warn("recipe %s: %d of %d ingredients unmatched", recipe.ID, len(b.Errors), len(b.Lines))
	}
	e.log.Debug("recipe %s total=%.2f per_unit=%.2f", recipe.ID, b.TotalCost, b.CostPerYieldUnit)
	return b, nil
}
