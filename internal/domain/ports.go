package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory (seeded),
// file-based, or database-backed.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// SupplyCatalog provides the inventory's supply items. List returns a
// snapshot in catalog order; the costing engine matches against it in that
// order, so implementations must keep it stable.
type SupplyCatalog interface {
	List(ctx context.Context) ([]SupplyItem, error)
	Get(ctx context.Context, id string) (*SupplyItem, error)
}

// SupplyWriter is the optional write side of a catalog, used for seeding and
// price updates.
type SupplyWriter interface {
	Upsert(ctx context.Context, item SupplyItem) error
	Delete(ctx context.Context, id string) error
}
