// Package inventory provides supply catalog implementations.
package inventory

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

// Compile-time interface checks.
var (
	_ Catalog              = (*MemoryCatalog)(nil)
	_ domain.SupplyCatalog = (*MemoryCatalog)(nil)
	_ domain.SupplyWriter  = (*MemoryCatalog)(nil)
)

// MemoryCatalog is an in-memory supply catalog. Safe for concurrent access.
// Items keep the order they were first inserted in.
type MemoryCatalog struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.SupplyItem
	log   *logger.Logger
}

// NewMemoryCatalog creates a catalog holding the given items, in order.
// Later items with a repeated ID replace earlier ones in place.
func NewMemoryCatalog(log *logger.Logger, items ...domain.SupplyItem) *MemoryCatalog {
	c := &MemoryCatalog{
		items: make(map[string]domain.SupplyItem),
		log:   log,
	}
	for _, it := range items {
		c.put(it)
	}
	return c
}

// List returns a snapshot of the catalog in insertion order.
func (c *MemoryCatalog) List(ctx context.Context) ([]domain.SupplyItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.SupplyItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	c.log.Debug("listing supplies, count=%d", len(out))
	return out, nil
}

// Get retrieves a supply by ID.
func (c *MemoryCatalog) Get(ctx context.Context, id string) (*domain.SupplyItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[id]
	if !ok {
		c.log.Debug("supply not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

// Upsert inserts or replaces a supply. Replacing keeps the item's position.
func (c *MemoryCatalog) Upsert(ctx context.Context, item domain.SupplyItem) error {
	if item.ID == "" {
		return errMissingID
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(item)
	c.log.Debug("saved supply %s (price=%.2f per %g %s)", item.ID, item.PurchasePrice, item.PurchaseQuantity, item.Unit())
	return nil
}

// Delete removes a supply by ID.
func (c *MemoryCatalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.log.Debug("deleted supply %s", id)
	return nil
}

// Close is a no-op.
func (c *MemoryCatalog) Close() error { return nil }

func (c *MemoryCatalog) put(item domain.SupplyItem) {
	if _, ok := c.items[item.ID]; !ok {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = item
}
