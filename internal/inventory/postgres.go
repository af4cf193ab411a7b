package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

var _ Catalog = (*PostgresCatalog)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS supplies (
	seq               BIGSERIAL,
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL DEFAULT '',
	purchase_price    DOUBLE PRECISION NOT NULL DEFAULT 0,
	purchase_quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
	purchase_unit     TEXT NOT NULL DEFAULT ''
)`

// PostgresCatalog stores supplies in PostgreSQL.
type PostgresCatalog struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewPostgresCatalog connects a pool and ensures the supplies table exists.
func NewPostgresCatalog(ctx context.Context, cfg PostgreSQLConfig, log *logger.Logger) (*PostgresCatalog, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("PostgreSQL URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create supplies table: %w", err)
	}

	log.Debug("postgres catalog ready (max_conns=%d)", poolCfg.MaxConns)
	return &PostgresCatalog{pool: pool, log: log}, nil
}

// List returns all supplies in insertion order.
func (c *PostgresCatalog) List(ctx context.Context) ([]domain.SupplyItem, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, name, purchase_price, purchase_quantity, purchase_unit FROM supplies ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplies: %w", err)
	}
	defer rows.Close()

	var out []domain.SupplyItem
	for rows.Next() {
		var it domain.SupplyItem
		if err := rows.Scan(&it.ID, &it.Name, &it.PurchasePrice, &it.PurchaseQuantity, &it.PurchaseUnit); err != nil {
			return nil, fmt.Errorf("failed to scan supply: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplies: %w", err)
	}
	c.log.Debug("listing supplies, count=%d", len(out))
	return out, nil
}

// Get retrieves a supply by ID.
func (c *PostgresCatalog) Get(ctx context.Context, id string) (*domain.SupplyItem, error) {
	var it domain.SupplyItem
	err := c.pool.QueryRow(ctx,
		`SELECT id, name, purchase_price, purchase_quantity, purchase_unit FROM supplies WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.PurchasePrice, &it.PurchaseQuantity, &it.PurchaseUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supply %s: %w", id, err)
	}
	return &it, nil
}

// Upsert inserts or replaces a supply, keeping its original position.
func (c *PostgresCatalog) Upsert(ctx context.Context, item domain.SupplyItem) error {
	if item.ID == "" {
		return errMissingID
	}
	_, err := c.pool.Exec(ctx, `
		INSERT INTO supplies (id, name, purchase_price, purchase_quantity, purchase_unit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			purchase_price = EXCLUDED.purchase_price,
			purchase_quantity = EXCLUDED.purchase_quantity,
			purchase_unit = EXCLUDED.purchase_unit`,
		item.ID, item.Name, item.PurchasePrice, item.PurchaseQuantity, item.PurchaseUnit)
	if err != nil {
		return fmt.Errorf("failed to upsert supply %s: %w", item.ID, err)
	}
	c.log.Debug("saved supply %s", item.ID)
	return nil
}

// Delete removes a supply by ID.
func (c *PostgresCatalog) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supply %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close releases the pool.
func (c *PostgresCatalog) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
