package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

var _ Catalog = (*SQLiteCatalog)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS supplies (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	id                TEXT NOT NULL UNIQUE,
	name              TEXT NOT NULL DEFAULT '',
	purchase_price    REAL NOT NULL DEFAULT 0,
	purchase_quantity REAL NOT NULL DEFAULT 0,
	purchase_unit     TEXT NOT NULL DEFAULT ''
)`

// SQLiteCatalog stores supplies in a local SQLite file.
type SQLiteCatalog struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteCatalog opens (or creates) the database at cfg.Path and ensures
// the supplies table exists.
func NewSQLiteCatalog(ctx context.Context, cfg SQLiteConfig, log *logger.Logger) (*SQLiteCatalog, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().SQLite.Path
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// WAL allows concurrent reads while writing
	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create supplies table: %w", err)
	}

	log.Debug("sqlite catalog ready at %s", cfg.Path)
	return &SQLiteCatalog{db: db, log: log}, nil
}

// List returns all supplies in insertion order.
func (c *SQLiteCatalog) List(ctx context.Context) ([]domain.SupplyItem, error) {
	rows, err := c.db.QueryContext(ctx,
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
func (c *SQLiteCatalog) Get(ctx context.Context, id string) (*domain.SupplyItem, error) {
	var it domain.SupplyItem
	err := c.db.QueryRowContext(ctx,
		`SELECT id, name, purchase_price, purchase_quantity, purchase_unit FROM supplies WHERE id = ?`, id).
		Scan(&it.ID, &it.Name, &it.PurchasePrice, &it.PurchaseQuantity, &it.PurchaseUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supply %s: %w", id, err)
	}
	return &it, nil
}

// Upsert inserts or replaces a supply, keeping its original position.
func (c *SQLiteCatalog) Upsert(ctx context.Context, item domain.SupplyItem) error {
	if item.ID == "" {
		return errMissingID
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO supplies (id, name, purchase_price, purchase_quantity, purchase_unit)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			purchase_price = excluded.purchase_price,
			purchase_quantity = excluded.purchase_quantity,
			purchase_unit = excluded.purchase_unit`,
		item.ID, item.Name, item.PurchasePrice, item.PurchaseQuantity, item.PurchaseUnit)
	if err != nil {
		return fmt.Errorf("failed to upsert supply %s: %w", item.ID, err)
	}
	c.log.Debug("saved supply %s", item.ID)
	return nil
}

// Delete removes a supply by ID.
func (c *SQLiteCatalog) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM supplies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supply %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete supply %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close closes the database.
func (c *SQLiteCatalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
