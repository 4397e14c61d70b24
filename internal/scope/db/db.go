package db

import (
	"context"
	"fmt"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Schema creates the menu table when missing
const Schema = `
CREATE TABLE IF NOT EXISTS menu_items (
	id          TEXT PRIMARY KEY,
	position    INTEGER NOT NULL DEFAULT 0,
	name        TEXT NOT NULL CHECK (name <> ''),
	categories  TEXT[] NOT NULL DEFAULT '{}',
	price       NUMERIC(10,2) NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	available   BOOLEAN NOT NULL DEFAULT TRUE
)`

const selectMenu = `
SELECT id, name, categories, price::text, description, image
FROM menu_items
WHERE available
ORDER BY position, id`

const upsertMenuItem = `
INSERT INTO menu_items (id, position, name, categories, price, description, image)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	position = EXCLUDED.position,
	name = EXCLUDED.name,
	categories = EXCLUDED.categories,
	price = EXCLUDED.price,
	description = EXCLUDED.description,
	image = EXCLUDED.image,
	available = TRUE`

// DB wraps the database connection pool
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Migrate applies Schema
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate menu schema: %w", err)
	}
	return nil
}

// Load returns every available menu item in display order
func (d *DB) Load(ctx context.Context) ([]search.Item, error) {
	rows, err := d.pool.Query(ctx, selectMenu)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	return items, nil
}

// SaveMenu upserts items in one transaction, keeping their order
func (d *DB) SaveMenu(ctx context.Context, items []search.Item) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i, it := range items {
		cats := it.Categories
		if cats == nil {
			cats = []string{}
		}
		batch.Queue(upsertMenuItem, string(it.ID), i, it.Name, cats, it.Price.String(), it.Description, it.Image)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit menu: %w", err)
	}
	return nil
}

func scanItem(row pgx.CollectableRow) (search.Item, error) {
	var (
		it    search.Item
		id    string
		price string
	)
	if err := row.Scan(&id, &it.Name, &it.Categories, &price, &it.Description, &it.Image); err != nil {
		return search.Item{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return search.Item{}, fmt.Errorf("invalid price %q for item %s: %w", price, id, err)
	}
	it.ID = search.ItemID(id)
	it.Price = p
	return it, nil
}
