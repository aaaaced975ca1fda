package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pharmapos/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// UpsertCatalogItem inserts or updates a catalog item by name
func (s *Store) UpsertCatalogItem(ctx context.Context, item models.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_items (name, price, kind, aux_info)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET price = $2, kind = $3, aux_info = $4`,
		item.Name, item.Price, item.Kind, item.AuxInfo)
	return err
}

// GetCatalogItem retrieves a catalog item by name, case-insensitively
func (s *Store) GetCatalogItem(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item,
		"SELECT name, price, kind, aux_info FROM catalog_items WHERE lower(name) = lower($1)", name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("catalog item not found: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCatalogItems retrieves all catalog items
func (s *Store) GetCatalogItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.SelectContext(ctx, &items,
		"SELECT name, price, kind, aux_info FROM catalog_items ORDER BY name")
	return items, err
}

// InventoryRow pairs a catalog item with its on-hand quantity
type InventoryRow struct {
	models.Item
	Qty int `db:"stock_qty"`
}

// GetInventory retrieves all catalog items with their on-hand quantities
func (s *Store) GetInventory(ctx context.Context) ([]InventoryRow, error) {
	var rows []InventoryRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT name, price, kind, aux_info, stock_qty FROM catalog_items ORDER BY name")
	return rows, err
}

// UpsertOrderState records the current lifecycle state of an order
func (s *Store) UpsertOrderState(ctx context.Context, order *models.Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET status = $2, updated_at = $4`,
		order.ID, order.Status, order.CreatedAt, order.UpdatedAt)
	return err
}

// GetOrderState retrieves the persisted state of an order
func (s *Store) GetOrderState(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT id, status, created_at, updated_at FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
