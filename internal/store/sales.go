package store

import (
	"context"
	"database/sql"
	"fmt"

	"pharmapos/internal/models"
)

// SaleRow is the persisted form of a completed sale
type SaleRow struct {
	ID            string `db:"id"`
	Client        string `db:"client"`
	Total         int64  `db:"total"`
	PaymentMethod string `db:"payment_method"`
	ReceiptNumber string `db:"receipt_number"`
}

// RecordSale journals a completed sale with its line items and receipt
// in one transaction
func (s *Store) RecordSale(ctx context.Context, sale *models.Sale, receipt *models.Receipt, method string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, client, total, payment_method, receipt_number)
		VALUES ($1, $2, $3, $4, $5)`,
		sale.ID, sale.Client, sale.Total, method, receipt.Number)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, name, price, kind, aux_info)
			VALUES ($1, $2, $3, $4, $5)`,
			sale.ID, item.Name, item.Price, item.Kind, item.AuxInfo)
		if err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO receipts (number, sale_id, client, total, issued_at)
		VALUES ($1, $2, $3, $4, $5)`,
		receipt.Number, receipt.SaleID, receipt.Client, receipt.Total, receipt.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	return tx.Commit()
}

// GetSale retrieves a journaled sale with its items
func (s *Store) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	var row SaleRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM sales WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	var items []models.Item
	err = s.db.SelectContext(ctx, &items,
		"SELECT name, price, kind, aux_info FROM sale_items WHERE sale_id = $1", id)
	if err != nil {
		return nil, err
	}

	return &models.Sale{
		ID:     row.ID,
		Client: row.Client,
		Items:  items,
		Total:  row.Total,
	}, nil
}

// GetSalesByClient retrieves journaled sale rows for a client
func (s *Store) GetSalesByClient(ctx context.Context, client string) ([]SaleRow, error) {
	var rows []SaleRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM sales WHERE client = $1 ORDER BY id", client)
	return rows, err
}

// DeleteSale removes a journaled sale and its items, reporting whether a
// row was found
func (s *Store) DeleteSale(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sale_items WHERE sale_id = $1", id); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, tx.Commit()
}
