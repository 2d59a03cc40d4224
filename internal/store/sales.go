package store

import (
	"context"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// InsertSaleTx appends a sale ledger entry inside tx
func (s *Store) InsertSaleTx(ctx context.Context, tx *sqlx.Tx, sale *models.Sale) error {
	query := `
		INSERT INTO sales (product_id, actual_price, discounted_price, sale_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return tx.QueryRowxContext(ctx, query,
		sale.ProductID, sale.ActualPrice, sale.DiscountedPrice, sale.SaleDate,
	).Scan(&sale.ID)
}

// GetSalesByProductID retrieves the sale ledger for a product
func (s *Store) GetSalesByProductID(ctx context.Context, productID int64) ([]models.Sale, error) {
	sales := []models.Sale{}
	err := s.db.SelectContext(ctx, &sales,
		"SELECT * FROM sales WHERE product_id = $1 ORDER BY id", productID)
	return sales, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
