package store

import (
	"context"
	"fmt"
	"time"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, category_id, subcategory_id, base_price, price, discount, stock, reserved_quantity, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		product.Name, product.CategoryID, product.SubcategoryID,
		product.BasePrice, product.Price, product.Discount,
		product.Stock, product.ReservedQuantity, product.IsAvailable,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductForUpdateTx retrieves a product inside tx with a row lock
func (s *Store) GetProductForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Product, error) {
	var product models.Product
	if err := tx.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1 FOR UPDATE", id); err != nil {
		return nil, err
	}
	return &product, nil
}

// SaveProductTx writes back the mutable product fields inside tx
func (s *Store) SaveProductTx(ctx context.Context, tx *sqlx.Tx, product *models.Product) error {
	query := `
		UPDATE products
		SET base_price = $1, price = $2, discount = $3, stock = $4,
		    reserved_quantity = $5, is_available = $6, sold_date = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	return tx.QueryRowxContext(ctx, query,
		product.BasePrice, product.Price, product.Discount, product.Stock,
		product.ReservedQuantity, product.IsAvailable, product.SoldDate, product.ID,
	).Scan(&product.UpdatedAt)
}

// DeleteProduct removes a product. Returns the number of rows deleted.
func (s *Store) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ProductFilter holds the optional list predicates, applied conjunctively
type ProductFilter struct {
	CategoryID    *int64
	SubcategoryID *int64
}

// ListProducts retrieves products with offset/limit pagination
func (s *Store) ListProducts(ctx context.Context, skip, limit int, filter ProductFilter) ([]models.Product, error) {
	query := "SELECT * FROM products"
	args := []interface{}{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" WHERE category_id = $%d", len(args))
	}
	if filter.SubcategoryID != nil {
		args = append(args, *filter.SubcategoryID)
		if len(args) == 1 {
			query += " WHERE"
		} else {
			query += " AND"
		}
		query += fmt.Sprintf(" subcategory_id = $%d", len(args))
	}

	args = append(args, skip)
	query += fmt.Sprintf(" ORDER BY id OFFSET $%d", len(args))
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// SoldFilter holds the optional sold-report predicates, inclusive on both ends
type SoldFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
}

// ListSoldProducts retrieves depleted products, optionally bounded by sold date and category
func (s *Store) ListSoldProducts(ctx context.Context, filter SoldFilter) ([]models.Product, error) {
	query := "SELECT * FROM products WHERE is_available = FALSE"
	args := []interface{}{}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND sold_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND sold_date <= $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	query += " ORDER BY sold_date, id"

	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}
