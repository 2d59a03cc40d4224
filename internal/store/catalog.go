package store

import (
	"context"
	"database/sql"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateCategory inserts a new category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.db.QueryRowxContext(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id",
		category.Name,
	).Scan(&category.ID)
}

// GetCategoryByName retrieves a category by its unique name.
// Returns (nil, nil) when absent.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryExists reports whether a category row exists
func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id)
	return exists, err
}

// ListCategories retrieves categories with offset/limit pagination
func (s *Store) ListCategories(ctx context.Context, skip, limit int) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories ORDER BY id OFFSET $1 LIMIT $2", skip, limit)
	return categories, err
}

// CreateSubcategory inserts a new subcategory
func (s *Store) CreateSubcategory(ctx context.Context, subcategory *models.Subcategory) error {
	return s.db.QueryRowxContext(ctx,
		"INSERT INTO subcategories (name, category_id) VALUES ($1, $2) RETURNING id",
		subcategory.Name, subcategory.CategoryID,
	).Scan(&subcategory.ID)
}

// GetSubcategoryByName retrieves a subcategory by its unique name.
// Returns (nil, nil) when absent.
func (s *Store) GetSubcategoryByName(ctx context.Context, name string) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	err := s.db.GetContext(ctx, &subcategory, "SELECT * FROM subcategories WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// ListSubcategories retrieves subcategories, optionally filtered by category
func (s *Store) ListSubcategories(ctx context.Context, skip, limit int, categoryID *int64) ([]models.Subcategory, error) {
	subcategories := []models.Subcategory{}
	if categoryID != nil {
		err := s.db.SelectContext(ctx, &subcategories,
			"SELECT * FROM subcategories WHERE category_id = $1 ORDER BY id OFFSET $2 LIMIT $3",
			*categoryID, skip, limit)
		return subcategories, err
	}
	err := s.db.SelectContext(ctx, &subcategories,
		"SELECT * FROM subcategories ORDER BY id OFFSET $1 LIMIT $2", skip, limit)
	return subcategories, err
}

// CreateDiscount inserts an administrative discount row
func (s *Store) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	return s.db.QueryRowxContext(ctx,
		"INSERT INTO discounts (percentage, product_id, category_id, subcategory_id) VALUES ($1, $2, $3, $4) RETURNING id",
		discount.Percentage, discount.ProductID, discount.CategoryID, discount.SubcategoryID,
	).Scan(&discount.ID)
}

// DiscountExistsForCategory reports whether a category-scoped discount exists
func (s *Store) DiscountExistsForCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM discounts WHERE category_id = $1)", categoryID)
	return exists, err
}

// GetDiscountsForProductTx retrieves all discount rows whose scope matches the
// product directly, its category, or its subcategory.
func (s *Store) GetDiscountsForProductTx(ctx context.Context, tx sqlx.QueryerContext, product *models.Product) ([]models.Discount, error) {
	query := `
		SELECT * FROM discounts
		WHERE product_id = $1
		   OR category_id = $2
		   OR ($3::bigint IS NOT NULL AND subcategory_id = $3)`

	discounts := []models.Discount{}
	err := sqlx.SelectContext(ctx, tx, &discounts, query, product.ID, product.CategoryID, product.SubcategoryID)
	return discounts, err
}
