package service

import (
	"context"
	"fmt"

	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService handles the category and subcategory groupings
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateCategory creates a category with a unique name
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateCategory")
	defer span.End()

	existing, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
	}

	category := &models.Category{Name: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", name))
	return category, nil
}

// ListCategories retrieves a page of categories
func (s *CatalogService) ListCategories(ctx context.Context, skip, limit int) ([]models.Category, error) {
	return s.store.ListCategories(ctx, skip, limit)
}

// CreateSubcategory creates a subcategory under an existing category
func (s *CatalogService) CreateSubcategory(ctx context.Context, name string, categoryID int64) (*models.Subcategory, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateSubcategory")
	defer span.End()

	exists, err := s.store.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
	}

	existing, err := s.store.GetSubcategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check subcategory name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("subcategory %q: %w", name, ErrDuplicateName)
	}

	subcategory := &models.Subcategory{Name: name, CategoryID: categoryID}
	if err := s.store.CreateSubcategory(ctx, subcategory); err != nil {
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	s.logger.Info("Subcategory created",
		zap.Int64("subcategory_id", subcategory.ID),
		zap.Int64("category_id", categoryID),
		zap.String("name", name))
	return subcategory, nil
}

// ListSubcategories retrieves a page of subcategories, optionally by category
func (s *CatalogService) ListSubcategories(ctx context.Context, skip, limit int, categoryID *int64) ([]models.Subcategory, error) {
	return s.store.ListSubcategories(ctx, skip, limit, categoryID)
}
