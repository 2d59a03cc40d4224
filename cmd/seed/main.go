package main

import (
	"context"
	"log"

	"inventory-service/config"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
)

// Seeds the catalog with sample categories, subcategories and discounts.
// Safe to run repeatedly: existing rows are left alone.
func main() {
	cfg := config.Load()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	categories := map[string][]string{
		"Electronics": {"Mobile Phones", "Laptops"},
		"Books":       {"Fiction", "Non-fiction"},
	}

	categoryIDs := map[string]int64{}
	for name, subNames := range categories {
		category, err := ensureCategory(ctx, db, name)
		if err != nil {
			log.Fatalf("Failed to seed category %q: %v", name, err)
		}
		categoryIDs[name] = category.ID

		for _, subName := range subNames {
			if err := ensureSubcategory(ctx, db, subName, category.ID); err != nil {
				log.Fatalf("Failed to seed subcategory %q: %v", subName, err)
			}
		}
	}

	electronicsID := categoryIDs["Electronics"]
	hasDiscount, err := db.DiscountExistsForCategory(ctx, electronicsID)
	if err != nil {
		log.Fatalf("Failed to check discounts: %v", err)
	}
	if !hasDiscount {
		discount := &models.Discount{Percentage: 10, CategoryID: &electronicsID}
		if err := db.CreateDiscount(ctx, discount); err != nil {
			log.Fatalf("Failed to seed discount: %v", err)
		}
	}

	log.Println("Seed data inserted")
}

func ensureCategory(ctx context.Context, db *store.Store, name string) (*models.Category, error) {
	existing, err := db.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	category := &models.Category{Name: name}
	if err := db.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func ensureSubcategory(ctx context.Context, db *store.Store, name string, categoryID int64) error {
	existing, err := db.GetSubcategoryByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	subcategory := &models.Subcategory{Name: name, CategoryID: categoryID}
	return db.CreateSubcategory(ctx, subcategory)
}
