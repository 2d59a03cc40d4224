package models

import "time"

// Category groups products at the top level
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Subcategory is an optional second grouping level under a category
type Subcategory struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	CategoryID int64  `db:"category_id" json:"category_id"`
}

// Product represents a catalog item and its stock state.
// Price is always derived from BasePrice and the active promotion discount;
// BasePrice only changes through an explicit price update.
type Product struct {
	ID               int64      `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	CategoryID       int64      `db:"category_id" json:"category_id"`
	SubcategoryID    *int64     `db:"subcategory_id" json:"subcategory_id,omitempty"`
	BasePrice        float64    `db:"base_price" json:"base_price"`
	Price            float64    `db:"price" json:"price"`
	Discount         float64    `db:"discount" json:"discount"`
	Stock            int        `db:"stock" json:"stock"`
	ReservedQuantity int        `db:"reserved_quantity" json:"reserved_quantity"`
	IsAvailable      bool       `db:"is_available" json:"is_available"`
	SoldDate         *time.Time `db:"sold_date" json:"sold_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Discount is an administratively created percentage scoped to exactly one
// of a product, a category, or a subcategory.
type Discount struct {
	ID            int64   `db:"id" json:"id"`
	Percentage    float64 `db:"percentage" json:"percentage"`
	ProductID     *int64  `db:"product_id" json:"product_id,omitempty"`
	CategoryID    *int64  `db:"category_id" json:"category_id,omitempty"`
	SubcategoryID *int64  `db:"subcategory_id" json:"subcategory_id,omitempty"`
}

// Sale is one immutable ledger entry per completed sale. ProductID is
// nullable because the ledger outlives deleted products.
type Sale struct {
	ID              int64     `db:"id" json:"id"`
	ProductID       *int64    `db:"product_id" json:"product_id,omitempty"`
	ActualPrice     float64   `db:"actual_price" json:"actual_price"`
	DiscountedPrice *float64  `db:"discounted_price" json:"discounted_price,omitempty"`
	SaleDate        time.Time `db:"sale_date" json:"sale_date"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
