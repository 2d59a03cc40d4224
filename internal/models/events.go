package models

import "time"

// Event types
const (
	EventTypeProductReserved      = "PRODUCT_RESERVED"
	EventTypeReservationCancelled = "RESERVATION_CANCELLED"
	EventTypeProductSold          = "PRODUCT_SOLD"
	EventTypeStockDepleted        = "STOCK_DEPLETED"
	EventTypePromotionStarted     = "PROMOTION_STARTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductReservedEvent published when a unit is reserved
type ProductReservedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	Stock     int   `json:"stock"`
	Reserved  int   `json:"reserved"`
}

// ReservationCancelledEvent published when a reservation is released
type ReservationCancelledEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	Reserved  int   `json:"reserved"`
}

// ProductSoldEvent published when a reserved unit is sold
type ProductSoldEvent struct {
	BaseEvent
	ProductID       int64    `json:"product_id"`
	SaleID          int64    `json:"sale_id"`
	ActualPrice     float64  `json:"actual_price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`
	StockRemaining  int      `json:"stock_remaining"`
}

// StockDepletedEvent published when a sale drains the last unit
type StockDepletedEvent struct {
	BaseEvent
	ProductID int64     `json:"product_id"`
	SoldDate  time.Time `json:"sold_date"`
}

// PromotionStartedEvent published when a promotion discount is applied
type PromotionStartedEvent struct {
	BaseEvent
	ProductID int64   `json:"product_id"`
	Discount  float64 `json:"discount"`
	NewPrice  float64 `json:"new_price"`
}
