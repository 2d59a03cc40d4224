package service

import (
	"time"

	"inventory-service/internal/models"
)

// State-transition rules for a single product. These are pure functions so
// the stock invariants can be tested without a database; the service applies
// them between the locked read and the write of one transaction.

// applyReserve holds one unit for a pending sale.
// A unit can only be reserved while reserved_quantity < stock.
func applyReserve(p *models.Product) error {
	if p.ReservedQuantity >= p.Stock {
		return ErrOutOfStock
	}
	p.ReservedQuantity++
	return nil
}

// applyCancelReservation releases one held unit, floored at zero.
// Cancelling with nothing reserved is a no-op, not an error.
func applyCancelReservation(p *models.Product) {
	if p.ReservedQuantity > 0 {
		p.ReservedQuantity--
	}
}

// applySale converts one reserved unit into a sale ledger entry. The sale
// price comes from discount resolution and never mutates the product price.
// Draining the last unit marks the product unavailable and stamps sold_date.
func applySale(p *models.Product, discounts []models.Discount, now time.Time) (*models.Sale, error) {
	if p.ReservedQuantity <= 0 {
		return nil, ErrNothingReserved
	}

	percentage := resolveDiscount(p, discounts)
	discounted := effectivePrice(p.Price, percentage)

	p.Stock--
	p.ReservedQuantity--

	saleDate := dateOnly(now)
	if p.Stock == 0 {
		p.IsAvailable = false
		soldDate := saleDate
		p.SoldDate = &soldDate
	}

	productID := p.ID
	return &models.Sale{
		ProductID:       &productID,
		ActualPrice:     p.Price,
		DiscountedPrice: &discounted,
		SaleDate:        saleDate,
	}, nil
}

// applyPromotion sets the promotion discount and rederives the selling price
// from the base price. Repeated promotions replace each other instead of
// compounding.
func applyPromotion(p *models.Product, discount float64) error {
	if discount < 0 || discount > 100 {
		return validationErr("discount", "must be between 0 and 100")
	}
	p.Discount = discount
	p.Price = effectivePrice(p.BasePrice, discount)
	return nil
}

// applyPriceUpdate replaces the base price, keeping any active promotion
func applyPriceUpdate(p *models.Product, newPrice float64) error {
	if newPrice <= 0 {
		return validationErr("new_price", "must be greater than 0")
	}
	p.BasePrice = newPrice
	p.Price = effectivePrice(newPrice, p.Discount)
	return nil
}

// applyStockUpdate replaces the stock count, keeping reserved units intact
func applyStockUpdate(p *models.Product, newStock int) error {
	if newStock < 0 {
		return validationErr("new_stock", "must not be negative")
	}
	if newStock < p.ReservedQuantity {
		return validationErr("new_stock", "below reserved quantity")
	}
	p.Stock = newStock
	if newStock > 0 {
		p.IsAvailable = true
		p.SoldDate = nil
	}
	return nil
}

// resolveDiscount returns the maximum percentage among discount rows whose
// scope matches the product directly, its category, or its subcategory.
// Zero when nothing matches.
func resolveDiscount(p *models.Product, discounts []models.Discount) float64 {
	var max float64
	for _, d := range discounts {
		if !discountMatches(p, d) {
			continue
		}
		if d.Percentage > max {
			max = d.Percentage
		}
	}
	return max
}

func discountMatches(p *models.Product, d models.Discount) bool {
	if d.ProductID != nil && *d.ProductID == p.ID {
		return true
	}
	if d.CategoryID != nil && *d.CategoryID == p.CategoryID {
		return true
	}
	if d.SubcategoryID != nil && p.SubcategoryID != nil && *d.SubcategoryID == *p.SubcategoryID {
		return true
	}
	return false
}

func effectivePrice(price, discount float64) float64 {
	return price * (1 - discount/100)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
