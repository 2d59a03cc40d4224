package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(stock int) *models.Product {
	return &models.Product{
		ID:          1,
		Name:        "Test Product",
		CategoryID:  1,
		BasePrice:   100,
		Price:       100,
		Stock:       stock,
		IsAvailable: true,
	}
}

func TestReserveRespectsCapacity(t *testing.T) {
	p := newProduct(2)

	require.NoError(t, applyReserve(p))
	require.NoError(t, applyReserve(p))
	assert.Equal(t, 2, p.ReservedQuantity)

	err := applyReserve(p)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 2, p.ReservedQuantity)
	assert.Equal(t, 2, p.Stock)
}

func TestCancelReservationIsFlooredAtZero(t *testing.T) {
	p := newProduct(5)

	applyCancelReservation(p)
	assert.Equal(t, 0, p.ReservedQuantity)

	require.NoError(t, applyReserve(p))
	applyCancelReservation(p)
	assert.Equal(t, 0, p.ReservedQuantity)
	assert.Equal(t, 5, p.Stock)
}

func TestSellRequiresReservation(t *testing.T) {
	p := newProduct(5)

	_, err := applySale(p, nil, time.Now())
	assert.ErrorIs(t, err, ErrNothingReserved)
	assert.Equal(t, 5, p.Stock)
}

func TestSellDecrementsStockAndReservation(t *testing.T) {
	p := newProduct(5)
	require.NoError(t, applyReserve(p))

	sale, err := applySale(p, nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 0, p.ReservedQuantity)
	assert.True(t, p.IsAvailable)
	assert.Nil(t, p.SoldDate)

	require.NotNil(t, sale.ProductID)
	assert.Equal(t, p.ID, *sale.ProductID)
	assert.Equal(t, 100.0, sale.ActualPrice)
	require.NotNil(t, sale.DiscountedPrice)
	assert.Equal(t, 100.0, *sale.DiscountedPrice)
}

func TestSellingLastUnitMarksProductSold(t *testing.T) {
	p := newProduct(1)
	require.NoError(t, applyReserve(p))

	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	sale, err := applySale(p, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 0, p.Stock)
	assert.False(t, p.IsAvailable)
	require.NotNil(t, p.SoldDate)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), *p.SoldDate)
	assert.Equal(t, *p.SoldDate, sale.SaleDate)
}

func TestDiscountResolutionPicksMaximum(t *testing.T) {
	subcategoryID := int64(7)
	p := newProduct(5)
	p.SubcategoryID = &subcategoryID

	productID := p.ID
	categoryID := p.CategoryID
	discounts := []models.Discount{
		{Percentage: 10, CategoryID: &categoryID},
		{Percentage: 20, SubcategoryID: &subcategoryID},
		{Percentage: 5, ProductID: &productID},
	}

	assert.Equal(t, 20.0, resolveDiscount(p, discounts))
}

func TestDiscountResolutionIgnoresOtherScopes(t *testing.T) {
	p := newProduct(5)

	otherProduct := int64(99)
	otherCategory := int64(42)
	otherSubcategory := int64(7)
	discounts := []models.Discount{
		{Percentage: 50, ProductID: &otherProduct},
		{Percentage: 30, CategoryID: &otherCategory},
		{Percentage: 20, SubcategoryID: &otherSubcategory},
	}

	// Product has no subcategory, so nothing matches.
	assert.Equal(t, 0.0, resolveDiscount(p, discounts))
}

func TestSellAppliesResolvedDiscount(t *testing.T) {
	p := newProduct(5)
	require.NoError(t, applyReserve(p))

	categoryID := p.CategoryID
	discounts := []models.Discount{{Percentage: 25, CategoryID: &categoryID}}

	sale, err := applySale(p, discounts, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 100.0, sale.ActualPrice)
	require.NotNil(t, sale.DiscountedPrice)
	assert.Equal(t, 75.0, *sale.DiscountedPrice)
	// The resolved discount is recorded on the sale, never on the product.
	assert.Equal(t, 100.0, p.Price)
}

func TestPromotionDoesNotCompound(t *testing.T) {
	p := newProduct(5)

	require.NoError(t, applyPromotion(p, 50))
	assert.Equal(t, 50.0, p.Price)
	assert.Equal(t, 100.0, p.BasePrice)

	require.NoError(t, applyPromotion(p, 50))
	assert.Equal(t, 50.0, p.Price)

	require.NoError(t, applyPromotion(p, 20))
	assert.Equal(t, 80.0, p.Price)

	require.NoError(t, applyPromotion(p, 0))
	assert.Equal(t, 100.0, p.Price)
}

func TestPromotionValidatesRange(t *testing.T) {
	p := newProduct(5)

	var validationErr *ValidationError
	err := applyPromotion(p, -1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &validationErr))

	err = applyPromotion(p, 101)
	require.Error(t, err)
	assert.Equal(t, 100.0, p.Price)
}

func TestPriceUpdateKeepsActivePromotion(t *testing.T) {
	p := newProduct(5)
	require.NoError(t, applyPromotion(p, 50))

	require.NoError(t, applyPriceUpdate(p, 200))
	assert.Equal(t, 200.0, p.BasePrice)
	assert.Equal(t, 100.0, p.Price)

	err := applyPriceUpdate(p, 0)
	require.Error(t, err)
	err = applyPriceUpdate(p, -5)
	require.Error(t, err)
}

func TestStockUpdateGuards(t *testing.T) {
	p := newProduct(5)
	require.NoError(t, applyReserve(p))
	require.NoError(t, applyReserve(p))

	err := applyStockUpdate(p, 1)
	require.Error(t, err)
	assert.Equal(t, 5, p.Stock)

	require.NoError(t, applyStockUpdate(p, 2))
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 2, p.ReservedQuantity)
}

func TestStockUpdateRestoresAvailability(t *testing.T) {
	p := newProduct(1)
	require.NoError(t, applyReserve(p))
	_, err := applySale(p, nil, time.Now())
	require.NoError(t, err)
	require.False(t, p.IsAvailable)

	require.NoError(t, applyStockUpdate(p, 3))
	assert.True(t, p.IsAvailable)
	assert.Nil(t, p.SoldDate)
}

func TestReserveSellScenario(t *testing.T) {
	p := newProduct(5)

	require.NoError(t, applyReserve(p))
	require.NoError(t, applyReserve(p))

	first, err := applySale(p, nil, time.Now())
	require.NoError(t, err)
	second, err := applySale(p, nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, 0, p.ReservedQuantity)

	for _, sale := range []*models.Sale{first, second} {
		require.NotNil(t, sale.DiscountedPrice)
		assert.LessOrEqual(t, *sale.DiscountedPrice, sale.ActualPrice)
	}
}

// Random sequences of reserve/cancel/sell must never break 0 <= reserved <= stock.
func TestStockInvariantUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 100; run++ {
		p := newProduct(rng.Intn(10))

		for step := 0; step < 200; step++ {
			switch rng.Intn(3) {
			case 0:
				err := applyReserve(p)
				if err != nil {
					assert.ErrorIs(t, err, ErrOutOfStock)
				}
			case 1:
				applyCancelReservation(p)
			case 2:
				_, err := applySale(p, nil, time.Now())
				if err != nil {
					assert.ErrorIs(t, err, ErrNothingReserved)
				}
			}

			require.GreaterOrEqual(t, p.ReservedQuantity, 0)
			require.LessOrEqual(t, p.ReservedQuantity, p.Stock)
			require.GreaterOrEqual(t, p.Stock, 0)
			if p.Stock == 0 && p.SoldDate != nil {
				require.False(t, p.IsAvailable)
			}
		}
	}
}
