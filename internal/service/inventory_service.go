package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/cache"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// InventoryService owns all product state transitions. Every mutating
// operation runs as one read-lock-mutate-write transaction; on any failure
// the transaction rolls back and no partial state is left behind.
type InventoryService struct {
	store          *store.Store
	cache          *cache.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	store *store.Store,
	cache *cache.Client,
	eventPublisher *broker.EventPublisher,
) *InventoryService {
	return &InventoryService{
		store:          store,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=100"`
	CategoryID       int64   `json:"category_id" binding:"required"`
	SubcategoryID    *int64  `json:"subcategory_id,omitempty"`
	Price            float64 `json:"price" binding:"required,gt=0"`
	Stock            int     `json:"stock" binding:"min=0"`
	ReservedQuantity int     `json:"reserved_quantity,omitempty" binding:"min=0"`
}

// ListProducts retrieves a page of products with optional category filters
func (s *InventoryService) ListProducts(ctx context.Context, skip, limit int, filter store.ProductFilter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.ListProducts")
	defer span.End()

	return s.store.ListProducts(ctx, skip, limit, filter)
}

// GetProduct retrieves a single product, serving from the cache when possible
func (s *InventoryService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.GetProduct")
	defer span.End()

	if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err)
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warn("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
	}

	return product, nil
}

// CreateProduct creates a new product. The selling price starts at the base
// price with no promotion active.
func (s *InventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.CreateProduct")
	defer span.End()

	if req.Price <= 0 {
		return nil, validationErr("price", "must be greater than 0")
	}
	if req.Stock < 0 {
		return nil, validationErr("stock", "must not be negative")
	}
	if req.ReservedQuantity > req.Stock {
		return nil, validationErr("reserved_quantity", "exceeds stock")
	}

	product := &models.Product{
		Name:             req.Name,
		CategoryID:       req.CategoryID,
		SubcategoryID:    req.SubcategoryID,
		BasePrice:        req.Price,
		Price:            req.Price,
		Stock:            req.Stock,
		ReservedQuantity: req.ReservedQuantity,
		IsAvailable:      true,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name))

	return product, nil
}

// DeleteProduct removes a product. Sale ledger entries are kept and
// detached; discounts scoped to the product go with it.
func (s *InventoryService) DeleteProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.DeleteProduct")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err)
	}

	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	if deleted == 0 {
		return nil, ErrNotFound
	}

	s.invalidate(ctx, id)
	s.logger.Info("Product deleted", zap.Int64("product_id", id))

	return product, nil
}

// UpdatePrice replaces the base price of a product
func (s *InventoryService) UpdatePrice(ctx context.Context, id int64, newPrice float64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.UpdatePrice")
	defer span.End()

	return s.mutate(ctx, id, func(p *models.Product) error {
		return applyPriceUpdate(p, newPrice)
	})
}

// UpdateStock replaces the stock count of a product
func (s *InventoryService) UpdateStock(ctx context.Context, id int64, newStock int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.UpdateStock")
	defer span.End()

	return s.mutate(ctx, id, func(p *models.Product) error {
		return applyStockUpdate(p, newStock)
	})
}

// Reserve holds one unit of stock for a pending sale
func (s *InventoryService) Reserve(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Reserve")
	defer span.End()

	product, err := s.mutate(ctx, id, applyReserve)
	if err != nil {
		if errors.Is(err, ErrOutOfStock) {
			util.ReservationsFailedTotal.WithLabelValues("out_of_stock").Inc()
		}
		return nil, err
	}

	util.ReservationsTotal.Inc()

	event := &models.ProductReservedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductReserved),
		ProductID: product.ID,
		Stock:     product.Stock,
		Reserved:  product.ReservedQuantity,
	}
	if err := s.eventPublisher.PublishProductReserved(ctx, event); err != nil {
		s.logger.Error("Failed to publish ProductReserved event", zap.Error(err))
	}

	return product, nil
}

// CancelReservation releases one held unit. Releasing with nothing held
// succeeds without changing anything.
func (s *InventoryService) CancelReservation(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.CancelReservation")
	defer span.End()

	product, err := s.mutate(ctx, id, func(p *models.Product) error {
		applyCancelReservation(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.ReservationsCancelledTotal.Inc()

	event := &models.ReservationCancelledEvent{
		BaseEvent: newBaseEvent(models.EventTypeReservationCancelled),
		ProductID: product.ID,
		Reserved:  product.ReservedQuantity,
	}
	if err := s.eventPublisher.PublishReservationCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReservationCancelled event", zap.Error(err))
	}

	return product, nil
}

// Sell converts one reserved unit into a sale. The sale price is resolved
// from matching discounts at sale time and recorded on the ledger entry.
func (s *InventoryService) Sell(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Sell")
	defer span.End()

	var product *models.Product
	var sale *models.Sale

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		p, err := s.store.GetProductForUpdateTx(ctx, tx, id)
		if err != nil {
			return mapNoRows(err)
		}

		discounts, err := s.store.GetDiscountsForProductTx(ctx, tx, p)
		if err != nil {
			return fmt.Errorf("failed to load discounts: %w", err)
		}

		sl, err := applySale(p, discounts, time.Now())
		if err != nil {
			return err
		}

		if err := s.store.SaveProductTx(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}
		if err := s.store.InsertSaleTx(ctx, tx, sl); err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}

		product, sale = p, sl
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNothingReserved) {
			util.SalesFailedTotal.WithLabelValues("nothing_reserved").Inc()
		}
		return nil, err
	}

	s.invalidate(ctx, id)

	util.SalesTotal.Inc()
	if sale.DiscountedPrice != nil {
		util.SalePriceHistogram.Observe(*sale.DiscountedPrice)
	}

	s.logger.Info("Product sold",
		zap.Int64("product_id", product.ID),
		zap.Int64("sale_id", sale.ID),
		zap.Int("stock_remaining", product.Stock))

	soldEvent := &models.ProductSoldEvent{
		BaseEvent:       newBaseEvent(models.EventTypeProductSold),
		ProductID:       product.ID,
		SaleID:          sale.ID,
		ActualPrice:     sale.ActualPrice,
		DiscountedPrice: sale.DiscountedPrice,
		StockRemaining:  product.Stock,
	}
	if err := s.eventPublisher.PublishProductSold(ctx, soldEvent); err != nil {
		s.logger.Error("Failed to publish ProductSold event", zap.Error(err))
	}

	if product.Stock == 0 && product.SoldDate != nil {
		depletedEvent := &models.StockDepletedEvent{
			BaseEvent: newBaseEvent(models.EventTypeStockDepleted),
			ProductID: product.ID,
			SoldDate:  *product.SoldDate,
		}
		if err := s.eventPublisher.PublishStockDepleted(ctx, depletedEvent); err != nil {
			s.logger.Error("Failed to publish StockDepleted event", zap.Error(err))
		}
	}

	return product, nil
}

// StartPromotion applies a promotion discount to a product
func (s *InventoryService) StartPromotion(ctx context.Context, id int64, discount float64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.StartPromotion")
	defer span.End()

	product, err := s.mutate(ctx, id, func(p *models.Product) error {
		return applyPromotion(p, discount)
	})
	if err != nil {
		return nil, err
	}

	util.PromotionsStartedTotal.Inc()

	event := &models.PromotionStartedEvent{
		BaseEvent: newBaseEvent(models.EventTypePromotionStarted),
		ProductID: product.ID,
		Discount:  product.Discount,
		NewPrice:  product.Price,
	}
	if err := s.eventPublisher.PublishPromotionStarted(ctx, event); err != nil {
		s.logger.Error("Failed to publish PromotionStarted event", zap.Error(err))
	}

	return product, nil
}

// ListSold retrieves depleted products, optionally bounded by sold date and category
func (s *InventoryService) ListSold(ctx context.Context, filter store.SoldFilter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.ListSold")
	defer span.End()

	return s.store.ListSoldProducts(ctx, filter)
}

// mutate runs one locked read-modify-write transaction for a single product
func (s *InventoryService) mutate(ctx context.Context, id int64, apply func(*models.Product) error) (*models.Product, error) {
	var product *models.Product

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		p, err := s.store.GetProductForUpdateTx(ctx, tx, id)
		if err != nil {
			return mapNoRows(err)
		}

		if err := apply(p); err != nil {
			return err
		}

		if err := s.store.SaveProductTx(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}

		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

func (s *InventoryService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
