package worker

import (
	"context"

	"inventory-service/internal/broker"
	"inventory-service/internal/cache"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// ReportWorker consumes sale events and maintains the daily sales counters.
// Events are deduplicated through the processed_events table, so replays
// after a consumer restart do not double-count.
type ReportWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	cache        *cache.Client
	logger       *zap.Logger
}

// NewReportWorker creates a new report worker
func NewReportWorker(consumer *broker.Consumer, store *store.Store, cache *cache.Client) *ReportWorker {
	w := &ReportWorker{
		consumer: consumer,
		store:    store,
		cache:    cache,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnProductSold(w.handleProductSold)
	eventHandler.OnStockDepleted(w.handleStockDepleted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ReportWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting report worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReportWorker) Stop() error {
	w.logger.Info("Stopping report worker")
	return w.consumer.Close()
}

func (w *ReportWorker) handleProductSold(ctx context.Context, event *models.ProductSoldEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	if err := w.cache.IncrDailySales(ctx, event.Timestamp); err != nil {
		w.logger.Warn("Failed to bump daily sales counter",
			zap.Int64("product_id", event.ProductID),
			zap.Error(err))
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *ReportWorker) handleStockDepleted(ctx context.Context, event *models.StockDepletedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	util.StockDepletedTotal.Inc()
	w.logger.Info("Product sold out",
		zap.Int64("product_id", event.ProductID),
		zap.Time("sold_date", event.SoldDate))

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

// StockAlertWorker watches reservation events and warns when the number of
// unreserved units drops below the configured threshold.
type StockAlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	threshold    int
	logger       *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(consumer *broker.Consumer, threshold int) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer:  consumer,
		threshold: threshold,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnProductReserved(w.handleProductReserved)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock alert worker", zap.Int("threshold", w.threshold))
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	w.logger.Info("Stopping stock alert worker")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleProductReserved(ctx context.Context, event *models.ProductReservedEvent) error {
	remaining := event.Stock - event.Reserved
	if remaining < w.threshold {
		w.logger.Warn("Product running low on unreserved stock",
			zap.Int64("product_id", event.ProductID),
			zap.Int("stock", event.Stock),
			zap.Int("reserved", event.Reserved))
	}
	return nil
}
