package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"inventory-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing inventory domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishProductReserved publishes ProductReserved event
func (ep *EventPublisher) PublishProductReserved(ctx context.Context, event *models.ProductReservedEvent) error {
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishReservationCancelled publishes ReservationCancelled event
func (ep *EventPublisher) PublishReservationCancelled(ctx context.Context, event *models.ReservationCancelledEvent) error {
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishProductSold publishes ProductSold event
func (ep *EventPublisher) PublishProductSold(ctx context.Context, event *models.ProductSoldEvent) error {
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishStockDepleted publishes StockDepleted event
func (ep *EventPublisher) PublishStockDepleted(ctx context.Context, event *models.StockDepletedEvent) error {
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishPromotionStarted publishes PromotionStarted event
func (ep *EventPublisher) PublishPromotionStarted(ctx context.Context, event *models.PromotionStartedEvent) error {
	return ep.producer.PublishEvent(ctx, productKey(event.ProductID), event)
}

func productKey(productID int64) string {
	return fmt.Sprintf("product-%d", productID)
}

// EventHandler routes incoming inventory events to registered callbacks
type EventHandler struct {
	onProductReserved func(context.Context, *models.ProductReservedEvent) error
	onProductSold     func(context.Context, *models.ProductSoldEvent) error
	onStockDepleted   func(context.Context, *models.StockDepletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnProductReserved registers a handler for ProductReserved events
func (eh *EventHandler) OnProductReserved(handler func(context.Context, *models.ProductReservedEvent) error) {
	eh.onProductReserved = handler
}

// OnProductSold registers a handler for ProductSold events
func (eh *EventHandler) OnProductSold(handler func(context.Context, *models.ProductSoldEvent) error) {
	eh.onProductSold = handler
}

// OnStockDepleted registers a handler for StockDepleted events
func (eh *EventHandler) OnStockDepleted(handler func(context.Context, *models.StockDepletedEvent) error) {
	eh.onStockDepleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeProductReserved:
		if eh.onProductReserved != nil {
			var event models.ProductReservedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductReserved event: %w", err)
			}
			return eh.onProductReserved(ctx, &event)
		}

	case models.EventTypeProductSold:
		if eh.onProductSold != nil {
			var event models.ProductSoldEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductSold event: %w", err)
			}
			return eh.onProductSold(ctx, &event)
		}

	case models.EventTypeStockDepleted:
		if eh.onStockDepleted != nil {
			var event models.StockDepletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockDepleted event: %w", err)
			}
			return eh.onStockDepleted(ctx, &event)
		}
	}

	return nil
}
