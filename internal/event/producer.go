package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/kafka"
)

// Kafka topic constants for storefront events.
const (
	TopicCartItemAdded = "rossel.cart.item_added"
	TopicOrderPlaced   = "rossel.order.placed"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// CartItemAddedData is the payload for the advisory cart.item_added event,
// consumed by clients to show a toast notification.
type CartItemAddedData struct {
	UserID        string `json:"user_id"`
	VariantID     string `json:"variant_id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	QuantityAdded int    `json:"quantity_added"`
}

// OrderPlacedData is the payload for the order.placed event, consumed by the
// external mailer to send the confirmation email.
type OrderPlacedData struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	TotalAmount int64  `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
}

// Producer publishes storefront events to Kafka. All publishes are advisory:
// failures are logged by the caller and never block the operation that
// triggered them.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartItemAdded publishes a cart.item_added event.
func (p *Producer) PublishCartItemAdded(ctx context.Context, data CartItemAddedData) error {
	event, err := pkgkafka.NewEvent(TopicCartItemAdded, data.UserID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.item_added event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartItemAdded, event); err != nil {
		return fmt.Errorf("publish cart.item_added event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.item_added event",
		slog.String("user_id", data.UserID),
		slog.String("variant_id", data.VariantID),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, data OrderPlacedData) error {
	event, err := pkgkafka.NewEvent(TopicOrderPlaced, data.OrderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", data.OrderID),
		slog.String("user_id", data.UserID),
	)

	return nil
}
