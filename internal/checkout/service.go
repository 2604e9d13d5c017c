// Package checkout drives the purchase flow: re-validating the cart against
// live stock and placing the order through the commerce backend.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/cart"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/event"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

// ErrCartEmpty signals there is nothing purchasable in the cart. Handlers
// redirect off the checkout flow when they see it.
var ErrCartEmpty = apperrors.InvalidInput("cart is empty")

// Adjustment kinds reported back to the client for toasts.
const (
	AdjustmentRemoved         = "removed"
	AdjustmentQuantityReduced = "quantity_reduced"
)

// Adjustment describes one change the backend made to a cart line during
// validation.
type Adjustment struct {
	VariantID         string `json:"variant_id"`
	Name              string `json:"name"`
	Color             string `json:"color"`
	Kind              string `json:"kind"`
	RequestedQuantity int    `json:"requested_quantity"`
	ValidatedQuantity int    `json:"validated_quantity"`
}

// OrderBackend is the backend surface checkout needs. Satisfied by
// *backend.Client.
type OrderBackend interface {
	ValidateCartItems(ctx context.Context, items []backend.CartItemRef) ([]domain.CartLine, error)
	CreateOrder(ctx context.Context, in backend.CreateOrderInput) (string, error)
}

// OrderNotifier publishes the order.placed event. Satisfied by
// *event.Producer.
type OrderNotifier interface {
	PublishOrderPlaced(ctx context.Context, data event.OrderPlacedData) error
}

// Service coordinates validation and order placement.
type Service struct {
	backend  OrderBackend
	notifier OrderNotifier
	logger   *slog.Logger
}

// NewService creates a checkout service.
func NewService(b OrderBackend, notifier OrderNotifier, logger *slog.Logger) *Service {
	return &Service{
		backend:  b,
		notifier: notifier,
		logger:   logger,
	}
}

// ValidateCart re-checks the container's lines against the backend. The
// validated set replaces the container's contents; the returned adjustments
// describe what changed (lines dropped or quantities reduced). When nothing
// purchasable remains, the adjustments are returned together with
// ErrCartEmpty.
func (s *Service) ValidateCart(ctx context.Context, c *cart.Container) ([]Adjustment, error) {
	before := c.Lines()
	if len(before) == 0 {
		return nil, ErrCartEmpty
	}

	refs := make([]backend.CartItemRef, len(before))
	for i, line := range before {
		refs[i] = backend.CartItemRef{VariantID: line.VariantID, Quantity: line.Quantity}
	}

	validated, err := s.backend.ValidateCartItems(ctx, refs)
	if err != nil {
		return nil, err
	}

	adjustments := diff(before, validated)

	if err := c.ReplaceLines(ctx, validated); err != nil {
		return nil, err
	}

	if len(c.Lines()) == 0 {
		return adjustments, ErrCartEmpty
	}
	return adjustments, nil
}

// PlaceOrder re-validates the cart and creates the order. Any validation
// adjustment aborts placement so the client can re-confirm the changed cart.
// On success the cart is cleared and the order.placed event is published
// fire-and-forget; the returned ID identifies the new order.
func (s *Service) PlaceOrder(ctx context.Context, c *cart.Container, addressID string) (string, error) {
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		return "", apperrors.InvalidInput("shipping address is required")
	}

	adjustments, err := s.ValidateCart(ctx, c)
	if err != nil {
		return "", err
	}
	if len(adjustments) > 0 {
		return "", apperrors.Conflict("cart contents changed during validation")
	}

	lines := c.Lines()
	refs := make([]backend.CartItemRef, len(lines))
	for i, line := range lines {
		refs[i] = backend.CartItemRef{VariantID: line.VariantID, Quantity: line.Quantity}
	}

	total := c.Total()
	itemCount := domain.CartItemCount(lines)

	orderID, err := s.backend.CreateOrder(ctx, backend.CreateOrderInput{
		UserID:            c.UserID(),
		ShippingAddressID: addressID,
		Items:             refs,
	})
	if err != nil {
		// The cart stays intact: nothing was placed.
		return "", err
	}

	if err := c.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart clear failed after order placement",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.notifier.PublishOrderPlaced(ctx, event.OrderPlacedData{
		OrderID:     orderID,
		UserID:      c.UserID(),
		TotalAmount: total,
		ItemCount:   itemCount,
	}); err != nil {
		s.logger.WarnContext(ctx, "order placed event not published",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	return orderID, nil
}

// diff reports, per original line, whether validation dropped it or reduced
// its quantity.
func diff(before, after []domain.CartLine) []Adjustment {
	var adjustments []Adjustment
	for _, orig := range before {
		idx := domain.FindLineIndex(after, orig.VariantID)
		if idx < 0 {
			adjustments = append(adjustments, Adjustment{
				VariantID:         orig.VariantID,
				Name:              orig.Name,
				Color:             orig.Color,
				Kind:              AdjustmentRemoved,
				RequestedQuantity: orig.Quantity,
			})
			continue
		}
		if after[idx].Quantity < orig.Quantity {
			adjustments = append(adjustments, Adjustment{
				VariantID:         orig.VariantID,
				Name:              orig.Name,
				Color:             orig.Color,
				Kind:              AdjustmentQuantityReduced,
				RequestedQuantity: orig.Quantity,
				ValidatedQuantity: after[idx].Quantity,
			})
		}
	}
	return adjustments
}

// IsCartEmpty reports whether err is the empty-cart condition.
func IsCartEmpty(err error) bool {
	return errors.Is(err, ErrCartEmpty)
}
