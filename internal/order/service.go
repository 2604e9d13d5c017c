// Package order exposes customer order history and the admin status
// workflow. Orders live in the commerce backend; the service enforces
// ownership and the status state machine before forwarding.
package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
)

// OrderBackend is the backend surface the order service needs. Satisfied by
// *backend.Client.
type OrderBackend interface {
	ListOrders(ctx context.Context, params backend.OrderListParams) (*backend.OrderList, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status, trackingNumber string) (*domain.Order, error)
}

// Service mediates order reads and status transitions.
type Service struct {
	backend OrderBackend
}

// NewService creates an order service.
func NewService(b OrderBackend) *Service {
	return &Service{backend: b}
}

// History returns one page of the given user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string, page pagination.Params) (*pagination.Result[domain.Order], error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("no authenticated user")
	}
	if page.Page < 1 {
		page = pagination.DefaultParams()
	}

	list, err := s.backend.ListOrders(ctx, backend.OrderListParams{
		UserID:  userID,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(list.Orders, list.Total, page)
	return &result, nil
}

// Get returns a single order, verifying it belongs to the requesting user.
// A foreign order reads as not found rather than forbidden, so order IDs
// leak nothing.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", orderID)
	}
	return order, nil
}

// AdminList returns one page of all orders, optionally filtered by status.
func (s *Service) AdminList(ctx context.Context, status string, page pagination.Params) (*pagination.Result[domain.Order], error) {
	if status != "" && !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", status))
	}
	if page.Page < 1 {
		page = pagination.DefaultParams()
	}

	list, err := s.backend.ListOrders(ctx, backend.OrderListParams{
		Status:  status,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(list.Orders, list.Total, page)
	return &result, nil
}

// AdminGet returns any order without an ownership check.
func (s *Service) AdminGet(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.fetch(ctx, orderID)
}

// UpdateStatus moves an order along the fulfillment state machine. Illegal
// transitions are rejected before the backend is called. Shipping requires
// a tracking number.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status, trackingNumber string) (*domain.Order, error) {
	status = strings.TrimSpace(status)
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", status))
	}

	order, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(status) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("order cannot move from %s to %s", order.Status, status))
	}

	if status == domain.OrderStatusShipped && strings.TrimSpace(trackingNumber) == "" {
		return nil, apperrors.InvalidInput("tracking number is required to mark an order shipped")
	}

	return s.backend.UpdateOrderStatus(ctx, orderID, status, strings.TrimSpace(trackingNumber))
}

func (s *Service) fetch(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	return s.backend.GetOrder(ctx, orderID)
}
