package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/cart"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/event"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory CartStore for wiring real containers in tests.
type memStore struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string][]domain.CartLine)}
}

func (s *memStore) Get(_ context.Context, userID string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.carts[userID]
	if !ok {
		return nil, apperrors.NotFound("cart", userID)
	}
	return lines, nil
}

func (s *memStore) Save(_ context.Context, userID string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = lines
	return nil
}

func (s *memStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) PublishCartItemAdded(context.Context, event.CartItemAddedData) error {
	return nil
}

// stubBackend scripts validation and order creation.
type stubBackend struct {
	validated   []domain.CartLine
	validateErr error
	orderID     string
	orderErr    error

	gotValidate []backend.CartItemRef
	gotOrder    *backend.CreateOrderInput
}

func (s *stubBackend) ValidateCartItems(_ context.Context, items []backend.CartItemRef) ([]domain.CartLine, error) {
	s.gotValidate = items
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.validated, nil
}

func (s *stubBackend) CreateOrder(_ context.Context, in backend.CreateOrderInput) (string, error) {
	s.gotOrder = &in
	if s.orderErr != nil {
		return "", s.orderErr
	}
	return s.orderID, nil
}

type capturingOrderNotifier struct {
	mu     sync.Mutex
	placed []event.OrderPlacedData
	err    error
}

func (n *capturingOrderNotifier) PublishOrderPlaced(_ context.Context, data event.OrderPlacedData) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.placed = append(n.placed, data)
	return nil
}

func boundCart(t *testing.T, lines ...domain.CartLine) *cart.Container {
	t.Helper()
	c := cart.NewContainer(newMemStore(), noopNotifier{}, testLogger())
	require.NoError(t, c.BindIdentity(context.Background(), "user-1"))
	if len(lines) > 0 {
		require.NoError(t, c.ReplaceLines(context.Background(), lines))
	}
	return c
}

func line(variantID string, qty int) domain.CartLine {
	return domain.CartLine{
		VariantID:          variantID,
		ProductID:          "prod-1",
		Name:               "Bolsa Mariana",
		Color:              "café",
		UnitPriceRetail:    10000,
		UnitPriceWholesale: 8000,
		Quantity:           qty,
	}
}

// ============================================================
// ValidateCart
// ============================================================

func TestValidateCart_NoChanges(t *testing.T) {
	c := boundCart(t, line("var-1", 2))
	stub := &stubBackend{validated: []domain.CartLine{line("var-1", 2)}}
	svc := NewService(stub, &capturingOrderNotifier{}, testLogger())

	adjustments, err := svc.ValidateCart(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, adjustments)

	require.Len(t, stub.gotValidate, 1)
	assert.Equal(t, "var-1", stub.gotValidate[0].VariantID)
	assert.Equal(t, 2, stub.gotValidate[0].Quantity)
}

func TestValidateCart_LineRemoved(t *testing.T) {
	c := boundCart(t, line("var-1", 2), line("var-2", 1))
	stub := &stubBackend{validated: []domain.CartLine{line("var-1", 2)}}
	svc := NewService(stub, &capturingOrderNotifier{}, testLogger())

	adjustments, err := svc.ValidateCart(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, adjustments, 1)
	assert.Equal(t, "var-2", adjustments[0].VariantID)
	assert.Equal(t, AdjustmentRemoved, adjustments[0].Kind)

	// The container now holds exactly the validated set.
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "var-1", lines[0].VariantID)
}

func TestValidateCart_QuantityReduced(t *testing.T) {
	c := boundCart(t, line("var-1", 5))
	stub := &stubBackend{validated: []domain.CartLine{line("var-1", 3)}}
	svc := NewService(stub, &capturingOrderNotifier{}, testLogger())

	adjustments, err := svc.ValidateCart(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, adjustments, 1)
	assert.Equal(t, AdjustmentQuantityReduced, adjustments[0].Kind)
	assert.Equal(t, 5, adjustments[0].RequestedQuantity)
	assert.Equal(t, 3, adjustments[0].ValidatedQuantity)
	assert.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestValidateCart_EmptyCart(t *testing.T) {
	c := boundCart(t)
	svc := NewService(&stubBackend{}, &capturingOrderNotifier{}, testLogger())

	_, err := svc.ValidateCart(context.Background(), c)
	assert.True(t, IsCartEmpty(err))
}

func TestValidateCart_EverythingDropped(t *testing.T) {
	c := boundCart(t, line("var-1", 2))
	stub := &stubBackend{validated: nil}
	svc := NewService(stub, &capturingOrderNotifier{}, testLogger())

	adjustments, err := svc.ValidateCart(context.Background(), c)
	assert.True(t, IsCartEmpty(err))
	require.Len(t, adjustments, 1)
	assert.Equal(t, AdjustmentRemoved, adjustments[0].Kind)
	assert.Empty(t, c.Lines())
}

func TestValidateCart_BackendErrorLeavesCartIntact(t *testing.T) {
	c := boundCart(t, line("var-1", 2))
	stub := &stubBackend{validateErr: apperrors.ServiceUnavailable("backend down")}
	svc := NewService(stub, &capturingOrderNotifier{}, testLogger())

	_, err := svc.ValidateCart(context.Background(), c)
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
	assert.Len(t, c.Lines(), 1)
}

// ============================================================
// PlaceOrder
// ============================================================

func TestPlaceOrder_Success(t *testing.T) {
	c := boundCart(t, line("var-1", 4))
	stub := &stubBackend{
		validated: []domain.CartLine{line("var-1", 4)},
		orderID:   "order-42",
	}
	notifier := &capturingOrderNotifier{}
	svc := NewService(stub, notifier, testLogger())

	orderID, err := svc.PlaceOrder(context.Background(), c, "addr-1")
	require.NoError(t, err)
	assert.Equal(t, "order-42", orderID)

	require.NotNil(t, stub.gotOrder)
	assert.Equal(t, "user-1", stub.gotOrder.UserID)
	assert.Equal(t, "addr-1", stub.gotOrder.ShippingAddressID)
	require.Len(t, stub.gotOrder.Items, 1)
	assert.Equal(t, 4, stub.gotOrder.Items[0].Quantity)

	// Cart cleared after placement.
	assert.Empty(t, c.Lines())

	// Event carries the pre-clear totals, wholesale tier applied.
	require.Len(t, notifier.placed, 1)
	assert.Equal(t, "order-42", notifier.placed[0].OrderID)
	assert.Equal(t, int64(4*8000), notifier.placed[0].TotalAmount)
	assert.Equal(t, 4, notifier.placed[0].ItemCount)
}

func TestPlaceOrder_MissingAddress(t *testing.T) {
	c := boundCart(t, line("var-1", 1))
	svc := NewService(&stubBackend{}, &capturingOrderNotifier{}, testLogger())

	_, err := svc.PlaceOrder(context.Background(), c, "  ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestPlaceOrder_AdjustmentsAbortPlacement(t *testing.T) {
	c := boundCart(t, line("var-1", 5))
	stub := &stubBackend{validated: []domain.CartLine{line("var-1", 3)}}
	svc := NewService(stub, &capturingOrderNotifier{}, testLogger())

	_, err := svc.PlaceOrder(context.Background(), c, "addr-1")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Nil(t, stub.gotOrder, "no order may be created")

	// The cart reflects the validated quantities for re-confirmation.
	assert.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestPlaceOrder_BackendFailureKeepsCart(t *testing.T) {
	c := boundCart(t, line("var-1", 2))
	stub := &stubBackend{
		validated: []domain.CartLine{line("var-1", 2)},
		orderErr:  apperrors.ServiceUnavailable("backend down"),
	}
	notifier := &capturingOrderNotifier{}
	svc := NewService(stub, notifier, testLogger())

	_, err := svc.PlaceOrder(context.Background(), c, "addr-1")
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
	assert.Len(t, c.Lines(), 1, "cart untouched when order not placed")
	assert.Empty(t, notifier.placed)
}

func TestPlaceOrder_PublishFailureDoesNotFail(t *testing.T) {
	c := boundCart(t, line("var-1", 1))
	stub := &stubBackend{
		validated: []domain.CartLine{line("var-1", 1)},
		orderID:   "order-7",
	}
	notifier := &capturingOrderNotifier{err: errors.New("kafka down")}
	svc := NewService(stub, notifier, testLogger())

	orderID, err := svc.PlaceOrder(context.Background(), c, "addr-1")
	require.NoError(t, err)
	assert.Equal(t, "order-7", orderID)
	assert.Empty(t, c.Lines())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	c := boundCart(t)
	svc := NewService(&stubBackend{}, &capturingOrderNotifier{}, testLogger())

	_, err := svc.PlaceOrder(context.Background(), c, "addr-1")
	assert.True(t, IsCartEmpty(err))
}
