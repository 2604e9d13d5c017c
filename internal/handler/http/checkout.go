package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/checkout"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/validator"
)

// CheckoutHandler drives the purchase flow over the session cart.
type CheckoutHandler struct {
	checkout *checkout.Service
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(svc *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		logger:   logger,
	}
}

// PlaceOrderRequest is the JSON body for POST /api/v1/checkout/orders.
type PlaceOrderRequest struct {
	ShippingAddressID string `json:"shipping_address_id" validate:"required"`
}

// ValidateResponse reports what the backend changed about the cart. Empty
// means the cart may proceed to payment unchanged.
type ValidateResponse struct {
	Adjustments []checkout.Adjustment `json:"adjustments"`
	CartEmpty   bool                  `json:"cart_empty"`
	Cart        CartResponse          `json:"cart"`
}

// Validate handles POST /api/v1/checkout/validate
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	container := cartFromContext(r.Context())

	adjustments, err := h.checkout.ValidateCart(r.Context(), container)
	if err != nil && !checkout.IsCartEmpty(err) {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if adjustments == nil {
		adjustments = []checkout.Adjustment{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ValidateResponse{
		Adjustments: adjustments,
		CartEmpty:   checkout.IsCartEmpty(err),
		Cart:        cartResponse(container),
	}})
}

// PlaceOrder handles POST /api/v1/checkout/orders
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	container := cartFromContext(r.Context())
	orderID, err := h.checkout.PlaceOrder(r.Context(), container, req.ShippingAddressID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{"order_id": orderID}})
}
