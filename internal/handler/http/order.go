package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/order"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/middleware"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
)

// OrderHandler serves a customer's own orders.
type OrderHandler struct {
	orders *order.Service
	logger *slog.Logger
}

// NewOrderHandler creates an order HTTP handler.
func NewOrderHandler(svc *order.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: svc,
		logger: logger,
	}
}

// History handles GET /api/v1/orders
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.History(r.Context(), middleware.UserIDFromContext(r.Context()), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/orders/{orderId}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "orderId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: o})
}
