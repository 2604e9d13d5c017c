package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/cart"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/validator"
)

// CartHandler handles HTTP requests for the session cart. The container is
// resolved by the WithCart middleware before these run.
type CartHandler struct {
	logger *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(logger *slog.Logger) *CartHandler {
	return &CartHandler{logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the JSON body for adding a variant to the cart.
type AddItemRequest struct {
	VariantID          string   `json:"variant_id" validate:"required"`
	ProductID          string   `json:"product_id" validate:"required"`
	Name               string   `json:"name" validate:"required,min=1,max=500"`
	Color              string   `json:"color"`
	Description        string   `json:"description"`
	SKU                string   `json:"sku"`
	UnitPriceRetail    int64    `json:"unit_price_retail" validate:"gte=0"`
	UnitPriceWholesale int64    `json:"unit_price_wholesale" validate:"gte=0"`
	ImageURLs          []string `json:"image_urls"`
	StockAtAdd         int      `json:"stock_at_add"`
	Quantity           int      `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON body for setting a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart payload: lines with effective unit prices plus
// the tier-aware total.
type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	Total     int64              `json:"total"`
	ItemCount int                `json:"item_count"`
}

// CartLineResponse is one cart line with its effective price applied.
type CartLineResponse struct {
	domain.CartLine
	Price    int64 `json:"unit_price"`
	Subtotal int64 `json:"subtotal"`
}

func cartResponse(c *cart.Container) CartResponse {
	lines := c.Lines()
	out := CartResponse{
		Lines:     make([]CartLineResponse, len(lines)),
		Total:     c.Total(),
		ItemCount: domain.CartItemCount(lines),
	}
	for i, line := range lines {
		out.Lines[i] = CartLineResponse{
			CartLine: line,
			Price:    line.UnitPrice(),
			Subtotal: line.Subtotal(),
		}
	}
	return out
}

// --- Handlers ---

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResponse(cartFromContext(r.Context()))})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
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
	_, err := container.AddItem(r.Context(), cart.AddItemInput{
		VariantID:          req.VariantID,
		ProductID:          req.ProductID,
		Name:               req.Name,
		Color:              req.Color,
		Description:        req.Description,
		SKU:                req.SKU,
		UnitPriceRetail:    req.UnitPriceRetail,
		UnitPriceWholesale: req.UnitPriceWholesale,
		ImageURLs:          req.ImageURLs,
		StockAtAdd:         req.StockAtAdd,
	}, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResponse(container)})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{variantId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	container := cartFromContext(r.Context())
	if err := container.SetQuantity(r.Context(), variantID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResponse(container)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{variantId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")

	container := cartFromContext(r.Context())
	if err := container.RemoveItem(r.Context(), variantID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResponse(container)})
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	container := cartFromContext(r.Context())
	if err := container.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResponse(container)})
}
