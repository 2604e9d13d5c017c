package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/admin"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/document"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/order"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/middleware"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/validator"
)

const maxImageUploadBytes = 10 << 20 // 10 MB

// AdminHandler serves the back-office API: catalog management, users,
// orders, dashboard, and fulfillment documents.
type AdminHandler struct {
	admin  *admin.Service
	orders *order.Service
	sender domain.Address
	logger *slog.Logger
}

// NewAdminHandler creates the back-office HTTP handler. sender is the
// warehouse address printed on shipping labels.
func NewAdminHandler(adminSvc *admin.Service, orderSvc *order.Service, sender domain.Address, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  adminSvc,
		orders: orderSvc,
		sender: sender,
		logger: logger,
	}
}

// --- Products ---

// CreateProduct handles POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input admin.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	product, err := h.admin.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/admin/products/{productId}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input admin.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	product, err := h.admin.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{productId}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// UploadImage handles POST /api/v1/admin/images
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid multipart form: " + err.Error()},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "file field is required"},
		})
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.admin.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{"url": url}})
}

// --- Users ---

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	result, err := h.admin.ListUsers(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// DeleteUser handles DELETE /api/v1/admin/users/{userId}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actingUserID := middleware.UserIDFromContext(r.Context())
	if err := h.admin.DeleteUser(r.Context(), actingUserID, chi.URLParam(r, "userId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// --- Orders ---

// UpdateOrderStatusRequest is the JSON body for order status transitions.
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// ListOrders handles GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.AdminList(r.Context(), r.URL.Query().Get("status"), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetOrder handles GET /api/v1/admin/orders/{orderId}
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.AdminGet(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: o})
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/{orderId}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
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

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status, req.TrackingNumber)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: o})
}

// --- Documents ---

// PackingChecklist handles GET /api/v1/admin/orders/{orderId}/packing-checklist
func (h *AdminHandler) PackingChecklist(w http.ResponseWriter, r *http.Request) {
	h.writeDocument(w, r, "lista-empaque", document.PackingChecklist)
}

// ShippingLabel handles GET /api/v1/admin/orders/{orderId}/shipping-label
func (h *AdminHandler) ShippingLabel(w http.ResponseWriter, r *http.Request) {
	h.writeDocument(w, r, "etiqueta-envio", document.ShippingLabel)
}

func (h *AdminHandler) writeDocument(w http.ResponseWriter, r *http.Request, name string, render func(*domain.Order, domain.Address) ([]byte, error)) {
	orderID := chi.URLParam(r, "orderId")

	o, err := h.orders.AdminGet(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	pdf, err := render(o, h.sender)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.pdf"`, name, orderID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// --- Dashboard ---

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid from date, expected YYYY-MM-DD"},
		})
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid to date, expected YYYY-MM-DD"},
		})
		return
	}

	analytics, err := h.admin.Dashboard(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: analytics})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// writeServiceError routes validation errors to the field-map response and
// everything else to the standard error writer.
func (h *AdminHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, h.logger)
}
