package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/catalog"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
)

// CatalogHandler handles public product browsing.
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/products
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.catalog.ListProducts(r.Context(), catalog.ListParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Color:    q.Get("color"),
		Page:     pagination.FromRequest(r),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/products/{slug}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
