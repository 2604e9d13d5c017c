package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/catalog"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

type stubCatalogBackend struct {
	listParams backend.ProductListParams
	products   []domain.Product
	detail     *domain.Product
}

func (s *stubCatalogBackend) GetPublicProductList(_ context.Context, params backend.ProductListParams) (*backend.ProductList, error) {
	s.listParams = params
	return &backend.ProductList{Products: s.products, Total: len(s.products)}, nil
}

func (s *stubCatalogBackend) GetProductDetail(_ context.Context, slug string) (*domain.Product, error) {
	if s.detail == nil || s.detail.Slug != slug {
		return nil, apperrors.NotFound("product", slug)
	}
	return s.detail, nil
}

func catalogRouter(stub *stubCatalogBackend) chi.Router {
	h := NewCatalogHandler(catalog.NewService(stub), testLogger())
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/{slug}", h.Get)
	return r
}

func TestCatalogList(t *testing.T) {
	stub := &stubCatalogBackend{products: []domain.Product{
		{ID: "prod-1", Name: "Bolsa Mariana", Slug: "bolsa-mariana-cafe"},
	}}
	r := catalogRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?search=mariana&category=bolsas&color=caf%C3%A9&page=2&per_page=10", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "mariana", stub.listParams.Search)
	assert.Equal(t, "bolsas", stub.listParams.Category)
	assert.Equal(t, "café", stub.listParams.Color)
	assert.Equal(t, 2, stub.listParams.Page)
	assert.Equal(t, 10, stub.listParams.PerPage)
	assert.Contains(t, rec.Body.String(), "bolsa-mariana-cafe")
}

func TestCatalogGet(t *testing.T) {
	stub := &stubCatalogBackend{detail: &domain.Product{
		ID:   "prod-1",
		Name: "Bolsa Mariana",
		Slug: "bolsa-mariana-cafe",
		Variants: []domain.Variant{
			{ID: "var-1", SKU: "BM-CAFE", Color: "café", UnitPriceRetail: 10000, UnitPriceWholesale: 8000},
		},
	}}
	r := catalogRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/bolsa-mariana-cafe", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BM-CAFE")
}

func TestCatalogGet_NotFound(t *testing.T) {
	r := catalogRouter(&stubCatalogBackend{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/no-such-bag", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
