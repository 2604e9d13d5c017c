// Package catalog serves the public storefront catalog: browse, search,
// filter, and product detail. All data lives in the commerce backend; this
// service validates inputs, bounds page sizes, and shapes responses.
package catalog

import (
	"context"
	"strings"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
)

const maxSearchLength = 120

// ProductLister is the backend surface the catalog reads from. Satisfied by
// *backend.Client.
type ProductLister interface {
	GetPublicProductList(ctx context.Context, params backend.ProductListParams) (*backend.ProductList, error)
	GetProductDetail(ctx context.Context, slug string) (*domain.Product, error)
}

// ListParams are the storefront's browse filters.
type ListParams struct {
	Search   string
	Category string
	Color    string
	Page     pagination.Params
}

// Service is the read-only catalog facade.
type Service struct {
	backend ProductLister
}

// NewService creates a catalog service.
func NewService(b ProductLister) *Service {
	return &Service{backend: b}
}

// ListProducts returns one page of the catalog matching the filters.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (*pagination.Result[domain.Product], error) {
	search := strings.TrimSpace(params.Search)
	if len(search) > maxSearchLength {
		return nil, apperrors.InvalidInput("search term too long")
	}

	page := params.Page
	if page.Page < 1 {
		page = pagination.DefaultParams()
	}

	list, err := s.backend.GetPublicProductList(ctx, backend.ProductListParams{
		Search:   search,
		Category: strings.TrimSpace(params.Category),
		Color:    strings.TrimSpace(params.Color),
		Page:     page.Page,
		PerPage:  page.PerPage,
	})
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(list.Products, list.Total, page)
	return &result, nil
}

// GetProduct returns a single product with its color variants.
func (s *Service) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("product slug is required")
	}
	return s.backend.GetProductDetail(ctx, slug)
}
