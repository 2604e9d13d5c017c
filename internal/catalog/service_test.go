package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
)

type stubLister struct {
	gotParams backend.ProductListParams
	gotSlug   string
	list      *backend.ProductList
	product   *domain.Product
	err       error
}

func (s *stubLister) GetPublicProductList(_ context.Context, params backend.ProductListParams) (*backend.ProductList, error) {
	s.gotParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubLister) GetProductDetail(_ context.Context, slug string) (*domain.Product, error) {
	s.gotSlug = slug
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func TestListProducts_PassesFiltersAndPages(t *testing.T) {
	stub := &stubLister{list: &backend.ProductList{
		Products: []domain.Product{{ID: "prod-1", Name: "Bolsa Mariana"}},
		Total:    41,
	}}
	svc := NewService(stub)

	result, err := svc.ListProducts(context.Background(), ListParams{
		Search:   "  mariana ",
		Category: "bolsas",
		Color:    "café",
		Page:     pagination.Params{Page: 2, PerPage: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, "mariana", stub.gotParams.Search)
	assert.Equal(t, "bolsas", stub.gotParams.Category)
	assert.Equal(t, "café", stub.gotParams.Color)
	assert.Equal(t, 2, stub.gotParams.Page)

	assert.Equal(t, 41, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
	require.Len(t, result.Data, 1)
}

func TestListProducts_DefaultsInvalidPage(t *testing.T) {
	stub := &stubLister{list: &backend.ProductList{}}
	svc := NewService(stub)

	_, err := svc.ListProducts(context.Background(), ListParams{Page: pagination.Params{Page: 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, stub.gotParams.Page)
	assert.Equal(t, 20, stub.gotParams.PerPage)
}

func TestListProducts_SearchTooLong(t *testing.T) {
	svc := NewService(&stubLister{})

	_, err := svc.ListProducts(context.Background(), ListParams{
		Search: strings.Repeat("a", 200),
		Page:   pagination.Params{Page: 1, PerPage: 20},
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestListProducts_BackendErrorPropagates(t *testing.T) {
	stub := &stubLister{err: apperrors.ServiceUnavailable("backend down")}
	svc := NewService(stub)

	_, err := svc.ListProducts(context.Background(), ListParams{Page: pagination.Params{Page: 1, PerPage: 20}})
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
}

func TestGetProduct(t *testing.T) {
	stub := &stubLister{product: &domain.Product{
		ID:   "prod-1",
		Slug: "bolsa-mariana",
		Variants: []domain.Variant{
			{ID: "var-1", Color: "café"},
			{ID: "var-2", Color: "negro"},
		},
	}}
	svc := NewService(stub)

	p, err := svc.GetProduct(context.Background(), " bolsa-mariana ")
	require.NoError(t, err)
	assert.Equal(t, "bolsa-mariana", stub.gotSlug)
	assert.Len(t, p.Variants, 2)
}

func TestGetProduct_EmptySlug(t *testing.T) {
	svc := NewService(&stubLister{})

	_, err := svc.GetProduct(context.Background(), "   ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
