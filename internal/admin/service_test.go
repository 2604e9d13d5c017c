package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/imagecdn"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubBackend struct {
	products      map[string]*domain.Product
	created       *domain.Product
	updated       *domain.Product
	deletedID     string
	deleteErr     error
	users         *backend.UserList
	deletedUserID string
	analytics     *domain.DashboardAnalytics
	gotFrom       time.Time
	gotTo         time.Time
}

func (s *stubBackend) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return p, nil
}

func (s *stubBackend) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.created = p
	out := *p
	out.ID = "prod-new"
	return &out, nil
}

func (s *stubBackend) UpdateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.updated = p
	return p, nil
}

func (s *stubBackend) DeleteProduct(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedID = id
	return nil
}

func (s *stubBackend) ListUsers(_ context.Context, page, perPage int) (*backend.UserList, error) {
	if s.users == nil {
		return &backend.UserList{}, nil
	}
	return s.users, nil
}

func (s *stubBackend) DeleteUser(_ context.Context, id string) error {
	s.deletedUserID = id
	return nil
}

func (s *stubBackend) GetDashboardAnalytics(_ context.Context, from, to time.Time) (*domain.DashboardAnalytics, error) {
	s.gotFrom, s.gotTo = from, to
	if s.analytics == nil {
		return &domain.DashboardAnalytics{}, nil
	}
	return s.analytics, nil
}

type stubImages struct {
	uploadedName string
	uploadURL    string
	uploadErr    error
	deletedURLs  []string
	results      []imagecdn.DeleteResult
}

func (s *stubImages) Upload(_ context.Context, filename, contentType string, r io.Reader) (string, error) {
	s.uploadedName = filename
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.uploadURL, nil
}

func (s *stubImages) BulkDelete(_ context.Context, urls []string) []imagecdn.DeleteResult {
	s.deletedURLs = urls
	return s.results
}

func validInput() ProductInput {
	return ProductInput{
		Name:     "Bolsa Mariana Café",
		Category: "bolsas",
		Variants: []VariantInput{{
			SKU:                "BM-CAFE",
			Color:              "café",
			UnitPriceRetail:    10000,
			UnitPriceWholesale: 8000,
			Stock:              12,
		}},
	}
}

// ============================================================
// Products
// ============================================================

func TestCreateProduct_DerivesSlug(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub, &stubImages{}, testLogger())

	p, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "prod-new", p.ID)
	require.NotNil(t, stub.created)
	assert.Equal(t, "bolsa-mariana-cafe", stub.created.Slug)
	assert.Equal(t, "Bolsa Mariana Café", stub.created.Name)
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubImages{}, testLogger())

	input := validInput()
	input.Variants = nil
	_, err := svc.CreateProduct(context.Background(), input)

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "Variants")
}

func TestCreateProduct_RejectsZeroPrice(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubImages{}, testLogger())

	input := validInput()
	input.Variants[0].UnitPriceRetail = 0
	_, err := svc.CreateProduct(context.Background(), input)
	assert.Error(t, err)
}

func TestUpdateProduct_ReslugsOnRename(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub, &stubImages{}, testLogger())

	input := validInput()
	input.Name = "Cartera Niñas"
	p, err := svc.UpdateProduct(context.Background(), "prod-1", input)
	require.NoError(t, err)

	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, "cartera-ninas", stub.updated.Slug)
}

func TestDeleteProduct_CleansUpImages(t *testing.T) {
	stub := &stubBackend{products: map[string]*domain.Product{
		"prod-1": {
			ID: "prod-1",
			Variants: []domain.Variant{
				{ID: "var-1", ImageURLs: []string{"https://cdn.rossel.mx/a.jpg"}},
				{ID: "var-2", ImageURLs: []string{"https://cdn.rossel.mx/b.jpg"}},
			},
		},
	}}
	images := &stubImages{results: []imagecdn.DeleteResult{
		{URL: "https://cdn.rossel.mx/a.jpg", Status: imagecdn.DeleteStatusOK},
		{URL: "https://cdn.rossel.mx/b.jpg", Status: imagecdn.DeleteStatusError},
	}}
	svc := NewService(stub, images, testLogger())

	// Partial CDN failure does not fail the delete.
	require.NoError(t, svc.DeleteProduct(context.Background(), "prod-1"))
	assert.Equal(t, "prod-1", stub.deletedID)
	assert.Equal(t, []string{"https://cdn.rossel.mx/a.jpg", "https://cdn.rossel.mx/b.jpg"}, images.deletedURLs)
}

func TestDeleteProduct_BackendFailureSkipsImageCleanup(t *testing.T) {
	stub := &stubBackend{
		products:  map[string]*domain.Product{"prod-1": {ID: "prod-1"}},
		deleteErr: apperrors.ServiceUnavailable("backend down"),
	}
	images := &stubImages{}
	svc := NewService(stub, images, testLogger())

	err := svc.DeleteProduct(context.Background(), "prod-1")
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
	assert.Nil(t, images.deletedURLs)
}

func TestDeleteProduct_Unknown(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubImages{}, testLogger())

	err := svc.DeleteProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// ============================================================
// Images
// ============================================================

func TestUploadImage(t *testing.T) {
	images := &stubImages{uploadURL: "https://cdn.rossel.mx/c.jpg"}
	svc := NewService(&stubBackend{}, images, testLogger())

	url, err := svc.UploadImage(context.Background(), "c.jpg", "image/jpeg", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.rossel.mx/c.jpg", url)
	assert.Equal(t, "c.jpg", images.uploadedName)
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubImages{}, testLogger())

	_, err := svc.UploadImage(context.Background(), "x.pdf", "application/pdf", strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

// ============================================================
// Users and dashboard
// ============================================================

func TestListUsers(t *testing.T) {
	stub := &stubBackend{users: &backend.UserList{
		Users: []domain.User{{ID: "user-1", Email: "ana@rossel.mx"}},
		Total: 1,
	}}
	svc := NewService(stub, &stubImages{}, testLogger())

	result, err := svc.ListUsers(context.Background(), pagination.Params{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
}

func TestDeleteUser_SelfDeleteRejected(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub, &stubImages{}, testLogger())

	err := svc.DeleteUser(context.Background(), "admin-1", "admin-1")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Empty(t, stub.deletedUserID)

	require.NoError(t, svc.DeleteUser(context.Background(), "admin-1", "user-2"))
	assert.Equal(t, "user-2", stub.deletedUserID)
}

func TestDashboard_DefaultsToLast30Days(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub, &stubImages{}, testLogger())

	_, err := svc.Dashboard(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), stub.gotTo, time.Minute)
	assert.WithinDuration(t, stub.gotTo.Add(-30*24*time.Hour), stub.gotFrom, time.Minute)
}

func TestDashboard_InvertedRange(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubImages{}, testLogger())

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Dashboard(context.Background(), from, to)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
