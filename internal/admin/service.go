// Package admin is the back-office: product catalog management, image
// uploads, user administration, and the sales dashboard. All admin routes
// are role-gated at the router.
package admin

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/imagecdn"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/pagination"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/slug"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/validator"
)

const defaultDashboardRange = 30 * 24 * time.Hour

// AdminBackend is the backend surface the back-office needs. Satisfied by
// *backend.Client.
type AdminBackend interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListUsers(ctx context.Context, page, perPage int) (*backend.UserList, error)
	DeleteUser(ctx context.Context, userID string) error
	GetDashboardAnalytics(ctx context.Context, from, to time.Time) (*domain.DashboardAnalytics, error)
}

// ImageStore is the CDN surface for product images. Satisfied by
// *imagecdn.Client.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	BulkDelete(ctx context.Context, urls []string) []imagecdn.DeleteResult
}

// VariantInput is one color variant of a product being created or updated.
type VariantInput struct {
	ID                 string   `json:"id"`
	SKU                string   `json:"sku" validate:"required"`
	Color              string   `json:"color" validate:"required"`
	UnitPriceRetail    int64    `json:"unit_price_retail" validate:"gt=0"`
	UnitPriceWholesale int64    `json:"unit_price_wholesale" validate:"gt=0"`
	Stock              int      `json:"stock" validate:"gte=0"`
	ImageURLs          []string `json:"image_urls"`
}

// ProductInput is the admin form payload for product create/update.
type ProductInput struct {
	Name        string         `json:"name" validate:"required,min=2,max=120"`
	Description string         `json:"description" validate:"max=2000"`
	Category    string         `json:"category" validate:"required"`
	Variants    []VariantInput `json:"variants" validate:"required,min=1,dive"`
}

// Service implements the back-office operations.
type Service struct {
	backend AdminBackend
	images  ImageStore
	logger  *slog.Logger
}

// NewService creates an admin service.
func NewService(b AdminBackend, images ImageStore, logger *slog.Logger) *Service {
	return &Service{
		backend: b,
		images:  images,
		logger:  logger,
	}
}

// CreateProduct validates the form, derives the URL slug from the name, and
// stores the product in the backend.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	product := toProduct(input)
	product.Slug = slug.Generate(input.Name)

	return s.backend.CreateProduct(ctx, product)
}

// UpdateProduct validates the form and updates an existing product. The slug
// follows the (possibly renamed) product name.
func (s *Service) UpdateProduct(ctx context.Context, productID string, input ProductInput) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	product := toProduct(input)
	product.ID = productID
	product.Slug = slug.Generate(input.Name)

	return s.backend.UpdateProduct(ctx, product)
}

// DeleteProduct removes a product from the catalog and then its images from
// the CDN. The catalog delete is authoritative; image cleanup is best-effort
// and a partial CDN failure never fails the operation.
func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	product, err := s.backend.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.backend.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	var urls []string
	for _, v := range product.Variants {
		urls = append(urls, v.ImageURLs...)
	}
	results := s.images.BulkDelete(ctx, urls)
	for _, res := range results {
		if res.Status == imagecdn.DeleteStatusError {
			s.logger.WarnContext(ctx, "orphaned product image left on cdn",
				slog.String("product_id", productID),
				slog.String("url", res.URL),
			)
		}
	}

	return nil
}

// UploadImage stores one product image on the CDN and returns its public
// URL. The admin client attaches the URL to a variant afterwards.
func (s *Service) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", apperrors.InvalidInput("image filename is required")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.InvalidInput("only image uploads are accepted")
	}
	return s.images.Upload(ctx, filename, contentType, r)
}

// ListUsers returns one page of registered users.
func (s *Service) ListUsers(ctx context.Context, page pagination.Params) (*pagination.Result[domain.User], error) {
	if page.Page < 1 {
		page = pagination.DefaultParams()
	}

	list, err := s.backend.ListUsers(ctx, page.Page, page.PerPage)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(list.Users, list.Total, page)
	return &result, nil
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actingUserID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}
	if userID == actingUserID {
		return apperrors.InvalidInput("cannot delete your own account")
	}
	return s.backend.DeleteUser(ctx, userID)
}

// Dashboard returns the aggregated sales analytics for the given range. A
// zero range defaults to the last 30 days.
func (s *Service) Dashboard(ctx context.Context, from, to time.Time) (*domain.DashboardAnalytics, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-defaultDashboardRange)
	}
	if from.After(to) {
		return nil, apperrors.InvalidInput("date range start is after its end")
	}
	return s.backend.GetDashboardAnalytics(ctx, from, to)
}

func toProduct(input ProductInput) *domain.Product {
	variants := make([]domain.Variant, len(input.Variants))
	for i, v := range input.Variants {
		variants[i] = domain.Variant{
			ID:                 v.ID,
			SKU:                v.SKU,
			Color:              v.Color,
			UnitPriceRetail:    v.UnitPriceRetail,
			UnitPriceWholesale: v.UnitPriceWholesale,
			Stock:              v.Stock,
			ImageURLs:          v.ImageURLs,
		}
	}
	return &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Variants:    variants,
	}
}
