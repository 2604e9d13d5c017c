package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/admin"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/cart"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/catalog"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/checkout"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/order"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/session"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/health"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/middleware"
)

// RouterDeps bundles everything the router serves.
type RouterDeps struct {
	Sessions       *session.Manager
	CartRegistry   *cart.Registry
	Catalog        *catalog.Service
	Checkout       *checkout.Service
	Orders         *order.Service
	Admin          *admin.Service
	Health         *health.Handler
	Sender         domain.Address
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter creates the chi router with all storefront and back-office
// routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health and metrics
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Bearer token validation bridges to the session manager's verifier.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := deps.Sessions.VerifyToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	authHandler := NewAuthHandler(deps.Sessions, deps.Logger)
	cartHandler := NewCartHandler(deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Logger)
	orderHandler := NewOrderHandler(deps.Orders, deps.Logger)
	adminHandler := NewAdminHandler(deps.Admin, deps.Orders, deps.Sender, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public storefront
		r.Get("/products", catalogHandler.List)
		r.Get("/products/{slug}", catalogHandler.Get)

		// Session lifecycle
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/resume", authHandler.Resume)
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/session", authHandler.Session)
		})

		// Cart and checkout: authenticated, session-bound
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Use(RequireSession)
			r.Use(WithCart(deps.CartRegistry, deps.Logger))

			r.Get("/cart", cartHandler.Get)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{variantId}", cartHandler.UpdateQuantity)
			r.Delete("/cart/items/{variantId}", cartHandler.RemoveItem)
			r.Delete("/cart", cartHandler.Clear)

			r.Post("/checkout/validate", checkoutHandler.Validate)
			r.Post("/checkout/orders", checkoutHandler.PlaceOrder)
		})

		// Customer orders
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/orders", orderHandler.History)
			r.Get("/orders/{orderId}", orderHandler.Get)
		})

		// Back-office, admin role only
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/products", adminHandler.CreateProduct)
			r.Put("/products/{productId}", adminHandler.UpdateProduct)
			r.Delete("/products/{productId}", adminHandler.DeleteProduct)
			r.Post("/images", adminHandler.UploadImage)

			r.Get("/users", adminHandler.ListUsers)
			r.Delete("/users/{userId}", adminHandler.DeleteUser)

			r.Get("/orders", adminHandler.ListOrders)
			r.Get("/orders/{orderId}", adminHandler.GetOrder)
			r.Patch("/orders/{orderId}/status", adminHandler.UpdateOrderStatus)
			r.Get("/orders/{orderId}/packing-checklist", adminHandler.PackingChecklist)
			r.Get("/orders/{orderId}/shipping-label", adminHandler.ShippingLabel)

			r.Get("/dashboard", adminHandler.Dashboard)
		})
	})

	return r
}
