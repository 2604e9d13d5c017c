package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/admin"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/backend"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/cart"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/catalog"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/checkout"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/config"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/event"
	handler "github.com/rossel-mx/rossel-ecommerce-sub000/internal/handler/http"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/imagecdn"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/order"
	redisrepo "github.com/rossel-mx/rossel-ecommerce-sub000/internal/repository/redis"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/session"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/database"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/health"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httpclient"
	pkgkafka "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/kafka"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/middleware"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	cartRegistry    *cart.Registry
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates the application, initializing every dependency.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Redis
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)

	// Tracing
	tracingCfg := tracing.DefaultConfig("storefront")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.TracingEndpoint
	tracingCfg.SampleRate = cfg.TracingSample
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Kafka producer
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Downstream HTTP clients, one circuit breaker per service.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	backendHTTP := httpclient.NewCircuitBreakerClient(httpClient, httpclient.DefaultCircuitBreakerConfig("backend"), logger)
	authHTTP := httpclient.NewCircuitBreakerClient(httpClient, httpclient.DefaultCircuitBreakerConfig("auth"), logger)
	cdnHTTP := httpclient.NewCircuitBreakerClient(httpClient, httpclient.DefaultCircuitBreakerConfig("cdn"), logger)

	backendClient := backend.NewClient(cfg.BackendBaseURL, backendHTTP)
	authClient := session.NewAuthClient(cfg.AuthBaseURL, authHTTP)
	cdnClient := imagecdn.NewClient(cfg.CDNBaseURL, cdnHTTP, logger)

	// Stores and events
	cartStore := redisrepo.NewCartStore(rdb, cfg.CartTTL)
	sessionStore := redisrepo.NewSessionStore(rdb)
	eventProducer := event.NewProducer(producer, logger)

	// Sessions and carts: the registry listens for identity changes and
	// checks session liveness back against the manager on every resolve.
	sessions := session.NewManager(authClient, sessionStore, session.NewTokenVerifier(cfg.JWTSecret), cfg.SessionResolveTimeout, logger)
	cartRegistry := cart.NewRegistry(cartStore, eventProducer, sessions, logger)
	sessions.Subscribe(cartRegistry)

	// Domain services
	catalogService := catalog.NewService(backendClient)
	checkoutService := checkout.NewService(backendClient, eventProducer, logger)
	orderService := order.NewService(backendClient)
	adminService := admin.NewService(backendClient, cdnClient, logger)

	// Health checks
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.RouterDeps{
		Sessions:       sessions,
		CartRegistry:   cartRegistry,
		Catalog:        catalogService,
		Checkout:       checkoutService,
		Orders:         orderService,
		Admin:          adminService,
		Health:         healthHandler,
		Sender:         senderAddress(cfg),
		CORS:           corsCfg,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		cartRegistry:    cartRegistry,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Reclaim cart containers whose sessions expired or were abandoned.
	go a.cartRegistry.Janitor(ctx, a.cfg.CartSweepInterval)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

func senderAddress(cfg *config.Config) domain.Address {
	return domain.Address{
		FullName:    cfg.SenderName,
		AddressLine: cfg.SenderAddress,
		City:        cfg.SenderCity,
		State:       cfg.SenderState,
		PostalCode:  cfg.SenderPostal,
		Country:     cfg.SenderCountry,
		Phone:       cfg.SenderPhone,
	}
}
