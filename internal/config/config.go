package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int           `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL (default: 30 days; carts survive across visits)
	CartTTL time.Duration `env:"CART_TTL" envDefault:"720h"`

	// How often containers of dead sessions are swept out of memory
	CartSweepInterval time.Duration `env:"CART_SWEEP_INTERVAL" envDefault:"10m"`

	// Sessions
	JWTSecret             string        `env:"JWT_SECRET,required"`
	SessionResolveTimeout time.Duration `env:"SESSION_RESOLVE_TIMEOUT" envDefault:"5s"`

	// Downstream services
	BackendBaseURL string `env:"BACKEND_BASE_URL,required"`
	AuthBaseURL    string `env:"AUTH_BASE_URL,required"`
	CDNBaseURL     string `env:"CDN_BASE_URL,required"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"https://rossel.mx,https://admin.rossel.mx" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"0.1"`

	// Shipping label sender block
	SenderName     string `env:"SENDER_NAME" envDefault:"Rossel MX"`
	SenderAddress  string `env:"SENDER_ADDRESS" envDefault:""`
	SenderCity     string `env:"SENDER_CITY" envDefault:""`
	SenderState    string `env:"SENDER_STATE" envDefault:""`
	SenderPostal   string `env:"SENDER_POSTAL_CODE" envDefault:""`
	SenderCountry  string `env:"SENDER_COUNTRY" envDefault:"México"`
	SenderPhone    string `env:"SENDER_PHONE" envDefault:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SessionResolveTimeout <= 0 {
		return fmt.Errorf("session resolve timeout must be positive")
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("cart TTL must be positive")
	}
	if c.CartSweepInterval <= 0 {
		return fmt.Errorf("cart sweep interval must be positive")
	}
	return nil
}
