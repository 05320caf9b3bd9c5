package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is the portal's configuration.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend     BackendConfig
	Session     SessionConfig
	Portal      PortalConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	FilterState FilterStateConfig
	Tracing     TracingConfig
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND,       default=redis"`
	TTL          time.Duration `env:"SESSION_TTL,           default=12h"`
	Cookie       string        `env:"SESSION_COOKIE,        default=ffi_portal_sid"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

type PortalConfig struct {
	HydrateWait time.Duration `env:"PORTAL_HYDRATE_WAIT, default=100ms"`
	AsyncReload bool          `env:"PORTAL_ASYNC_RELOAD, default=false"`
	Workers     int           `env:"PORTAL_WORKERS,      default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ffi_hr_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type FilterStateConfig struct {
	Backend string `env:"FILTER_STATE_BACKEND, default=mongo"`
}

type TracingConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Service  string `env:"OTEL_SERVICE_NAME, default=ffi-hr-portal"`
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	switch c.Session.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_BACKEND must be redis or memory, got %q", c.Session.Backend)
	}
	switch c.FilterState.Backend {
	case "mongo", "memory":
	default:
		return fmt.Errorf("FILTER_STATE_BACKEND must be mongo or memory, got %q", c.FilterState.Backend)
	}
	if c.Session.Cookie == "" {
		return errors.New("SESSION_COOKIE must not be empty")
	}
	return nil
}

// MockConfig is the configuration of the development backend.
type MockConfig struct {
	Port      string        `env:"MOCK_PORT,       default=8000"`
	LogLevel  string        `env:"LOG_LEVEL,       default=info"`
	JWTSecret string        `env:"MOCK_JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"MOCK_TOKEN_TTL,  default=8h"`
}

// Load reads the portal configuration from environment variables using
// go-envconfig, after applying a .env file when one exists.
func Load() *Config {
	var cfg Config
	mustProcess(&cfg)
	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("config: invalid configuration: %v", err))
	}
	return &cfg
}

// LoadMock reads the development backend's configuration.
func LoadMock() *MockConfig {
	var cfg MockConfig
	mustProcess(&cfg)
	return &cfg
}

func mustProcess(cfg any) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
}

// Process fills cfg from lookuper. Tests use it with envconfig.MapLookuper.
func Process(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: lookuper}); err != nil {
		return err
	}
	return cfg.validate()
}
