package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Export   ExportConfig
	Tracing  TracingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects and addresses the guest store.
type StoreConfig struct {
	Backend        string
	URL            string
	Key            string
	TimeoutSeconds int
	SQLitePath     string
	BoltPath       string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	EventsChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines host authentication parameters.
type AuthConfig struct {
	HostPasswordHash      string
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// ExportConfig controls CSV export rendering.
type ExportConfig struct {
	Locale    string
	StrictCSV bool
}

// TracingConfig configures the OTLP exporter.
type TracingConfig struct {
	Endpoint string
}

// Load reads configuration from environment variables, applying defaults where possible.
// Missing store coordinates are reported as an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "guest-list"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Backend:        strings.ToLower(getEnv("STORE_BACKEND", BackendREST)),
			URL:            getEnv("STORE_URL", os.Getenv("SUPABASE_URL")),
			Key:            getEnv("STORE_KEY", os.Getenv("SUPABASE_ANON_KEY")),
			TimeoutSeconds: getEnvAsInt("STORE_TIMEOUT_SECONDS", 10),
			SQLitePath:     getEnv("SQLITE_PATH", "guests.db"),
			BoltPath:       getEnv("BOLT_PATH", "guests.bolt"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			EventsChannel: getEnv("EVENTS_CHANNEL", "guests.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			HostPasswordHash:      os.Getenv("AUTH_HOST_PASSWORD_HASH"),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Export: ExportConfig{
			Locale:    getEnv("EXPORT_LOCALE", "pt-BR"),
			StrictCSV: getEnvAsBool("EXPORT_STRICT_CSV", false),
		},
		Tracing: TracingConfig{
			Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	if err := cfg.Store.Validate(cfg.Postgres); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has everything it needs to start.
func (s StoreConfig) Validate(pg PostgresConfig) error {
	switch s.Backend {
	case BackendREST:
		var errs []error
		if strings.TrimSpace(s.URL) == "" {
			errs = append(errs, errors.New("STORE_URL is required for the rest backend"))
		} else if u, err := url.Parse(s.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("STORE_URL %q is not an absolute URL", s.URL))
		}
		if strings.TrimSpace(s.Key) == "" {
			errs = append(errs, errors.New("STORE_KEY is required for the rest backend"))
		}
		return errors.Join(errs...)
	case BackendPostgres:
		if strings.TrimSpace(pg.DSN) == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendBolt:
		if strings.TrimSpace(s.BoltPath) == "" {
			return errors.New("BOLT_PATH is required for the bolt backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", s.Backend)
	}
	return nil
}

// Timeout returns the store client timeout.
func (s StoreConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Enabled reports whether host authentication is configured.
func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.HostPasswordHash) != ""
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
