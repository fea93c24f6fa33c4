package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Engine   EngineConfig
	Logging  LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	ConnectTimeout     time.Duration
	SlowQueryThreshold time.Duration
	MaxRetryAttempts   int
	RetryBackoff       time.Duration
	MigrationsPath     string
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider string // memory, redis
	RedisURL string
	TTL      time.Duration
	MaxKeys  int
	PoolSize int
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
}

// EngineConfig tunes the achievement and notification engine.
type EngineConfig struct {
	// RankingTTL bounds the staleness of the cached monthly author ranking.
	RankingTTL time.Duration

	// EventBufferSize and EventWorkers size the in-process event bus.
	EventBufferSize int
	EventWorkers    int
	HandlerTimeout  time.Duration

	// NotificationPageSize is the default list page size.
	NotificationPageSize int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string
	Development bool
}

// Load reads configuration from the environment, with .env files layered in
// for non-production environments.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "9000"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:     env,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
			MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
			SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			MaxRetryAttempts:   getIntEnv("DB_MAX_RETRY_ATTEMPTS", 5),
			RetryBackoff:       getDurationEnv("DB_RETRY_BACKOFF", time.Second),
			MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Cache: CacheConfig{
			Provider: getEnv("CACHE_PROVIDER", "memory"),
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      getDurationEnv("CACHE_TTL", 15*time.Minute),
			MaxKeys:  getIntEnv("CACHE_MAX_KEYS", 10000),
			PoolSize: getIntEnv("CACHE_POOL_SIZE", 10),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		},
		Engine: EngineConfig{
			RankingTTL:           getDurationEnv("ENGINE_RANKING_TTL", 10*time.Minute),
			EventBufferSize:      getIntEnv("ENGINE_EVENT_BUFFER_SIZE", 1000),
			EventWorkers:         getIntEnv("ENGINE_EVENT_WORKERS", 5),
			HandlerTimeout:       getDurationEnv("ENGINE_HANDLER_TIMEOUT", 30*time.Second),
			NotificationPageSize: getIntEnv("ENGINE_NOTIFICATION_PAGE_SIZE", 20),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", defaultLogLevel(env)),
			Development: getBoolEnv("LOG_DEVELOPMENT", env != "production"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	var problems []string

	if c.Database.URL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.Server.Environment == "production" && c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required in production")
	}
	if c.Cache.Provider != "memory" && c.Cache.Provider != "redis" {
		problems = append(problems, fmt.Sprintf("unsupported cache provider %q", c.Cache.Provider))
	}
	if c.Cache.Provider == "redis" && c.Cache.RedisURL == "" {
		problems = append(problems, "REDIS_URL is required when CACHE_PROVIDER=redis")
	}
	if c.Engine.EventWorkers <= 0 {
		problems = append(problems, "ENGINE_EVENT_WORKERS must be positive")
	}
	if c.Database.MaxOpenConns < c.Database.MaxIdleConns {
		problems = append(problems, "DB_MAX_OPEN_CONNS must be >= DB_MAX_IDLE_CONNS")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the host:port the server binds to.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func defaultLogLevel(env string) string {
	if env == "production" {
		return "info"
	}
	return "debug"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
