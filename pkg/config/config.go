// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for the backend, storage, server and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Backend contains summarization backend configuration
	Backend BackendConfig

	// Storage contains key/value storage configuration
	Storage StorageConfig

	// Server contains HTTP server configuration
	Server ServerConfig

	// Log contains logging configuration
	Log LogConfig

	// Pipeline contains cache and usage persistence timing
	Pipeline PipelineConfig

	// UserAgent is sent when fetching pages
	UserAgent string
}

// BackendConfig holds summarization backend configuration
type BackendConfig struct {
	// Endpoint is the URL digests are POSTed to
	Endpoint string

	// Model is the requested model name
	Model string

	// APIKey overrides the stored credential when set
	APIKey string

	// Timeout bounds a single backend call
	Timeout time.Duration

	// MaxTokensLarge and MaxTokensSmall are the output ceilings per mode
	MaxTokensLarge int
	MaxTokensSmall int

	// RateLimit caps outbound backend calls per second; 0 disables the cap
	RateLimit float64
}

// StorageConfig holds storage backend configuration
type StorageConfig struct {
	// Type specifies the storage backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces stored keys
	KeyPrefix string
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the allowed requests per second per client IP
	RateLimit float64

	// AllowedOrigins for CORS; empty allows all
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is text or json
	Format string
}

// PipelineConfig holds persistence timing
type PipelineConfig struct {
	// CacheFlushInterval is the digest cache flush period
	CacheFlushInterval time.Duration

	// UsageDebounce is the quiet period before usage counters are saved
	UsageDebounce time.Duration

	// ReadabilityFallback enables readability when no article container matches
	ReadabilityFallback bool
}

// LoadDotEnv loads .env.local then .env from the working directory.
// Variables already present in the environment are never overridden.
func LoadDotEnv() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Backend: BackendConfig{
			Endpoint:       getEnvOrDefault("DIGEST_ENDPOINT", "https://api.openai.com/v1/responses"),
			Model:          getEnvOrDefault("DIGEST_MODEL", "gpt-4o-mini"),
			APIKey:         getEnvOrDefault("DIGEST_API_KEY", ""),
			Timeout:        time.Duration(getEnvAsIntOrDefault("DIGEST_TIMEOUT", 60)) * time.Second,
			MaxTokensLarge: getEnvAsIntOrDefault("DIGEST_MAX_TOKENS_LARGE", 2048),
			MaxTokensSmall: getEnvAsIntOrDefault("DIGEST_MAX_TOKENS_SMALL", 800),
			RateLimit:      getEnvAsFloatOrDefault("DIGEST_RATE_LIMIT", 2),
		},
		Storage: StorageConfig{
			Type: getEnvOrDefault("STORAGE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "page-digest:"),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "page-digest.db"),
			},
		},
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8000"),
			RateLimit:      getEnvAsFloatOrDefault("RATE_LIMIT", 5),
			AllowedOrigins: getEnvAsListOrDefault("ALLOWED_ORIGINS", nil),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
		Pipeline: PipelineConfig{
			CacheFlushInterval:  time.Duration(getEnvAsIntOrDefault("CACHE_FLUSH_INTERVAL", 5)) * time.Second,
			UsageDebounce:       time.Duration(getEnvAsIntOrDefault("USAGE_DEBOUNCE_MS", 1000)) * time.Millisecond,
			ReadabilityFallback: getEnvAsBoolOrDefault("READABILITY_FALLBACK", false),
		},
		UserAgent: getEnvOrDefault("USER_AGENT", ""),
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit <= 0 {
		return errors.New("rate limit must be positive")
	}

	if !strings.HasPrefix(c.Backend.Endpoint, "http://") && !strings.HasPrefix(c.Backend.Endpoint, "https://") {
		return errors.New("digest endpoint must be an http(s) URL")
	}

	if c.Backend.RateLimit < 0 {
		return errors.New("digest rate limit cannot be negative")
	}

	if c.Backend.Timeout <= 0 {
		return errors.New("digest timeout must be positive")
	}

	if c.Backend.MaxTokensSmall <= 0 || c.Backend.MaxTokensLarge <= c.Backend.MaxTokensSmall {
		return errors.New("max tokens for small must be positive and below large")
	}

	switch c.Storage.Type {
	case "memory":
	case "redis":
		if c.Storage.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis storage")
		}
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite storage")
		}
	default:
		return errors.New("storage type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Pipeline.CacheFlushInterval <= 0 {
		return errors.New("cache flush interval must be at least 1 second")
	}

	if c.Pipeline.UsageDebounce <= 0 {
		return errors.New("usage debounce must be positive")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("log format must be 'text' or 'json'")
	}

	return nil
}
