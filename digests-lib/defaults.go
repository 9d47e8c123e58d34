// ABOUTME: Default implementations for library dependencies
// ABOUTME: Provides factory functions for creating default storage, HTTP and logging

package digests

import (
	"page-digest/core/domain"
	apperrors "page-digest/core/errors"
	"page-digest/core/interfaces"
	"page-digest/core/summarize"
	httpInfra "page-digest/infrastructure/http/standard"
	loggerInfra "page-digest/infrastructure/logger/standard"
	"page-digest/infrastructure/storage/memory"
	"page-digest/infrastructure/storage/redis"
	"page-digest/infrastructure/storage/sqlite"
	"page-digest/pkg/config"
)

// DefaultHTTPClient creates a default HTTP client. The backend call applies
// its own timeout, so the client timeout only guards against stuck connections.
func DefaultHTTPClient() interfaces.HTTPClient {
	return httpInfra.NewStandardHTTPClient(summarize.DefaultTimeout + summarize.DefaultTimeout/2)
}

// DefaultMemoryStorage creates a default in-memory storage
func DefaultMemoryStorage() interfaces.Storage {
	return memory.NewStore()
}

// DefaultSQLiteStorage creates a SQLite storage with the given file path
func DefaultSQLiteStorage(filePath string) (interfaces.Storage, error) {
	return sqlite.NewStore(filePath)
}

// DefaultRedisStorage creates a Redis storage
func DefaultRedisStorage(cfg config.RedisConfig) (interfaces.Storage, error) {
	return redis.NewStore(cfg)
}

// DefaultLogger creates a default logger that writes to stderr
func DefaultLogger() interfaces.Logger {
	return loggerInfra.NewStandardLogger()
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return loggerInfra.NopLogger{}
}

// StorageOption represents storage configuration options
type StorageOption struct {
	Type     StorageType
	FilePath string // For SQLite storage
	Redis    config.RedisConfig
}

// StorageType represents the type of storage
type StorageType string

const (
	StorageTypeMemory StorageType = "memory"
	StorageTypeSQLite StorageType = "sqlite"
	StorageTypeRedis  StorageType = "redis"
)

// WithStorageOption creates a storage based on the provided options
func WithStorageOption(opt StorageOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case StorageTypeMemory:
			c.Storage = DefaultMemoryStorage()
		case StorageTypeSQLite:
			if opt.FilePath == "" {
				opt.FilePath = "page-digest.db"
			}
			storage, err := DefaultSQLiteStorage(opt.FilePath)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to open sqlite storage").WithCause(err)
			}
			c.Storage = storage
		case StorageTypeRedis:
			storage, err := DefaultRedisStorage(opt.Redis)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to connect to redis storage").WithCause(err)
			}
			c.Storage = storage
		default:
			return NewError(ErrorTypeConfiguration, "invalid storage type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = QuietLogger()
		return nil
	}
}

// quietSurface discards everything rendered to it
type quietSurface struct{}

func (quietSurface) RenderStatus(domain.StatusView)                {}
func (quietSurface) RenderResult(string, domain.DigestMode, bool) {}
func (quietSurface) RenderError(apperrors.Kind)                    {}
func (quietSurface) ClearResult()                                  {}
func (quietSurface) RequestCredential()                            {}
