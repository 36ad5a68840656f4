package storage

import (
	"context"

	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/infrastructure/redis"
	"github.com/clowes/twin/internal/logger"
	"github.com/pkg/errors"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

// Open returns the store selected by cfg. A backend that cannot be opened is
// logged and replaced with Unavailable; Open never fails.
func Open(ctx context.Context, cfg config.StorageConfig) Store {
	store, err := open(ctx, cfg)
	if err != nil {
		logger.Warn(logger.STORAGE, "Storage backend %q unavailable: %v", cfg.Backend, err)
		return Unavailable{}
	}
	logger.Debug(logger.STORAGE, "Using %q storage backend", cfg.Backend)
	return store
}

func open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.StorageFile, "":
		return NewFileStore(cfg.Path)
	case config.StorageSQLite:
		return NewSQLiteStore(cfg.Path)
	case config.StorageRedis:
		return NewRedisStore(redis.NewService(ctx, cfg.RedisURL, cfg.RedisPassword), cfg.RedisPrefix)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageNone:
		return Unavailable{}, nil
	default:
		return nil, ErrUnknownBackend
	}
}
