package redis

import (
	"context"
	"errors"
	"time"

	"github.com/clowes/twin/internal/logger"
	"github.com/redis/go-redis/v9"
)

type Service struct {
	client *redis.Client
}

// NewService connects to Redis at url. It returns nil when Redis is not
// configured or not reachable, so callers can fall back to other stores.
func NewService(ctx context.Context, url, password string) *Service {
	if url == "" {
		logger.Debug(logger.REDIS, "Redis URL not configured - service will be unavailable")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error(logger.REDIS, "Failed to establish Redis connection to %s: %v", url, err)
		_ = client.Close()
		return nil
	}

	logger.Info(logger.REDIS, "Connected to Redis at %s", url)
	return &Service{
		client: client,
	}
}

// IsMissing reports whether err is the "key does not exist" reply.
func IsMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Set stores a value in Redis with an optional expiration
func (s *Service) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := s.client.Set(ctx, key, value, expiration).Err(); err != nil {
		logger.Error(logger.REDIS, "Redis SET %s failed: %v", key, err)
		return err
	}
	return nil
}

// Get retrieves a value from Redis. A missing key yields an error for which
// IsMissing is true.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil && !IsMissing(err) {
		logger.Error(logger.REDIS, "Redis GET %s failed: %v", key, err)
		return "", err
	}
	return val, err
}

// Ping checks if Redis is accessible
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Service) Close() error {
	return s.client.Close()
}
