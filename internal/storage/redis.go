package storage

import (
	"context"

	"github.com/clowes/twin/internal/infrastructure/redis"
	"github.com/pkg/errors"
)

// RedisStore namespaces keys with a prefix so several widgets can share one
// Redis. Values never expire.
type RedisStore struct {
	service *redis.Service
	prefix  string
}

var _ Store = &RedisStore{}

func NewRedisStore(service *redis.Service, prefix string) (*RedisStore, error) {
	if service == nil {
		return nil, errors.New("redis store: service is nil")
	}
	return &RedisStore{service: service, prefix: prefix}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.service.Get(ctx, r.prefix+key)
	if redis.IsMissing(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "redis store: get")
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return errors.Wrap(r.service.Set(ctx, r.prefix+key, value, 0), "redis store: set")
}

func (r *RedisStore) Close() error {
	return r.service.Close()
}
