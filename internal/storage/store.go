// Package storage holds the durable key/value stores that keep widget
// preferences between runs, the terminal counterpart of browser localStorage.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned by every operation of a store that has no
// durable backing in the current environment.
var ErrUnavailable = errors.New("storage: durable storage unavailable")

// Store is a string key/value store. Get reports whether the key exists.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Unavailable is a Store with no backing at all.
type Unavailable struct{}

var _ Store = Unavailable{}

func (Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (Unavailable) Set(context.Context, string, string) error {
	return ErrUnavailable
}

func (Unavailable) Close() error { return nil }
