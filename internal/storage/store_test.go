package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/infrastructure/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "twin-chat-open")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should not have the key")

	require.NoError(t, s.Set(ctx, "twin-chat-open", "true"))
	v, ok, err := s.Get(ctx, "twin-chat-open")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, s.Set(ctx, "twin-chat-open", "false"))
	v, _, err = s.Get(ctx, "twin-chat-open")
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, []Write{
		{Key: "twin-chat-open", Value: "true"},
		{Key: "twin-chat-open", Value: "false"},
	}, s.Writes())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	// A second instance sees what the first one wrote.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "twin-chat-open")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), "twin-chat-open")
	assert.Error(t, err)
}

func TestFileStoreEmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "k", "v"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	v, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	svc := redis.NewService(context.Background(), url, os.Getenv("REDIS_PASSWORD"))
	if svc == nil {
		t.Skip("Redis not reachable")
	}
	s, err := NewRedisStore(svc, "twin:test:"+uuid.NewString()+":")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestUnavailable(t *testing.T) {
	var s Store = Unavailable{}
	_, _, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Set(context.Background(), "k", "v"), ErrUnavailable)
	assert.NoError(t, s.Close())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want interface{}
	}{
		{"file", config.StorageConfig{Backend: config.StorageFile, Path: filepath.Join(dir, "s.json")}, &FileStore{}},
		{"sqlite", config.StorageConfig{Backend: config.StorageSQLite, Path: filepath.Join(dir, "s.db")}, &SQLiteStore{}},
		{"memory", config.StorageConfig{Backend: config.StorageMemory}, &MemoryStore{}},
		{"none", config.StorageConfig{Backend: config.StorageNone}, Unavailable{}},
		{"redis without url falls back", config.StorageConfig{Backend: config.StorageRedis}, Unavailable{}},
		{"unknown backend falls back", config.StorageConfig{Backend: "floppy"}, Unavailable{}},
		{"file without path falls back", config.StorageConfig{Backend: config.StorageFile}, Unavailable{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(context.Background(), tt.cfg)
			t.Cleanup(func() { _ = s.Close() })
			assert.IsType(t, tt.want, s)
		})
	}
}
