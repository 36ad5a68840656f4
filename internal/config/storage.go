package config

import (
	"os"
	"path/filepath"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
	StorageNone   = "none"
)

// StorageConfig selects the durable store that keeps the widget preference.
type StorageConfig struct {
	Backend       string
	Path          string
	RedisURL      string
	RedisPassword string
	RedisPrefix   string
}

func GetStorageConfig() StorageConfig {
	backend := GetEnvOrDefault("TWIN_STORAGE", StorageFile)

	defaultPath := ""
	if dir := defaultStateDir(); dir != "" {
		name := "state.json"
		if backend == StorageSQLite {
			name = "state.db"
		}
		defaultPath = filepath.Join(dir, name)
	}

	return StorageConfig{
		Backend:       backend,
		Path:          GetEnvOrDefault("TWIN_STORAGE_PATH", defaultPath),
		RedisURL:      GetRedisURL(),
		RedisPassword: GetRedisPassword(),
		RedisPrefix:   GetEnvOrDefault("TWIN_REDIS_PREFIX", "twin:widget:"),
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "twin")
}
