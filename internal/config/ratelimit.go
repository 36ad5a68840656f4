package config

import (
	"time"

	"github.com/clowes/twin/internal/logger"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

// rateLimits maps a limit key to its env override and default hits per window.
var rateLimits = map[string]struct {
	env         string
	defaultHits int
}{
	"global": {env: "RATELIMIT_GLOBAL", defaultHits: 1000},
	"chat":   {env: "RATELIMIT_CHAT", defaultHits: 30},
}

// GetRateLimitConfig returns the limit for key. Limits are off unless
// RATELIMIT_ENABLED is "true"; RATELIMIT_WINDOW sets the shared window.
func GetRateLimitConfig(key string) RateLimitConfig {
	limit, exists := rateLimits[key]
	if !exists {
		logger.Warn(logger.CONFIG, "No rate limit config found for key: %s", key)
		return RateLimitConfig{Enabled: false}
	}

	return RateLimitConfig{
		Enabled: GetEnvOrDefault("RATELIMIT_ENABLED", "false") == "true",
		MaxHits: parseEnvInt(limit.env, limit.defaultHits),
		Window:  parseEnvDuration("RATELIMIT_WINDOW", time.Minute),
	}
}

// GetTrustedProxies returns the addresses or CIDR ranges whose
// X-Forwarded-For header is believed, from RATELIMIT_TRUSTED_PROXIES.
// None are trusted by default.
func GetTrustedProxies() []string {
	return parseEnvList("RATELIMIT_TRUSTED_PROXIES", nil)
}
