package config

import (
	"strings"
	"time"
)

// DefaultAPIURL is the local development address of the twin chat service.
const DefaultAPIURL = "http://localhost:8000"

// GetAPIURL returns the base URL of the remote chat endpoint. TWIN_API_URL
// wins over NEXT_PUBLIC_API_URL, which is honoured so one .env can serve both
// the web frontend and this client.
func GetAPIURL() string {
	url := GetEnvOrDefault("TWIN_API_URL", "")
	if url == "" {
		url = GetEnvOrDefault("NEXT_PUBLIC_API_URL", DefaultAPIURL)
	}
	return strings.TrimRight(url, "/")
}

// GetAvatarURL returns the URL probed for the optional avatar image.
func GetAvatarURL(apiURL string) string {
	return GetEnvOrDefault("TWIN_AVATAR_URL", strings.TrimRight(apiURL, "/")+"/avatar.png")
}

// GetRequestTimeout returns the client timeout for chat requests. Zero means
// the request waits for the transport to resolve or fail on its own.
func GetRequestTimeout() time.Duration {
	return parseEnvDuration("TWIN_REQUEST_TIMEOUT", 0)
}

// GetLogFile returns where the terminal widget writes its logs; empty means discard.
func GetLogFile() string {
	return GetEnvOrDefault("TWIN_LOG_FILE", "")
}

// GetAllowedOrigins returns the origins the browser widget may call from,
// read from TWIN_ALLOWED_ORIGINS. Any origin is allowed by default.
func GetAllowedOrigins() []string {
	return parseEnvList("TWIN_ALLOWED_ORIGINS", []string{"*"})
}
