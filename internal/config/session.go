package config

import "time"

// GetSessionTTL returns how long the twin service keeps an idle conversation.
func GetSessionTTL() time.Duration {
	return parseEnvDuration("SESSION_TTL", 2*time.Hour)
}

// GetSessionMaxTurns bounds the history replayed to the model per request.
func GetSessionMaxTurns() int {
	return parseEnvInt("SESSION_MAX_TURNS", 20)
}
