package config

import "github.com/sashabaranov/go-openai"

// GetOpenAIKey returns the current OpenAI key, empty when unset
func GetOpenAIKey() string {
	return GetEnvOrDefault("OPENAI_KEY", GetEnvOrDefault("OPENAI_API_KEY", ""))
}

func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", openai.GPT4oMini)
}

// GetOpenAIBaseURL allows pointing the twin service at an OpenAI compatible gateway.
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}
