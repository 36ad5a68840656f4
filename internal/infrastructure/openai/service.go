package openai

import (
	"github.com/clowes/twin/internal/logger"
	"github.com/sashabaranov/go-openai"
)

type Service struct {
	client *openai.Client
}

// NewService returns nil when no key is configured. baseURL is optional and
// points the client at an OpenAI compatible gateway.
func NewService(key, baseURL string) *Service {
	logger.Info(logger.SERVICE, "Initialising OpenAI service")

	if key == "" {
		logger.Warn(logger.SERVICE, "OpenAI service not configured - OPENAI_KEY missing")
		return nil
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		logger.Debug(logger.SERVICE, "Using OpenAI base URL %s", baseURL)
		cfg.BaseURL = baseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (s *Service) GetClient() *openai.Client {
	return s.client
}
