package services

import (
	"context"
	"fmt"

	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/infrastructure/openai"
	"github.com/clowes/twin/internal/infrastructure/redis"
	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/services/chat"
	"github.com/clowes/twin/internal/services/chat/models"
	"github.com/clowes/twin/internal/services/session"
)

type Services struct {
	chatService    chat.Service
	openAIService  *openai.Service
	redisService   *redis.Service
	sessionService *session.Service
	twinConfig     config.TwinConfig
}

// InitializeServices initializes all services the twin chat service needs
func InitializeServices(ctx context.Context) (*Services, error) {
	logger.Info(logger.APP, "Initializing core services")

	// Redis is optional
	redisService := redis.NewService(ctx, config.GetRedisURL(), config.GetRedisPassword())

	sessionService := session.NewService(redisService, config.GetSessionTTL(), config.GetSessionMaxTurns())
	logger.Info(logger.APP, "Initializing session service")

	// OpenAI is required
	openAIService := openai.NewService(config.GetOpenAIKey(), config.GetOpenAIBaseURL())
	if openAIService == nil {
		return nil, fmt.Errorf("failed to initialize OpenAI service: OPENAI_KEY is required")
	}

	twin := config.GetTwinConfig()
	persona, err := chat.LoadPersona(twin.ContextDir, twin.FullName, twin.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}

	chatService, err := chat.NewService(openAIService.GetClient(), persona, models.ChatConfig{
		Model: config.GetOpenAIModel(),
	})
	if err != nil {
		logger.Error(logger.APP, "Failed to initialize chat service: %v", err)
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}
	logger.Info(logger.APP, "Initializing chat service for %s", persona.FullName)

	logger.Info(logger.APP, "All services initialized successfully")

	return NewServices(chatService, sessionService, twin).withInfrastructure(openAIService, redisService), nil
}

// NewServices assembles Services from already constructed parts.
func NewServices(chatService chat.Service, sessionService *session.Service, twin config.TwinConfig) *Services {
	return &Services{
		chatService:    chatService,
		sessionService: sessionService,
		twinConfig:     twin,
	}
}

func (s *Services) withInfrastructure(openAIService *openai.Service, redisService *redis.Service) *Services {
	s.openAIService = openAIService
	s.redisService = redisService
	return s
}

// GetChatService returns the chat service
func (s *Services) GetChatService() chat.Service {
	return s.chatService
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetTwinConfig returns the persona and file settings being served
func (s *Services) GetTwinConfig() config.TwinConfig {
	return s.twinConfig
}

// Close releases infrastructure connections
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
