package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/services/chat/models"
	"github.com/sashabaranov/go-openai"
)

// CompletionClient is the part of the OpenAI client the chat service uses.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Implementation struct {
	client       CompletionClient
	config       models.ChatConfig
	systemPrompt *models.SystemPrompt
}

var _ Service = &Implementation{}

func NewService(client CompletionClient, persona *models.Persona, config models.ChatConfig) (*Implementation, error) {
	if client == nil {
		return nil, errors.New("OpenAI client is required")
	}
	if persona == nil {
		return nil, errors.New("persona is required")
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}

	return &Implementation{
		client:       client,
		config:       config,
		systemPrompt: models.NewSystemPrompt(persona),
	}, nil
}

func (s *Implementation) Reply(ctx context.Context, history []models.ChatMessage) (string, error) {
	logger.Debug(logger.CHAT, "Processing chat request with %d messages", len(history))

	if len(history) == 0 {
		return "", fmt.Errorf("empty messages array")
	}
	if history[len(history)-1].Role != models.RoleUser {
		return "", fmt.Errorf("last message must come from the user")
	}

	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: s.systemPrompt.String(),
	})
	for _, msg := range history {
		if msg.Role == models.RoleSystem {
			continue
		}
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    openaiMessages,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		logger.Error(logger.CHAT, "Failed to get chat completion: %v", err)
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	message := resp.Choices[0].Message
	if message.Role != openai.ChatMessageRoleAssistant || message.Content == "" {
		return "", fmt.Errorf("unexpected message type from assistant")
	}

	logger.Debug(logger.CHAT, "Completion used %d tokens", resp.Usage.TotalTokens)
	return message.Content, nil
}
