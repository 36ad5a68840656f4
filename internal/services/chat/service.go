package chat

import (
	"context"

	"github.com/clowes/twin/internal/services/chat/models"
)

// Service defines the interface for chat operations
type Service interface {
	// Reply answers the last user message of history in the twin's voice
	Reply(ctx context.Context, history []models.ChatMessage) (string, error)
}
