package widget

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation. Messages are never edited once
// appended.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// newMessageID returns a time-ordered UUID (v7), falling back to a random one.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
