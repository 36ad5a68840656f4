package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatConfig represents configuration options for chat processing
type ChatConfig struct {
	Model       string  `json:"model,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Persona is everything the twin knows about the person it stands in for.
type Persona struct {
	FullName string
	Name     string
	Facts    string
	Summary  string
	LinkedIn string
	Style    string
}
