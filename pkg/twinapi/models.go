// Package twinapi holds the wire format of the twin chat endpoint and an
// HTTP client for it.
package twinapi

// ChatRequest is the body of POST /chat. SessionID is omitted until the
// server has assigned one.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// rawChatResponse keeps track of which fields were present in the body.
type rawChatResponse struct {
	SessionID *string `json:"session_id"`
	Response  *string `json:"response"`
}
