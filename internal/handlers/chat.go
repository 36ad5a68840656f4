package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/services/chat"
	"github.com/clowes/twin/internal/services/chat/models"
	"github.com/clowes/twin/internal/services/session"
	"github.com/clowes/twin/pkg/httpext"
	"github.com/clowes/twin/pkg/twinapi"
)

// HandleChat answers one widget turn: {message, session_id?} in,
// {session_id, response} out.
func HandleChat(chatService chat.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var req twinapi.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn(logger.HANDLER, "Client sent malformed JSON request: %v", err)
		httpext.JsonErrorWithDetail(w, http.StatusBadRequest, "Invalid request format", err.Error())
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		logger.Warn(logger.HANDLER, "Client sent empty message")
		httpext.JsonError(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}

	conv, err := sessionService.Resolve(r.Context(), req.SessionID)
	if err != nil {
		logger.Error(logger.HANDLER, "Failed to load session %s: %v", req.SessionID, err)
		httpext.JsonError(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	logger.Info(logger.HANDLER, "Received chat request for session %s with %d prior messages", conv.ID, len(conv.Messages))

	userMessage := models.ChatMessage{Role: models.RoleUser, Content: message}
	history := make([]models.ChatMessage, 0, len(conv.Messages)+1)
	history = append(history, conv.Messages...)
	history = append(history, userMessage)

	reply, err := chatService.Reply(r.Context(), history)
	if err != nil {
		logger.Error(logger.HANDLER, "Failed to process chat for session %s: %v", conv.ID, err)
		httpext.JsonError(w, "Failed to process chat", http.StatusInternalServerError)
		return
	}

	if err := sessionService.Append(r.Context(), conv, userMessage, models.ChatMessage{Role: models.RoleAssistant, Content: reply}); err != nil {
		// the reply is still useful to the visitor
		logger.Error(logger.HANDLER, "Failed to save session %s: %v", conv.ID, err)
	}

	httpext.JsonResponse(w, http.StatusOK, twinapi.ChatResponse{SessionID: conv.ID, Response: reply})
}
