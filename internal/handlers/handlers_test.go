package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/services"
	"github.com/clowes/twin/internal/services/chat/models"
	"github.com/clowes/twin/internal/services/session"
	"github.com/clowes/twin/pkg/twinapi"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Reply(ctx context.Context, history []models.ChatMessage) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func newTestRouter(t *testing.T, chatService *MockChatService, avatarFile string) (*mux.Router, *session.Service) {
	t.Helper()
	sessions := session.NewService(nil, time.Hour, 10)
	svc := services.NewServices(chatService, sessions, config.TwinConfig{
		FullName:   "Christopher Clowes",
		Name:       "Christopher",
		AvatarFile: avatarFile,
	})
	router := mux.NewRouter()
	RegisterRoutes(router, svc)
	return router, sessions
}

func postChat(router http.Handler, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		setupMocks     func(*MockChatService)
	}{
		{
			name:           "New session",
			requestBody:    twinapi.ChatRequest{Message: "Hello"},
			expectedStatus: http.StatusOK,
			setupMocks: func(m *MockChatService) {
				m.On("Reply", mock.Anything, mock.MatchedBy(func(h []models.ChatMessage) bool {
					return len(h) == 1 && h[0].Content == "Hello"
				})).Return("Hi there", nil)
			},
		},
		{
			name:           "Message is trimmed",
			requestBody:    twinapi.ChatRequest{Message: "  Hello  ", SessionID: "abc"},
			expectedStatus: http.StatusOK,
			setupMocks: func(m *MockChatService) {
				m.On("Reply", mock.Anything, mock.MatchedBy(func(h []models.ChatMessage) bool {
					return len(h) == 1 && h[0].Content == "Hello"
				})).Return("Hi there", nil)
			},
		},
		{
			name:           "Empty message",
			requestBody:    twinapi.ChatRequest{Message: "   "},
			expectedStatus: http.StatusBadRequest,
			setupMocks:     func(m *MockChatService) {},
		},
		{
			name:           "Malformed body",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
			setupMocks:     func(m *MockChatService) {},
		},
		{
			name:           "Chat service failure",
			requestBody:    twinapi.ChatRequest{Message: "Hello"},
			expectedStatus: http.StatusInternalServerError,
			setupMocks: func(m *MockChatService) {
				m.On("Reply", mock.Anything, mock.Anything).Return("", errors.New("upstream down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatService := new(MockChatService)
			tt.setupMocks(chatService)
			router, _ := newTestRouter(t, chatService, "")

			w := postChat(router, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.expectedStatus == http.StatusOK {
				var resp twinapi.ChatResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.NotEmpty(t, resp.SessionID)
				assert.Equal(t, "Hi there", resp.Response)
			}
			chatService.AssertExpectations(t)
		})
	}
}

func TestHandleChatKeepsHistory(t *testing.T) {
	chatService := new(MockChatService)
	chatService.On("Reply", mock.Anything, mock.MatchedBy(func(h []models.ChatMessage) bool {
		return len(h) == 1
	})).Return("first answer", nil).Once()
	chatService.On("Reply", mock.Anything, mock.MatchedBy(func(h []models.ChatMessage) bool {
		return len(h) == 3 &&
			h[0].Content == "first" &&
			h[1].Role == models.RoleAssistant && h[1].Content == "first answer" &&
			h[2].Content == "second"
	})).Return("second answer", nil).Once()

	router, _ := newTestRouter(t, chatService, "")

	w := postChat(router, twinapi.ChatRequest{Message: "first"})
	require.Equal(t, http.StatusOK, w.Code)
	var first twinapi.ChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&first))

	w = postChat(router, twinapi.ChatRequest{Message: "second", SessionID: first.SessionID})
	require.Equal(t, http.StatusOK, w.Code)
	var second twinapi.ChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "second answer", second.Response)
	chatService.AssertExpectations(t)
}

func TestHandleChatPreflight(t *testing.T) {
	t.Setenv("TWIN_ALLOWED_ORIGINS", "")
	router, _ := newTestRouter(t, new(MockChatService), "")

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://clowes.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestHandleAvatar(t *testing.T) {
	dir := t.TempDir()
	avatar := filepath.Join(dir, "avatar.png")
	require.NoError(t, os.WriteFile(avatar, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))

	tests := []struct {
		name           string
		file           string
		method         string
		expectedStatus int
	}{
		{name: "HEAD present", file: avatar, method: http.MethodHead, expectedStatus: http.StatusOK},
		{name: "GET present", file: avatar, method: http.MethodGet, expectedStatus: http.StatusOK},
		{name: "HEAD missing", file: filepath.Join(dir, "missing.png"), method: http.MethodHead, expectedStatus: http.StatusNotFound},
		{name: "Not configured", file: "", method: http.MethodHead, expectedStatus: http.StatusNotFound},
		{name: "Directory", file: dir, method: http.MethodGet, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, new(MockChatService), tt.file)

			req := httptest.NewRequest(tt.method, "/avatar.png", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	router, _ := newTestRouter(t, new(MockChatService), "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
