package twinapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, chat http.HandlerFunc, avatarStatus int) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var received []map[string]interface{}

	r := mux.NewRouter()
	r.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		received = append(received, body)
		chat(w, r)
	}).Methods(http.MethodPost)
	r.HandleFunc("/avatar.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(avatarStatus)
	}).Methods(http.MethodHead)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, &received
}

func writeJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestChat(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		want      *ChatResponse
		wantErr   error
		wantState int
	}{
		{
			name:    "success",
			handler: writeJSON(http.StatusOK, `{"session_id":"abc","response":"Hi there"}`),
			want:    &ChatResponse{SessionID: "abc", Response: "Hi there"},
		},
		{
			name:    "empty response text is still a reply",
			handler: writeJSON(http.StatusOK, `{"session_id":"abc","response":""}`),
			want:    &ChatResponse{SessionID: "abc", Response: ""},
		},
		{
			name:      "server error",
			handler:   writeJSON(http.StatusInternalServerError, `{"error":"Failed to process chat"}`),
			wantState: http.StatusInternalServerError,
		},
		{
			name:      "rate limited",
			handler:   writeJSON(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`),
			wantState: http.StatusTooManyRequests,
		},
		{
			name:    "missing response field",
			handler: writeJSON(http.StatusOK, `{"session_id":"abc"}`),
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing session field",
			handler: writeJSON(http.StatusOK, `{"response":"hi"}`),
			wantErr: ErrMalformedResponse,
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.handler, http.StatusOK)
			client := NewClient(server.URL)

			resp, err := client.Chat(context.Background(), ChatRequest{Message: "Hello"})
			if tt.want != nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, resp)
				return
			}

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantState != 0 {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantState, statusErr.StatusCode)
			}
		})
	}
}

func TestChatRequestBody(t *testing.T) {
	server, received := newTestServer(t, writeJSON(http.StatusOK, `{"session_id":"abc","response":"ok"}`), http.StatusOK)
	client := NewClient(server.URL + "/")

	_, err := client.Chat(context.Background(), ChatRequest{Message: "first"})
	require.NoError(t, err)
	_, err = client.Chat(context.Background(), ChatRequest{Message: "second", SessionID: "abc"})
	require.NoError(t, err)

	require.Len(t, *received, 2)
	first := (*received)[0]
	assert.Equal(t, "first", first["message"])
	_, hasSession := first["session_id"]
	assert.False(t, hasSession, "session_id is omitted until assigned")
	assert.Equal(t, "abc", (*received)[1]["session_id"])
}

func TestChatNetworkError(t *testing.T) {
	server, _ := newTestServer(t, writeJSON(http.StatusOK, `{}`), http.StatusOK)
	url := server.URL
	server.Close()

	_, err := NewClient(url).Chat(context.Background(), ChatRequest{Message: "Hello"})
	assert.Error(t, err)
}

func TestChatTimeout(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(http.StatusOK, `{"session_id":"a","response":"late"}`)(w, r)
	}, http.StatusOK)

	_, err := NewClient(server.URL, WithTimeout(20*time.Millisecond)).Chat(context.Background(), ChatRequest{Message: "Hello"})
	assert.Error(t, err)
}

func TestProbeAvatar(t *testing.T) {
	found, _ := newTestServer(t, writeJSON(http.StatusOK, `{}`), http.StatusOK)
	assert.NoError(t, NewClient(found.URL).ProbeAvatar(context.Background()))

	missing, _ := newTestServer(t, writeJSON(http.StatusOK, `{}`), http.StatusNotFound)
	assert.Error(t, NewClient(missing.URL).ProbeAvatar(context.Background()))

	// Avatar served from a different origin than the API.
	assert.NoError(t, NewClient(missing.URL, WithAvatarURL(found.URL+"/avatar.png")).ProbeAvatar(context.Background()))
}

func TestNilClient(t *testing.T) {
	client := NewClient("")
	assert.Nil(t, client)
	assert.False(t, client.IsEnabled())

	_, err := client.Chat(context.Background(), ChatRequest{Message: "Hello"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, client.ProbeAvatar(context.Background()), ErrNotConfigured)
}
