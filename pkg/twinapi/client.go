package twinapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrMalformedResponse is returned when a 2xx body lacks session_id or response.
	ErrMalformedResponse = errors.New("twin chat response is missing required fields")
	ErrNotConfigured     = errors.New("twin chat client is not configured")
)

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twin chat error (%d): %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	avatarURL  string
	httpClient *resty.Client
}

type Option func(*Client)

// WithTimeout bounds every request. The default is no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.SetTimeout(d)
	}
}

// WithAvatarURL overrides the probed avatar location.
func WithAvatarURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.avatarURL = url
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "twin-widget/1.0").
		SetRetryCount(0)

	c := &Client{
		baseURL:    baseURL,
		avatarURL:  baseURL + "/avatar.png",
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) IsEnabled() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Chat sends one turn. Transport errors, non-2xx statuses, undecodable
// bodies and bodies missing a field all return an error.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if !c.IsEnabled() {
		return nil, ErrNotConfigured
	}

	var raw rawChatResponse
	httpResp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&raw).
		ForceContentType("application/json").
		Post("/chat")
	if err != nil {
		return nil, fmt.Errorf("twin chat request failed: %w", err)
	}
	if !httpResp.IsSuccess() {
		return nil, &StatusError{StatusCode: httpResp.StatusCode(), Body: httpResp.String()}
	}
	if raw.SessionID == nil || raw.Response == nil {
		return nil, ErrMalformedResponse
	}
	return &ChatResponse{SessionID: *raw.SessionID, Response: *raw.Response}, nil
}

// ProbeAvatar issues a HEAD against the avatar URL and succeeds only on 2xx.
func (c *Client) ProbeAvatar(ctx context.Context) error {
	if !c.IsEnabled() {
		return ErrNotConfigured
	}
	httpResp, err := c.httpClient.R().
		SetContext(ctx).
		Head(c.avatarURL)
	if err != nil {
		return fmt.Errorf("avatar probe failed: %w", err)
	}
	if !httpResp.IsSuccess() {
		return &StatusError{StatusCode: httpResp.StatusCode()}
	}
	return nil
}
