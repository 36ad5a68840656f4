package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/clowes/twin/internal/infrastructure/redis"
	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/services/chat/models"
	"github.com/google/uuid"
)

const keyPrefix = "twin:session:"

// Conversation is the server-side memory of one widget session.
type Conversation struct {
	ID        string               `json:"id"`
	Messages  []models.ChatMessage `json:"messages"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type SessionStore interface {
	Set(ctx context.Context, conv *Conversation, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Conversation, error)
}

type RedisStore struct {
	redisService *redis.Service
}

type memoryEntry struct {
	conv    *Conversation
	expires time.Time
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type Service struct {
	store    SessionStore
	ttl      time.Duration
	maxTurns int
}

func NewService(redisService *redis.Service, ttl time.Duration, maxTurns int) *Service {
	var store SessionStore
	if redisService != nil {
		// Test Redis connection
		if err := redisService.Ping(context.Background()); err != nil {
			logger.Warn(logger.SERVICE, "Redis unreachable, keeping sessions in memory: %v", err)
			store = NewMemoryStore()
		} else {
			store = &RedisStore{redisService: redisService}
		}
	} else {
		store = NewMemoryStore()
	}

	return NewServiceWithStore(store, ttl, maxTurns)
}

func NewServiceWithStore(store SessionStore, ttl time.Duration, maxTurns int) *Service {
	return &Service{store: store, ttl: ttl, maxTurns: maxTurns}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, conv *Conversation, ttl time.Duration) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, keyPrefix+conv.ID, string(data), ttl)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*Conversation, error) {
	data, err := rs.redisService.Get(ctx, keyPrefix+sessionID)
	if redis.IsMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

// Memory Store implementation
func (ms *MemoryStore) Set(ctx context.Context, conv *Conversation, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry := memoryEntry{conv: conv}
	if ttl > 0 {
		entry.expires = time.Now().Add(ttl)
	}
	ms.sessions[conv.ID] = entry
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*Conversation, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry, exists := ms.sessions[sessionID]
	if !exists {
		return nil, nil
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		delete(ms.sessions, sessionID)
		return nil, nil
	}
	return entry.conv, nil
}

// Resolve returns the conversation for sessionID. A blank id starts a new
// conversation with a fresh id; an unknown or expired id starts an empty
// conversation under that same id, so clients can keep passing it back.
func (s *Service) Resolve(ctx context.Context, sessionID string) (*Conversation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return &Conversation{ID: uuid.New().String(), Messages: []models.ChatMessage{}}, nil
	}

	conv, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		logger.Debug(logger.SERVICE, "Session %s not found, starting a new conversation", sessionID)
		return &Conversation{ID: sessionID, Messages: []models.ChatMessage{}}, nil
	}
	return conv, nil
}

// Append adds messages to conv, keeps at most maxTurns turns and saves it.
func (s *Service) Append(ctx context.Context, conv *Conversation, messages ...models.ChatMessage) error {
	conv.Messages = append(conv.Messages, messages...)
	if s.maxTurns > 0 && len(conv.Messages) > 2*s.maxTurns {
		conv.Messages = conv.Messages[len(conv.Messages)-2*s.maxTurns:]
	}
	conv.UpdatedAt = time.Now()
	return s.store.Set(ctx, conv, s.ttl)
}
