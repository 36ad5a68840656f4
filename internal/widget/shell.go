package widget

import (
	"context"
	"errors"
	"strconv"

	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/storage"
)

// VisibilityKey is where the open/closed preference is persisted.
const VisibilityKey = "twin-chat-open"

const (
	OpenLabel  = "Open chat"
	HideLabel  = "Hide chat"
	CloseLabel = "Close chat"
)

// EngineFactory builds the conversation mounted each time the shell opens.
type EngineFactory func() *Engine

// Shell is the CLOSED/OPEN state machine around the conversation. It owns the
// persisted preference and mounts a fresh Engine on every open.
type Shell struct {
	store    storage.Store
	mount    EngineFactory
	isOpen   bool
	hydrated bool
	engine   *Engine
}

func NewShell(store storage.Store, mount EngineFactory) *Shell {
	if store == nil {
		store = storage.Unavailable{}
	}
	return &Shell{store: store, mount: mount}
}

// ReadPreference reads the persisted flag without touching shell state, so it
// can run off the driving goroutine. Only the literal "true" means open;
// unavailable storage and read errors mean closed.
func (s *Shell) ReadPreference(ctx context.Context) bool {
	v, ok, err := s.store.Get(ctx, VisibilityKey)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			logger.Debug(logger.WIDGET, "No durable storage, widget starts closed")
		} else {
			logger.Warn(logger.WIDGET, "Failed to read widget preference: %v", err)
		}
		return false
	}
	return ok && v == "true"
}

// Hydrate applies a preference read by ReadPreference and enables
// persistence. Only the first call has any effect. A toggle made before the
// read arrived can leave the widget open while storage says closed; that
// state is written here so storage matches what is shown.
func (s *Shell) Hydrate(ctx context.Context, open bool) {
	if s.hydrated {
		return
	}
	if open {
		s.setOpen(true)
	}
	s.hydrated = true
	if s.isOpen != open {
		s.persist(ctx)
	}
}

// Initialize is ReadPreference followed by Hydrate.
func (s *Shell) Initialize(ctx context.Context) {
	if s.hydrated {
		return
	}
	s.Hydrate(ctx, s.ReadPreference(ctx))
}

// Toggle flips visibility and, once hydrated, persists the new value.
func (s *Shell) Toggle(ctx context.Context) {
	s.setOpen(!s.isOpen)
	if !s.hydrated {
		return
	}
	s.persist(ctx)
}

func (s *Shell) persist(ctx context.Context) {
	if err := s.store.Set(ctx, VisibilityKey, strconv.FormatBool(s.isOpen)); err != nil {
		logger.Warn(logger.WIDGET, "Failed to persist widget preference: %v", err)
	}
}

func (s *Shell) setOpen(open bool) {
	if open == s.isOpen {
		return
	}
	s.isOpen = open
	if open {
		if s.mount != nil {
			s.engine = s.mount()
		}
		return
	}
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
}

// Shutdown tears down the mounted conversation without changing the
// persisted preference.
func (s *Shell) Shutdown() {
	if s.engine != nil {
		s.engine.Close()
	}
}

func (s *Shell) IsOpen() bool { return s.isOpen }

func (s *Shell) Hydrated() bool { return s.hydrated }

// Engine returns the mounted conversation, nil while closed.
func (s *Shell) Engine() *Engine { return s.engine }

// ToggleLabel is the accessible label of the launcher control.
func (s *Shell) ToggleLabel() string {
	if s.isOpen {
		return HideLabel
	}
	return OpenLabel
}

// DialogLabel is the accessible name of the open chat surface.
func DialogLabel(name string) string {
	return name + " chat window"
}
