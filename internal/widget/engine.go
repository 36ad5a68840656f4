package widget

import (
	"context"
	"strings"
	"time"

	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/pkg/twinapi"
)

// ErrorReply is shown as the assistant message when a turn fails for any reason.
const ErrorReply = "Sorry, I encountered an error. Please try again."

// FocusDelay is how long front ends wait before returning focus to the input
// after a turn completes.
const FocusDelay = 100 * time.Millisecond

// ChatClient sends one turn to the remote twin.
type ChatClient interface {
	Chat(ctx context.Context, req twinapi.ChatRequest) (*twinapi.ChatResponse, error)
}

// AvatarProber checks whether the optional avatar image exists.
type AvatarProber interface {
	ProbeAvatar(ctx context.Context) error
}

// Observer receives the presentation side effects of the engine: scrolling to
// the newest message and returning focus to the input.
type Observer interface {
	MessageAppended(m Message)
	FocusInput()
}

type nopObserver struct{}

func (nopObserver) MessageAppended(Message) {}
func (nopObserver) FocusInput()             {}

// Key is a submit-relevant key press from the input control.
type Key int

const (
	KeyEnter Key = iota
	KeyShiftEnter
	KeyOther
)

// Engine is the conversation state machine (IDLE/BUSY). It is not safe for
// concurrent use: drive it from a single goroutine and run exchanges
// elsewhere, handing the Reply back to Complete on the driving goroutine.
type Engine struct {
	client    ChatClient
	observer  Observer
	now       func() time.Time
	newID     func() string
	errorText string

	messages  []Message
	input     string
	busy      bool
	sessionID string
	hasAvatar bool
	closed    bool
	seq       uint64
}

type EngineOption func(*Engine)

func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) { e.newID = newID }
}

// WithErrorText replaces ErrorReply for this engine.
func WithErrorText(text string) EngineOption {
	return func(e *Engine) { e.errorText = text }
}

func NewEngine(client ChatClient, opts ...EngineOption) *Engine {
	e := &Engine{
		client:    client,
		observer:  nopObserver{},
		now:       time.Now,
		newID:     newMessageID,
		errorText: ErrorReply,
		messages:  []Message{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exchange is one request in flight. Run does not touch the engine.
type Exchange struct {
	seq     uint64
	client  ChatClient
	Request twinapi.ChatRequest
}

// Reply is the outcome of an Exchange.
type Reply struct {
	seq      uint64
	Response *twinapi.ChatResponse
	Err      error
}

func (x *Exchange) Run(ctx context.Context) Reply {
	if x.client == nil {
		return Reply{seq: x.seq, Err: twinapi.ErrNotConfigured}
	}
	resp, err := x.client.Chat(ctx, x.Request)
	if err == nil && resp == nil {
		err = twinapi.ErrMalformedResponse
	}
	return Reply{seq: x.seq, Response: resp, Err: err}
}

// Begin starts a turn for text. It returns false without changing anything
// when text is blank, a turn is already in flight, or the engine is closed.
// Otherwise the user message is appended, the input cleared and the engine
// is busy until Complete receives the Reply.
func (e *Engine) Begin(text string) (*Exchange, bool) {
	if e.closed || e.busy || strings.TrimSpace(text) == "" {
		return nil, false
	}

	e.append(RoleUser, text)
	e.input = ""
	e.busy = true
	e.seq++

	logger.Debug(logger.WIDGET, "Sending message (session=%q)", e.sessionID)
	return &Exchange{
		seq:    e.seq,
		client: e.client,
		Request: twinapi.ChatRequest{
			Message:   text,
			SessionID: e.sessionID,
		},
	}, true
}

// Complete applies the outcome of the current exchange. Replies arriving
// after Close, or for an exchange other than the one in flight, are dropped.
func (e *Engine) Complete(r Reply) {
	if e.closed {
		logger.Debug(logger.WIDGET, "Discarding reply for closed conversation")
		return
	}
	if !e.busy || r.seq != e.seq {
		logger.Warn(logger.WIDGET, "Discarding stale reply %d (current %d)", r.seq, e.seq)
		return
	}

	if r.Err != nil {
		logger.Error(logger.WIDGET, "Chat request failed: %v", r.Err)
		e.append(RoleAssistant, e.errorText)
	} else {
		if e.sessionID == "" {
			e.sessionID = r.Response.SessionID
		}
		e.append(RoleAssistant, r.Response.Response)
	}

	e.busy = false
	e.observer.FocusInput()
}

// Send runs a whole turn synchronously. It reports whether a turn was started.
func (e *Engine) Send(ctx context.Context, text string) bool {
	x, ok := e.Begin(text)
	if !ok {
		return false
	}
	e.Complete(x.Run(ctx))
	return true
}

// Submit sends the current input.
func (e *Engine) Submit(ctx context.Context) bool {
	return e.Send(ctx, e.input)
}

// HandleKey submits on plain Enter. Shift+Enter and other keys do nothing.
func (e *Engine) HandleKey(ctx context.Context, k Key) bool {
	if k != KeyEnter {
		return false
	}
	return e.Submit(ctx)
}

func (e *Engine) append(role Role, content string) {
	m := Message{
		ID:        e.newID(),
		Role:      role,
		Content:   content,
		Timestamp: e.now(),
	}
	e.messages = append(e.messages, m)
	e.observer.MessageAppended(m)
}

// ProbeAvatar records whether the avatar exists. Any probe error keeps the
// generic icon.
func (e *Engine) ProbeAvatar(ctx context.Context, p AvatarProber) {
	if p == nil {
		return
	}
	e.SetAvatar(CheckAvatar(ctx, p))
}

// CheckAvatar runs p and reports success, for callers probing off the
// driving goroutine.
func CheckAvatar(ctx context.Context, p AvatarProber) bool {
	if err := p.ProbeAvatar(ctx); err != nil {
		logger.Debug(logger.WIDGET, "Avatar not available: %v", err)
		return false
	}
	return true
}

func (e *Engine) SetAvatar(ok bool) {
	if e.closed {
		return
	}
	e.hasAvatar = ok
}

// Close tears the engine down. Later replies and probes are ignored.
func (e *Engine) Close() {
	e.closed = true
}

func (e *Engine) SetInput(s string) {
	if e.closed {
		return
	}
	e.input = s
}

func (e *Engine) Input() string { return e.input }

// CanSend is the enabled state of the send control.
func (e *Engine) CanSend() bool {
	return !e.closed && !e.busy && strings.TrimSpace(e.input) != ""
}

func (e *Engine) Busy() bool { return e.busy }

func (e *Engine) SessionID() string { return e.sessionID }

func (e *Engine) HasAvatar() bool { return e.hasAvatar }

func (e *Engine) Closed() bool { return e.closed }

// Messages returns a copy of the conversation in order.
func (e *Engine) Messages() []Message {
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}
