package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/storage"
	"github.com/clowes/twin/internal/widget"
)

const (
	HeaderTitle = "AI-Ready Growth Chat"
	Tagline     = "Practical steps to make your website visible in AI-led search."

	maxOverlayWidth = 76
	defaultWidth    = 80
	defaultHeight   = 24
)

type Options struct {
	Store    storage.Store
	Client   widget.ChatClient
	Prober   widget.AvatarProber
	FullName string
	Name     string
	// Markdown renders assistant replies with glamour.
	Markdown bool
	Context  context.Context
}

// Model is the terminal rendition of the widget: a launcher that opens an
// overlay holding the conversation.
type Model struct {
	ctx      context.Context
	shell    *widget.Shell
	prober   widget.AvatarProber
	events   *events
	fullName string
	name     string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	markdown *markdown

	width  int
	height int
}

// events collects engine side effects raised during one Update.
type events struct {
	appended bool
	focus    bool
}

func (ev *events) MessageAppended(widget.Message) { ev.appended = true }
func (ev *events) FocusInput()                    { ev.focus = true }

type preferenceMsg struct{ open bool }

type replyMsg struct {
	engine *widget.Engine
	reply  widget.Reply
}

type avatarMsg struct {
	engine *widget.Engine
	ok     bool
}

type focusMsg struct{ engine *widget.Engine }

func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.FullName == "" {
		opts.FullName = "your digital twin"
	}
	if opts.Name == "" {
		opts.Name = opts.FullName
	}

	m := &Model{
		ctx:      ctx,
		prober:   opts.Prober,
		events:   &events{},
		fullName: opts.FullName,
		name:     opts.Name,
		markdown: newMarkdown(opts.Markdown),
		width:    defaultWidth,
		height:   defaultHeight,
	}

	client := opts.Client
	m.shell = widget.NewShell(opts.Store, func() *widget.Engine {
		return widget.NewEngine(client, widget.WithObserver(m.events))
	})

	m.input = textinput.New()
	m.input.Placeholder = fmt.Sprintf("Ask %s how to get AI-ready...", m.name)
	m.input.Prompt = "> "
	m.input.Cursor.SetMode(cursor.CursorStatic)

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = iconStyle

	m.viewport = viewport.New(defaultWidth, defaultHeight)
	m.resize()
	return m
}

// Shell exposes the widget state machine, mainly for tests.
func (m *Model) Shell() *widget.Shell { return m.shell }

func (m *Model) Init() tea.Cmd {
	shell := m.shell
	ctx := m.ctx
	return func() tea.Msg {
		return preferenceMsg{open: shell.ReadPreference(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh(true)

	case preferenceMsg:
		before := m.shell.Engine()
		m.shell.Hydrate(m.ctx, msg.open)
		logger.Debug(logger.UI, "Widget hydrated (open=%t)", m.shell.IsOpen())
		cmds = append(cmds, m.mounted(before))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case replyMsg:
		msg.engine.Complete(msg.reply)

	case avatarMsg:
		msg.engine.SetAvatar(msg.ok)
		m.refresh(false)

	case focusMsg:
		if msg.engine == m.shell.Engine() && !msg.engine.Busy() {
			cmds = append(cmds, m.input.Focus())
		}

	case spinner.TickMsg:
		if e := m.shell.Engine(); e != nil && e.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh(false)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.drain())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		m.shell.Shutdown()
		return tea.Quit
	case "ctrl+o":
		before := m.shell.Engine()
		m.shell.Toggle(m.ctx)
		return m.mounted(before)
	}

	e := m.shell.Engine()
	if e == nil {
		return nil
	}

	switch msg.String() {
	case "esc":
		m.shell.Toggle(m.ctx)
		return m.mounted(e)
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	switch keyFor(msg) {
	case widget.KeyEnter:
		return m.submit(e)
	case widget.KeyShiftEnter:
		return nil
	}

	if e.Busy() {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	e.SetInput(m.input.Value())
	return cmd
}

func keyFor(msg tea.KeyMsg) widget.Key {
	switch msg.String() {
	case "enter":
		return widget.KeyEnter
	case "shift+enter":
		return widget.KeyShiftEnter
	}
	return widget.KeyOther
}

// submit starts a turn and hands the request to a command so the UI keeps
// running while it is in flight.
func (m *Model) submit(e *widget.Engine) tea.Cmd {
	x, ok := e.Begin(e.Input())
	if !ok {
		return nil
	}
	m.input.SetValue("")
	m.input.Blur()

	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			return replyMsg{engine: e, reply: x.Run(ctx)}
		},
		m.spinner.Tick,
	)
}

// mounted reacts to the shell mounting or unmounting a conversation.
func (m *Model) mounted(before *widget.Engine) tea.Cmd {
	e := m.shell.Engine()
	if e == before {
		return nil
	}
	m.input.Reset()
	if e == nil {
		m.input.Blur()
		return nil
	}

	m.refresh(true)
	cmds := []tea.Cmd{m.input.Focus()}
	if m.prober != nil {
		prober := m.prober
		ctx := m.ctx
		cmds = append(cmds, func() tea.Msg {
			return avatarMsg{engine: e, ok: widget.CheckAvatar(ctx, prober)}
		})
	}
	return tea.Batch(cmds...)
}

// drain turns engine side effects into view updates and commands.
func (m *Model) drain() tea.Cmd {
	ev := m.events
	var cmd tea.Cmd
	if ev.appended {
		m.refresh(true)
	}
	if ev.focus {
		m.refresh(false)
		if e := m.shell.Engine(); e != nil {
			cmd = tea.Tick(widget.FocusDelay, func(time.Time) tea.Msg {
				return focusMsg{engine: e}
			})
		}
	}
	*ev = events{}
	return cmd
}

func (m *Model) overlayWidth() int {
	return max(min(m.width-2, maxOverlayWidth), 30)
}

func (m *Model) resize() {
	inner := m.overlayWidth() - overlayStyle.GetHorizontalFrameSize()
	m.viewport.Width = inner
	// title, header, tagline, blank, input, hint, launcher, borders
	m.viewport.Height = max(m.height-10, 5)
	m.input.Width = inner - lipgloss.Width(m.input.Prompt) - 8
}

func (m *Model) refresh(bottom bool) {
	e := m.shell.Engine()
	if e == nil {
		return
	}
	m.viewport.SetContent(m.conversation(e, m.viewport.Width))
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) View() string {
	launcher := launcherStyle.Render("[ " + m.shell.ToggleLabel() + " ]")

	e := m.shell.Engine()
	if e == nil {
		help := helpStyle.Render("ctrl+o " + strings.ToLower(widget.OpenLabel) + " • ctrl+c quit")
		return m.place(lipgloss.JoinVertical(lipgloss.Right, launcher, help))
	}

	send := sendDisabledStyle.Render("[send]")
	if e.CanSend() {
		send = sendStyle.Render("[send]")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render(widget.DialogLabel(m.fullName)),
		headerStyle.Width(m.viewport.Width).Render(strings.ToUpper(HeaderTitle)),
		taglineStyle.Render(Tagline),
		m.viewport.View(),
		lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", send),
		helpStyle.Render("enter send • esc "+strings.ToLower(widget.CloseLabel)+" • ctrl+c quit"),
	)
	overlay := overlayStyle.Width(m.overlayWidth()).Render(body)
	return m.place(lipgloss.JoinVertical(lipgloss.Right, overlay, launcher))
}

// place pins the widget to the bottom right corner like its web counterpart.
func (m *Model) place(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Bottom, s)
}
