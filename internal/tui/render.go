package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/widget"
)

const (
	genericIcon = "[bot]"
	userIcon    = "[you]"
)

// markdown renders assistant replies, caching by message id and width.
type markdown struct {
	enabled  bool
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdown(enabled bool) *markdown {
	return &markdown{enabled: enabled, cache: make(map[string]string)}
}

func (md *markdown) render(m widget.Message, width int) string {
	if !md.enabled {
		return lipgloss.NewStyle().Width(width).Render(m.Content)
	}
	if width != md.width || md.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logger.Warn(logger.UI, "Failed to create markdown renderer: %v", err)
			md.enabled = false
			return lipgloss.NewStyle().Width(width).Render(m.Content)
		}
		md.renderer = r
		md.width = width
		md.cache = make(map[string]string)
	}
	if out, ok := md.cache[m.ID]; ok {
		return out
	}
	out, err := md.renderer.Render(m.Content)
	if err != nil {
		logger.Debug(logger.UI, "Rendering message %s as plain text: %v", m.ID, err)
		out = lipgloss.NewStyle().Width(width).Render(m.Content)
	}
	out = strings.Trim(out, "\n")
	md.cache[m.ID] = out
	return out
}

// initials stands in for the avatar image, which a terminal cannot show.
func initials(fullName string) string {
	var b strings.Builder
	for _, part := range strings.Fields(fullName) {
		b.WriteRune([]rune(part)[0])
	}
	if b.Len() == 0 {
		return genericIcon
	}
	return "(" + strings.ToUpper(b.String()) + ")"
}

func (m *Model) assistantIcon(e *widget.Engine) string {
	if e.HasAvatar() {
		return iconStyle.Render(initials(m.fullName))
	}
	return iconStyle.Render(genericIcon)
}

// conversation renders the scrollable part of the open widget.
func (m *Model) conversation(e *widget.Engine, width int) string {
	messages := e.Messages()
	if len(messages) == 0 && !e.Busy() {
		return m.greeting(e, width)
	}

	bubbleWidth := width * 7 / 10
	blocks := make([]string, 0, len(messages)+1)
	for _, msg := range messages {
		stamp := timestampStyle.Render(msg.Timestamp.Format("3:04:05 PM"))
		switch msg.Role {
		case widget.RoleUser:
			bubble := lipgloss.JoinVertical(lipgloss.Right,
				userBubbleStyle.Width(min(lipgloss.Width(msg.Content)+2, bubbleWidth)).Render(msg.Content),
				stamp,
			)
			row := lipgloss.JoinHorizontal(lipgloss.Top, bubble, " ", iconStyle.Render(userIcon))
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, row))
		default:
			bubble := lipgloss.JoinVertical(lipgloss.Left,
				assistantBubbleStyle.Render(m.markdown.render(msg, bubbleWidth)),
				stamp,
			)
			blocks = append(blocks, lipgloss.JoinHorizontal(lipgloss.Top, m.assistantIcon(e), " ", bubble))
		}
	}

	if e.Busy() {
		blocks = append(blocks, lipgloss.JoinHorizontal(lipgloss.Top,
			m.assistantIcon(e), " ", assistantBubbleStyle.Render(m.spinner.View()+" thinking"),
		))
	}

	return strings.Join(blocks, "\n\n")
}

func (m *Model) greeting(e *widget.Engine, width int) string {
	lines := []string{
		"",
		m.assistantIcon(e),
		"",
		greetingStyle.Render(fmt.Sprintf("Hello! I'm %s.", m.fullName)),
		taglineStyle.Render("Let's get your site AI-ready. Tell me about your audience and goals."),
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}
