package tui

import "github.com/charmbracelet/lipgloss"

var (
	brandDark   = lipgloss.Color("#013437")
	brandLight  = lipgloss.Color("#d6f3ef")
	brandAccent = lipgloss.Color("#36e0d2")
	brandTeal   = lipgloss.Color("#0bb7a4")
	mutedText   = lipgloss.Color("#7a9e9a")

	launcherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandLight).
			Background(brandDark).
			Padding(0, 1)

	overlayStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(brandAccent).
			Padding(0, 1)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(mutedText).
				Italic(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandLight).
			Background(brandDark).
			Padding(0, 1)

	taglineStyle = lipgloss.NewStyle().Foreground(mutedText)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(brandLight).
			Background(brandDark).
			Padding(0, 1)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(brandTeal).
				PaddingLeft(1)

	iconStyle = lipgloss.NewStyle().Bold(true).Foreground(brandAccent)

	timestampStyle = lipgloss.NewStyle().Foreground(mutedText).Faint(true)

	greetingStyle = lipgloss.NewStyle().Bold(true)

	sendStyle = lipgloss.NewStyle().Bold(true).Foreground(brandTeal)

	sendDisabledStyle = lipgloss.NewStyle().Foreground(mutedText).Faint(true)

	helpStyle = lipgloss.NewStyle().Foreground(mutedText)
)
