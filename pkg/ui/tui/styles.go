package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Palette
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	errorRed    = lipgloss.Color("#FF0000")
	darkBg2     = lipgloss.Color("#1A1E37")
	dimWhite    = lipgloss.Color("#B0B0B0")
	mutedGray   = lipgloss.Color("#626262")

	logoStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	// Search box
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	inputFocusedStyle = inputStyle.
				BorderForeground(neonMagenta)

	// Single-line error area under the search box
	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed).
			Bold(true)

	// Result cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Background(darkBg2).
			Padding(0, 1)

	cardSelectedStyle = cardStyle.
				BorderForeground(neonCyan)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(neonYellow).
			Bold(true)

	cardMetaStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	cardURLStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Underline(true)

	savedBadgeStyle = lipgloss.NewStyle().
			Foreground(neonGreen).
			Bold(true)

	failedBadgeStyle = lipgloss.NewStyle().
				Foreground(neonOrange).
				Bold(true)

	// Pagination bar
	pagerButtonStyle = lipgloss.NewStyle().
				Foreground(darkBg2).
				Background(neonMagenta).
				Bold(true).
				Padding(0, 1)

	pagerDisabledStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Background(darkBg2).
				Padding(0, 1)

	pagerPageStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true).
			Padding(0, 2)

	// Status line
	statsLabelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(neonYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(neonGreen)

	warningStyle = lipgloss.NewStyle().
			Foreground(neonOrange)

	emptyStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Italic(true).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(1, 0, 0, 2)
)
