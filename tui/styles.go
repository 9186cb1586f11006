package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette tuned for dark terminals. lipgloss drops colors on its own when
// NO_COLOR is set or stdout is not a TTY.
var (
	ColorPrimary   = lipgloss.Color("255") // White
	ColorSecondary = lipgloss.Color("240") // Dark Gray
	ColorAccent    = lipgloss.Color("39")  // Blue / Cyan
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("196") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorDim       = lipgloss.Color("240") // Dimmed text
	ColorLabel     = lipgloss.Color("170") // Magenta
	ColorLink      = lipgloss.Color("33")  // Blue
)

var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDim)
	StyleBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	StylePrompt = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleUser   = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	StyleAI     = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	// Banner
	StyleBanner = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)
	StyleBannerTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleLabel       = lipgloss.NewStyle().Bold(true).Foreground(ColorLabel)
	StyleModel       = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	StyleURL         = lipgloss.NewStyle().Bold(true).Foreground(ColorLink)
	StyleExit        = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

	// Result tables
	StyleTableBorder = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)
	StyleTableCell   = lipgloss.NewStyle().Padding(0, 1)

	StyleStatusBar = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleHelpKey   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleHelpDesc  = lipgloss.NewStyle().Foreground(ColorDim)
)
