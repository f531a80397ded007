package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - adapt to the terminal background
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "125", Dark: "205"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "24", Dark: "33"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}

	ColorSuccess = lipgloss.AdaptiveColor{Light: "22", Dark: "10"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "136", Dark: "11"}
	ColorError   = lipgloss.AdaptiveColor{Light: "160", Dark: "9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "24", Dark: "12"}

	ColorText      = lipgloss.AdaptiveColor{Light: "232", Dark: "252"}
	ColorTextMuted = lipgloss.AdaptiveColor{Light: "240", Dark: "244"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "244", Dark: "240"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "248", Dark: "238"}
)

// Component Styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleText = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StyleTextDim = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Picker rows
	StyleFocused = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	StyleUnselected = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleInfo = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	StyleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2)

	StyleMetadata = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	StyleCode = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

func CreateHelp(text string) string {
	return StyleTextDim.Render(text)
}

// CreateStatus renders text with the style for statusType
// (success, warning, error or info)
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}
