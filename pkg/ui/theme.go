package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and base styles of the terminal UI. Styles are
// created from Renderer so that tests can render without a terminal.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultTheme returns the default color theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1FA8C"},
		Muted:     lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#8BE9FD"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#5C5C5C", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"},
		Error:     lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"})
	t.Selected = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E4DEFC", Dark: "#44475A"}).
		Bold(true)
	t.Header = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Footer = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#282A36"}).
		Foreground(t.Subtext)

	return t
}
