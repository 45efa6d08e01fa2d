package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var helpGroupTitles = []string{"Navigation", "Editing", "View"}

// HelpMarkdown renders the key map as a markdown reference.
func HelpMarkdown(keys KeyMap) string {
	var b strings.Builder
	b.WriteString("# rowtree\n\n")
	for i, group := range keys.FullHelp() {
		title := "More"
		if i < len(helpGroupTitles) {
			title = helpGroupTitles[i]
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		b.WriteString("| Key | Action |\n|-----|--------|\n")
		for _, binding := range group {
			writeBinding(&b, binding)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Copy and paste\n\n")
	b.WriteString("`y` copies the selected row and its children. `p` inserts a copy " +
		"as the last sibling of the selected row, not as its child. To paste into " +
		"a row, select one of its children first.\n")
	return b.String()
}

func writeBinding(b *strings.Builder, k key.Binding) {
	h := k.Help()
	key := strings.ReplaceAll(h.Key, "|", `\|`)
	fmt.Fprintf(b, "| `%s` | %s |\n", key, h.Desc)
}

// HelpModel is the scrollable help overlay.
type HelpModel struct {
	viewport viewport.Model
	content  string
	theme    Theme
	width    int
	height   int
}

// NewHelpModel renders the help text for keys.
func NewHelpModel(keys KeyMap, theme Theme) HelpModel {
	return HelpModel{
		viewport: viewport.New(60, 20),
		content:  HelpMarkdown(keys),
		theme:    theme,
	}
}

// SetSize resizes the overlay and re-renders the markdown for the new width.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height

	w := min(72, max(width-8, 20))
	h.viewport.Width = w
	h.viewport.Height = max(height-8, 5)
	h.viewport.SetContent(h.render(w))
}

func (h *HelpModel) render(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Printf("warning: help renderer unavailable: %v", err)
		return h.content
	}
	out, err := r.Render(h.content)
	if err != nil {
		log.Printf("warning: rendering help: %v", err)
		return h.content
	}
	return out
}

// ScrollDown scrolls the help text by one line.
func (h *HelpModel) ScrollDown() { h.viewport.ScrollDown(1) }

// ScrollUp scrolls the help text by one line.
func (h *HelpModel) ScrollUp() { h.viewport.ScrollUp(1) }

// View renders the overlay.
func (h *HelpModel) View() string {
	if h.viewport.Width == 0 || h.width == 0 {
		h.SetSize(80, 24)
	}
	t := h.theme
	footer := t.Renderer.NewStyle().
		Foreground(t.Muted).
		Italic(true).
		Render("j/k: scroll | esc or ?: close")

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, h.viewport.View(), footer))

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
