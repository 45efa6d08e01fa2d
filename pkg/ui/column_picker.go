package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColumnPickerModel lets the user choose which cell of a row to edit.
type ColumnPickerModel struct {
	headers       []string
	values        []string
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewColumnPickerModel creates a picker over the given headers and the
// current row values. values may be shorter than headers.
func NewColumnPickerModel(headers, values []string, theme Theme) ColumnPickerModel {
	return ColumnPickerModel{
		headers: headers,
		values:  values,
		theme:   theme,
	}
}

// SetSize updates the picker dimensions
func (m *ColumnPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up
func (m *ColumnPickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down
func (m *ColumnPickerModel) MoveDown() {
	if m.selectedIndex < len(m.headers)-1 {
		m.selectedIndex++
	}
}

// Select jumps to column n if it exists.
func (m *ColumnPickerModel) Select(n int) {
	if n >= 0 && n < len(m.headers) {
		m.selectedIndex = n
	}
}

// SelectedColumn returns the highlighted column, or -1 when there are none.
func (m *ColumnPickerModel) SelectedColumn() int {
	if len(m.headers) == 0 {
		return -1
	}
	return m.selectedIndex
}

// View renders the picker overlay
func (m *ColumnPickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 40
	if m.width < 50 {
		boxWidth = m.width - 10
	}
	if boxWidth < 25 {
		boxWidth = 25
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	lines = append(lines, titleStyle.Render("Edit Cell"))
	lines = append(lines, "")

	valueStyle := t.Renderer.NewStyle().Foreground(t.Muted)
	for i, h := range m.headers {
		itemStyle := t.Renderer.NewStyle()
		prefix := "  "
		if i == m.selectedIndex {
			itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
			prefix = "> "
		} else {
			itemStyle = itemStyle.Foreground(t.Base.GetForeground())
		}

		v := ""
		if i < len(m.values) {
			v = m.values[i]
		}
		label := fmt.Sprintf("%s%d %s", prefix, i+1, h)
		lines = append(lines, itemStyle.Render(label)+" "+valueStyle.Render(fitWidth(v, boxWidth/2)))
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k: navigate | enter: edit | esc: cancel"))

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}
