package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
)

// CellEditorModel edits one cell in place.
type CellEditorModel struct {
	target itemmodel.Index // first-column index of the row
	column int
	header string
	input  textinput.Model
	width  int
	theme  Theme
}

// NewCellEditor creates an editor for column of the row at target, prefilled
// with the current value.
func NewCellEditor(target itemmodel.Index, column int, header, value string, theme Theme) CellEditorModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()

	return CellEditorModel{
		target: target,
		column: column,
		header: header,
		input:  ti,
		theme:  theme,
	}
}

// SetWidth updates the editor width.
func (m *CellEditorModel) SetWidth(w int) {
	m.width = w
	if w > 20 {
		m.input.Width = w - 20
	}
}

// Update forwards key input to the text field.
func (m *CellEditorModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// Target returns the row being edited.
func (m *CellEditorModel) Target() itemmodel.Index {
	return m.target
}

// Column returns the column being edited.
func (m *CellEditorModel) Column() int {
	return m.column
}

// Value returns the text typed so far.
func (m *CellEditorModel) Value() string {
	return strings.TrimRight(m.input.Value(), "\r\n")
}

// View renders the editor as a single bordered line.
func (m *CellEditorModel) View() string {
	t := m.theme
	label := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Render(fmt.Sprintf("%s:", m.header))
	hint := t.Renderer.NewStyle().
		Foreground(t.Muted).
		Italic(true).
		Render("enter: save | esc: cancel")

	return t.Renderer.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(t.Border).
		Render(label + " " + m.input.View() + "  " + hint)
}
