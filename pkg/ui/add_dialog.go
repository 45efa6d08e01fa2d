package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
)

// AddDialogModel asks for the values of a new row, one input per column.
type AddDialogModel struct {
	form   *huh.Form
	values []string
	parent itemmodel.Index
	title  string
	width  int
	height int
	theme  Theme
}

// NewAddDialog builds the form. parent is where the row will be added; an
// invalid Index adds a top-level row.
func NewAddDialog(headers []string, parent itemmodel.Index, title string, theme Theme) *AddDialogModel {
	d := &AddDialogModel{
		values: make([]string, len(headers)),
		parent: parent,
		title:  title,
		theme:  theme,
	}

	fields := make([]huh.Field, 0, len(headers))
	for i, h := range headers {
		fields = append(fields, huh.NewInput().
			Title(h).
			Value(&d.values[i]))
	}
	d.form = huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(false).
		WithWidth(48)
	return d
}

// Init starts the form.
func (d *AddDialogModel) Init() tea.Cmd {
	return d.form.Init()
}

// Update forwards msg to the form.
func (d *AddDialogModel) Update(msg tea.Msg) tea.Cmd {
	m, cmd := d.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		d.form = f
	}
	return cmd
}

// Done reports whether the form was submitted.
func (d *AddDialogModel) Done() bool {
	return d.form.State == huh.StateCompleted
}

// Aborted reports whether the form was cancelled.
func (d *AddDialogModel) Aborted() bool {
	return d.form.State == huh.StateAborted
}

// Values returns the entered row values.
func (d *AddDialogModel) Values() []string {
	return append([]string(nil), d.values...)
}

// Parent returns where the row is to be added.
func (d *AddDialogModel) Parent() itemmodel.Index {
	return d.parent
}

// SetSize updates the dialog dimensions.
func (d *AddDialogModel) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the form in a centered box.
func (d *AddDialogModel) View() string {
	t := d.theme
	title := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Render(d.title)
	footer := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true).
		Render("tab: next | enter: add | esc: cancel")

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View(), "", footer))

	if d.width == 0 || d.height == 0 {
		return box
	}
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
