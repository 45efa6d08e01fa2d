// Package ui provides the terminal user interface for rowtree.
package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/rowtree/pkg/config"
	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
	"github.com/vanderheijden86/rowtree/pkg/rowmodel"
)

type mode int

const (
	modeNormal mode = iota
	modeAdding
	modePicking
	modeEditing
	modeHelp
)

func (m mode) String() string {
	switch m {
	case modeAdding:
		return "ADD"
	case modePicking, modeEditing:
		return "EDIT"
	case modeHelp:
		return "HELP"
	default:
		return "TREE"
	}
}

// ConfigReloadedMsg is sent when the config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg is sent when reloading the config failed.
type ConfigErrorMsg struct {
	Err error
}

// Model is the root bubbletea model of the row tree viewer.
type Model struct {
	rows  *rowmodel.Model
	tree  *TreeModel
	keys  KeyMap
	theme Theme

	mode   mode
	picker ColumnPickerModel
	editor CellEditorModel
	dialog *AddDialogModel
	help   HelpModel

	// copied row; pasting clones whatever lives there at paste time
	clip itemmodel.Index

	status    string
	statusErr bool
	columns   int

	width  int
	height int
	ready  bool
}

// NewModel creates the viewer for rows.
func NewModel(rows *rowmodel.Model, cfg *config.Config, theme Theme) Model {
	keys := DefaultKeyMap()
	tree := NewTreeModel(rows, theme)
	if cfg != nil {
		tree.SetColumnWidth(cfg.ColumnWidth)
	}
	return Model{
		rows:    rows,
		tree:    tree,
		keys:    keys,
		theme:   theme,
		help:    NewHelpModel(keys, theme),
		columns: rows.ColumnCount(),
	}
}

// Tree exposes the tree view, mainly for tests.
func (m Model) Tree() *TreeModel {
	return m.tree
}

// Status returns the status bar message.
func (m Model) Status() string {
	return m.status
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("rowtree")
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.tree.SetSize(msg.Width, msg.Height-1)
		m.picker.SetSize(msg.Width, msg.Height)
		m.help.SetSize(msg.Width, msg.Height)
		m.editor.SetWidth(msg.Width)
		if m.dialog != nil {
			m.dialog.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case ClipboardResultMsg:
		if msg.Error != nil {
			log.Printf("warning: %v", msg.Error)
			m.setError("clipboard: %v", msg.Error)
			return m, nil
		}
		m.setStatus("copied %q", msg.Text)
		return m, nil

	case ConfigReloadedMsg:
		m.tree.SetColumnWidth(msg.Config.ColumnWidth)
		if msg.Config.Columns != m.columns {
			m.setStatus("config reloaded; column count applies on restart")
		} else {
			m.setStatus("config reloaded")
		}
		return m, nil

	case ConfigErrorMsg:
		m.setError("config: %v", msg.Err)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdding:
			return m.updateAdding(msg)
		case modePicking:
			return m.updatePicking(msg)
		case modeEditing:
			return m.updateEditing(msg)
		case modeHelp:
			return m.updateHelp(msg)
		}
		return m.updateNormal(msg)
	}

	// non-key messages still drive the form: field changes, submission and
	// cursor blink all arrive this way
	if m.mode == modeAdding && m.dialog != nil {
		return m.updateAdding(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.tree
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		t.MoveUp()
	case key.Matches(msg, k.Down):
		t.MoveDown()
	case key.Matches(msg, k.Left):
		t.CollapseOrJumpToParent()
	case key.Matches(msg, k.Right):
		t.ExpandOrMoveToChild()
	case key.Matches(msg, k.Toggle):
		t.ToggleExpand()
	case key.Matches(msg, k.Top):
		t.JumpToTop()
	case key.Matches(msg, k.Bottom):
		t.JumpToBottom()
	case key.Matches(msg, k.PageUp):
		t.PageUp()
	case key.Matches(msg, k.PageDown):
		t.PageDown()
	case key.Matches(msg, k.ExpandAll):
		t.ExpandAll()
	case key.Matches(msg, k.CollapseAll):
		t.CollapseAll()

	case key.Matches(msg, k.Add):
		return m.openAddDialog(itemmodel.Index{}, "Add Row")
	case key.Matches(msg, k.AddChild):
		sel := t.SelectedIndex()
		if !sel.IsValid() {
			return m.openAddDialog(itemmodel.Index{}, "Add Row")
		}
		return m.openAddDialog(sel, "Add Child Row")

	case key.Matches(msg, k.Remove):
		sel := t.SelectedIndex()
		if !sel.IsValid() {
			return m, nil
		}
		label := m.rows.CellValue(sel, 0)
		if m.rows.Remove(sel) {
			m.setStatus("removed %q", label)
		}
	case key.Matches(msg, k.MoveUp):
		sel := t.SelectedIndex()
		if !sel.IsValid() {
			return m, nil
		}
		if !m.rows.MoveUp(sel) {
			m.setStatus("already first")
		}
	case key.Matches(msg, k.MoveDown):
		sel := t.SelectedIndex()
		if !sel.IsValid() {
			return m, nil
		}
		if !m.rows.MoveDown(sel) {
			m.setStatus("already last")
		}

	case key.Matches(msg, k.Edit):
		sel := t.SelectedIndex()
		if !sel.IsValid() {
			return m, nil
		}
		m.picker = NewColumnPickerModel(itemmodel.Headers(m.rows), m.rows.Values(sel), m.theme)
		m.picker.SetSize(m.width, m.height)
		m.mode = modePicking
	case key.Matches(msg, k.Copy):
		sel := t.SelectedIndex()
		if !sel.IsValid() {
			return m, nil
		}
		m.clip = sel
		return m, copyToClipboardCmd(rowText(m.rows.Values(sel)))
	case key.Matches(msg, k.Paste):
		return m.paste()

	case key.Matches(msg, k.Help):
		m.help.SetSize(m.width, m.height)
		m.mode = modeHelp
	}
	return m, nil
}

// rowText is the clipboard form of a row: non-empty cells separated by tabs.
func rowText(values []string) string {
	end := len(values)
	for end > 0 && values[end-1] == "" {
		end--
	}
	return strings.Join(values[:end], "\t")
}

// paste clones the copied row next to the selection.
func (m Model) paste() (tea.Model, tea.Cmd) {
	if !m.clip.IsValid() {
		m.setStatus("nothing copied")
		return m, nil
	}
	parent := itemmodel.Index{}
	if sel := m.tree.SelectedIndex(); sel.IsValid() {
		parent = m.rows.Parent(sel)
	}
	idx := m.rows.Paste(m.clip, parent)
	if !idx.IsValid() {
		m.clip = itemmodel.Index{}
		m.setError("copied row no longer exists")
		return m, nil
	}
	m.tree.SelectNode(idx.Node())
	m.setStatus("pasted %q", m.rows.CellValue(idx, 0))
	return m, nil
}

func (m Model) openAddDialog(parent itemmodel.Index, title string) (tea.Model, tea.Cmd) {
	m.dialog = NewAddDialog(itemmodel.Headers(m.rows), parent, title, m.theme)
	m.dialog.SetSize(m.width, m.height)
	m.mode = modeAdding
	return m, m.dialog.Init()
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Cancel) {
		m.dialog = nil
		m.mode = modeNormal
		return m, nil
	}

	cmd := m.dialog.Update(msg)
	switch {
	case m.dialog.Done():
		return m.commitAdd(), nil
	case m.dialog.Aborted():
		m.dialog = nil
		m.mode = modeNormal
		return m, nil
	}
	return m, cmd
}

// commitAdd adds the row entered in the dialog and closes it.
func (m Model) commitAdd() Model {
	idx := m.rows.Add(m.dialog.Values(), m.dialog.Parent())
	if idx.IsValid() {
		m.tree.SelectNode(idx.Node())
		m.setStatus("added %q", m.rows.CellValue(idx, 0))
	} else {
		m.setError("parent row no longer exists")
	}
	m.dialog = nil
	m.mode = modeNormal
	return m
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.mode = modeNormal
	case key.Matches(msg, m.keys.Up):
		m.picker.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.picker.MoveDown()
	case msg.Type == tea.KeyEnter:
		col := m.picker.SelectedColumn()
		sel := m.tree.SelectedIndex()
		if col < 0 || !sel.IsValid() {
			m.mode = modeNormal
			return m, nil
		}
		header, _ := m.rows.HeaderData(col, itemmodel.Horizontal, itemmodel.DisplayRole)
		m.editor = NewCellEditor(sel, col, header, m.rows.CellValue(sel, col), m.theme)
		m.editor.SetWidth(m.width)
		m.mode = modeEditing
	default:
		// digits jump straight to a column
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			m.picker.Select(int(s[0] - '1'))
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		return m, nil
	case tea.KeyEnter:
		if m.rows.SetCellValue(m.editor.Target(), m.editor.Column(), m.editor.Value()) {
			m.setStatus("updated")
		} else {
			m.setError("row no longer exists")
		}
		m.mode = modeNormal
		return m, nil
	}
	return m, m.editor.Update(msg)
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeNormal
	case key.Matches(msg, m.keys.Down):
		m.help.ScrollDown()
	case key.Matches(msg, m.keys.Up):
		m.help.ScrollUp()
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case modeHelp:
		return m.help.View()
	case modePicking:
		return m.picker.View()
	case modeAdding:
		return m.dialog.View()
	}

	body := m.theme.Renderer.NewStyle().Height(m.height - 1).Render(m.tree.View())
	bottom := m.renderFooter()
	if m.mode == modeEditing {
		bottom = m.editor.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, bottom)
}

func (m *Model) renderFooter() string {
	t := m.theme
	r := t.Renderer

	modeSection := r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1).
		Render(m.mode.String())

	count := fmt.Sprintf("%d rows", m.rows.Len())
	countSection := r.NewStyle().Foreground(t.Secondary).Padding(0, 1).Render(count)

	var statusSection string
	if m.status != "" {
		fg := t.Highlight
		if m.statusErr {
			fg = t.Error
		}
		statusSection = r.NewStyle().Foreground(fg).Padding(0, 1).Render(m.status)
	}

	var keys []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		keys = append(keys, h.Key+" "+h.Desc)
	}
	keysSection := r.NewStyle().Foreground(t.Subtext).Padding(0, 1).Render(strings.Join(keys, " • "))

	leftWidth := lipgloss.Width(modeSection) + lipgloss.Width(countSection) + lipgloss.Width(statusSection)
	remaining := m.width - leftWidth - lipgloss.Width(keysSection)
	if remaining < 0 {
		// too narrow for the key hints
		keysSection = ""
		remaining = max(m.width-leftWidth, 0)
	}
	filler := r.NewStyle().Width(remaining).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, modeSection, countSection, statusSection, filler, keysSection)
}
