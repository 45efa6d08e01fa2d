package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
	"github.com/vanderheijden86/rowtree/pkg/rowmodel"
)

func TestColumnPickerNavigation(t *testing.T) {
	m := NewColumnPickerModel([]string{"Name", "Owner", "State"}, []string{"x"}, newTreeTestTheme())

	if m.SelectedColumn() != 0 {
		t.Errorf("initial column = %d", m.SelectedColumn())
	}
	m.MoveUp()
	if m.SelectedColumn() != 0 {
		t.Errorf("MoveUp at top = %d", m.SelectedColumn())
	}
	m.MoveDown()
	m.MoveDown()
	m.MoveDown()
	if m.SelectedColumn() != 2 {
		t.Errorf("MoveDown clamps to %d, want 2", m.SelectedColumn())
	}
	m.Select(1)
	if m.SelectedColumn() != 1 {
		t.Errorf("Select(1) = %d", m.SelectedColumn())
	}
	m.Select(7)
	if m.SelectedColumn() != 1 {
		t.Errorf("Select out of range changed column to %d", m.SelectedColumn())
	}
}

func TestColumnPickerEmpty(t *testing.T) {
	m := NewColumnPickerModel(nil, nil, newTreeTestTheme())
	if m.SelectedColumn() != -1 {
		t.Errorf("SelectedColumn = %d, want -1", m.SelectedColumn())
	}
}

func TestColumnPickerView(t *testing.T) {
	m := NewColumnPickerModel([]string{"Name", "Owner"}, []string{"alpha", "bob"}, newTreeTestTheme())
	m.SetSize(80, 24)
	m.MoveDown()
	view := ansi.Strip(m.View())

	for _, want := range []string{"Edit Cell", "1 Name", "> 2 Owner", "alpha", "bob", "esc: cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCellEditor(t *testing.T) {
	rows := rowmodel.New()
	idx := rows.Add([]string{"v"}, itemmodel.Index{})
	e := NewCellEditor(idx, 0, "Column 1", "v", newTreeTestTheme())
	e.SetWidth(80)

	e.Update(keyMsg("w"))
	if e.Value() != "vw" {
		t.Errorf("Value = %q", e.Value())
	}
	if e.Target() != idx || e.Column() != 0 {
		t.Errorf("target %v column %d", e.Target(), e.Column())
	}
	if !strings.Contains(ansi.Strip(e.View()), "Column 1:") {
		t.Errorf("view = %q", ansi.Strip(e.View()))
	}
}

func TestAddDialog(t *testing.T) {
	rows := rowmodel.New()
	parent := rows.Add([]string{"p"}, itemmodel.Index{})
	d := NewAddDialog([]string{"Name", "Owner"}, parent, "Add Child Row", newTreeTestTheme())
	d.SetSize(80, 24)

	if len(d.Values()) != 2 {
		t.Errorf("expected one value per column, got %d", len(d.Values()))
	}
	if d.Parent() != parent {
		t.Errorf("Parent = %v", d.Parent())
	}
	if d.Done() || d.Aborted() {
		t.Error("fresh dialog must be open")
	}
	view := ansi.Strip(d.View())
	for _, want := range []string{"Add Child Row", "Name", "Owner"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Values is a copy
	d.Values()[0] = "changed"
	if d.Values()[0] != "" {
		t.Error("Values exposes internal slice")
	}
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown(DefaultKeyMap())

	for _, want := range []string{
		"## Navigation",
		"## Editing",
		"| `a` | add row |",
		"| `K` | move up |",
		"| `?` | help |",
		"| `p` | paste as sibling |",
		"## Copy and paste",
		"last sibling of the selected row",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestKeyMapHelp(t *testing.T) {
	k := DefaultKeyMap()
	if len(k.ShortHelp()) == 0 {
		t.Error("ShortHelp is empty")
	}
	seen := map[string]bool{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			for _, key := range b.Keys() {
				if seen[key] {
					t.Errorf("key %q bound twice", key)
				}
				seen[key] = true
			}
		}
	}
}
