package rowmodel

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
	"pgregory.net/rapid"
)

var top = itemmodel.Index{}

func topValues(m *Model) []string {
	var out []string
	for row := 0; row < m.RowCount(top); row++ {
		out = append(out, m.CellValue(m.Index(row, 0, top), 0))
	}
	return out
}

// TestAddToEmptyModel verifies adding one row at the top level.
func TestAddToEmptyModel(t *testing.T) {
	m := New()
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	idx := m.Add([]string{"a", "b", "c"}, top)

	if !idx.IsValid() {
		t.Fatal("Add returned an invalid index")
	}
	if got := m.RowCount(top); got != 1 {
		t.Errorf("RowCount = %d, want 1", got)
	}
	if got := m.CellValue(idx, 0); got != "a" {
		t.Errorf("CellValue(0) = %q, want a", got)
	}
	want := []string{"begin insert (invalid) [0,0]", "end insert (invalid) [0,0]"}
	if got := rec.Strings(); !slices.Equal(got, want) {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestAddChildNotifiesUnderParent(t *testing.T) {
	m := New()
	parent := m.Add([]string{"p"}, top)
	m.Add([]string{"c1"}, parent)

	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)
	child := m.Add([]string{"c2"}, parent)

	if child.Row() != 1 {
		t.Errorf("child row = %d, want 1", child.Row())
	}
	if m.Parent(child).Node() != parent.Node() {
		t.Errorf("Parent(child) = %v, want %v", m.Parent(child), parent)
	}
	if len(rec.Events) != 2 {
		t.Fatalf("got %d events", len(rec.Events))
	}
	begin := rec.Events[0]
	if begin.Parent.Node() != parent.Node() || begin.First != 1 || begin.Last != 1 {
		t.Errorf("begin = %v", begin)
	}
}

func TestAddUnderStaleParent(t *testing.T) {
	m := New()
	parent := m.Add([]string{"p"}, top)
	m.Remove(parent)

	if idx := m.Add([]string{"x"}, parent); idx.IsValid() {
		t.Errorf("Add under removed parent = %v, want invalid", idx)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

// TestMoveDownFirstOfThree verifies X, Y, Z becomes Y, X, Z.
func TestMoveDownFirstOfThree(t *testing.T) {
	m := New()
	x := m.Add([]string{"X"}, top)
	m.Add([]string{"Y"}, top)
	m.Add([]string{"Z"}, top)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	if !m.MoveDown(x) {
		t.Fatal("MoveDown reported no change")
	}
	if got := topValues(m); !slices.Equal(got, []string{"Y", "X", "Z"}) {
		t.Errorf("order = %q", got)
	}
	want := []string{
		"begin move (invalid) [0,0] -> (invalid)@2",
		"end move (invalid) [0,0] -> (invalid)@2",
	}
	if got := rec.Strings(); !slices.Equal(got, want) {
		t.Errorf("events = %q, want %q", got, want)
	}
}

// TestRowValuesFollowsMovedRow verifies that an index taken before a move
// still reads its own row.
func TestRowValuesFollowsMovedRow(t *testing.T) {
	m := New()
	x := m.Add([]string{"X", "x2"}, top)
	m.Add([]string{"Y"}, top)

	if !m.MoveDown(x) {
		t.Fatal("MoveDown reported no change")
	}
	if got := itemmodel.RowValues(m, x); !slices.Equal(got, []string{"X", "x2", ""}) {
		t.Errorf("RowValues = %q", got)
	}
	if got := m.CellValue(x, 0); got != "X" {
		t.Errorf("CellValue = %q", got)
	}
}

func TestMoveUp(t *testing.T) {
	m := New()
	m.Add([]string{"X"}, top)
	m.Add([]string{"Y"}, top)
	z := m.Add([]string{"Z"}, top)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	if !m.MoveUp(z) {
		t.Fatal("MoveUp reported no change")
	}
	if got := topValues(m); !slices.Equal(got, []string{"X", "Z", "Y"}) {
		t.Errorf("order = %q", got)
	}
	if e := rec.Events[0]; e.First != 2 || e.DestRow != 1 {
		t.Errorf("begin = %v", e)
	}
}

func TestMoveNoOps(t *testing.T) {
	m := New()
	first := m.Add([]string{"X"}, top)
	last := m.Add([]string{"Y"}, top)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	tests := []struct {
		name string
		move func() bool
	}{
		{"up from first row", func() bool { return m.MoveUp(first) }},
		{"down from last row", func() bool { return m.MoveDown(last) }},
		{"up on root", func() bool { return m.MoveUp(top) }},
		{"down on root", func() bool { return m.MoveDown(top) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.move() {
				t.Error("expected no-op")
			}
		})
	}
	if len(rec.Events) != 0 {
		t.Errorf("no-op moves emitted %q", rec.Strings())
	}
	if got := topValues(m); !slices.Equal(got, []string{"X", "Y"}) {
		t.Errorf("order = %q", got)
	}
}

// TestRemoveRootIsNoOp verifies that the top level cannot be removed.
func TestRemoveRootIsNoOp(t *testing.T) {
	m := New()
	m.Add([]string{"a"}, top)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	if m.Remove(top) {
		t.Error("Remove(root) reported a change")
	}
	if m.RowCount(top) != 1 {
		t.Errorf("RowCount = %d, want 1", m.RowCount(top))
	}
	if len(rec.Events) != 0 {
		t.Errorf("events = %q", rec.Strings())
	}
}

func TestRemoveCascades(t *testing.T) {
	m := New()
	m.Add([]string{"a"}, top)
	b := m.Add([]string{"b"}, top)
	c := m.Add([]string{"c"}, b)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	if !m.Remove(b) {
		t.Fatal("Remove reported no change")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
	if m.CellValue(c, 0) != "" || m.Flags(c) != itemmodel.NoFlags {
		t.Error("descendant of removed row still resolves")
	}
	want := []string{"begin remove (invalid) [1,1]", "end remove (invalid) [1,1]"}
	if got := rec.Strings(); !slices.Equal(got, want) {
		t.Errorf("events = %q, want %q", got, want)
	}
	if m.Remove(b) {
		t.Error("second Remove of the same row reported a change")
	}
}

func TestParentOfTopLevelRow(t *testing.T) {
	m := New()
	idx := m.Add([]string{"a"}, top)
	if p := m.Parent(idx); p.IsValid() {
		t.Errorf("Parent(top-level row) = %v, want invalid", p)
	}
}

func TestSetCellValuePadsAndNotifies(t *testing.T) {
	m := New()
	idx := m.Add([]string{"a"}, top)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	if !m.SetCellValue(idx, 5, "far") {
		t.Fatal("SetCellValue failed")
	}
	if got := m.Values(idx); !slices.Equal(got, []string{"a", "", "", "", "", "far"}) {
		t.Errorf("Values = %q", got)
	}
	if len(rec.Events) != 1 {
		t.Fatalf("events = %q", rec.Strings())
	}
	e := rec.Events[0]
	if e.Kind != itemmodel.DataChanged || e.TopLeft.Column() != 5 || e.TopLeft != e.BottomRight {
		t.Errorf("event = %v", e)
	}

	if m.SetCellValue(idx, -1, "x") {
		t.Error("negative column must be rejected")
	}
	if m.SetCellValue(top, 0, "x") {
		t.Error("root must not be writable")
	}
}

func TestDataAndSetData(t *testing.T) {
	m := New()
	m.Add([]string{"a", "b"}, top)

	cell := m.Index(0, 1, top)
	if got, ok := m.Data(cell, itemmodel.DisplayRole); !ok || got != "b" {
		t.Errorf("Data = %q, %v", got, ok)
	}
	if got, ok := m.Data(m.Index(0, 2, top), itemmodel.DisplayRole); !ok || got != "" {
		t.Errorf("Data(unset column) = %q, %v", got, ok)
	}
	if _, ok := m.Data(cell, itemmodel.ToolTipRole); ok {
		t.Error("tooltip role must have no value")
	}

	if m.SetData(cell, "z", itemmodel.DisplayRole) {
		t.Error("SetData must require the edit role")
	}
	if !m.SetData(cell, "z", itemmodel.EditRole) {
		t.Fatal("SetData failed")
	}
	if got := m.CellValue(cell, 1); got != "z" {
		t.Errorf("CellValue = %q", got)
	}
}

func TestHeaderData(t *testing.T) {
	m := New(WithHeaders("Name", ""))

	tests := []struct {
		section     int
		orientation itemmodel.Orientation
		role        itemmodel.Role
		want        string
		ok          bool
	}{
		{0, itemmodel.Horizontal, itemmodel.DisplayRole, "Name", true},
		{1, itemmodel.Horizontal, itemmodel.DisplayRole, "Column 2", true},
		{2, itemmodel.Horizontal, itemmodel.DisplayRole, "Column 3", true},
		{3, itemmodel.Horizontal, itemmodel.DisplayRole, "4", true},
		{0, itemmodel.Vertical, itemmodel.DisplayRole, "1", true},
		{0, itemmodel.Horizontal, itemmodel.EditRole, "", false},
	}
	for _, tt := range tests {
		got, ok := m.HeaderData(tt.section, tt.orientation, tt.role)
		if got != tt.want || ok != tt.ok {
			t.Errorf("HeaderData(%d, %v, %v) = %q, %v; want %q, %v",
				tt.section, tt.orientation, tt.role, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFlags(t *testing.T) {
	m := New()
	idx := m.Add([]string{"a"}, top)

	want := itemmodel.FlagSelectable | itemmodel.FlagEnabled | itemmodel.FlagEditable
	if got := m.Flags(idx); got != want {
		t.Errorf("Flags(valid) = %v, want %v", got, want)
	}
	if got := m.Flags(top); got != itemmodel.NoFlags {
		t.Errorf("Flags(invalid) = %v", got)
	}
}

func TestWithColumns(t *testing.T) {
	if got := New().ColumnCount(); got != DefaultColumns {
		t.Errorf("default ColumnCount = %d", got)
	}
	if got := New(WithColumns(5)).ColumnCount(); got != 5 {
		t.Errorf("ColumnCount = %d, want 5", got)
	}
	if got := New(WithColumns(0)).ColumnCount(); got != DefaultColumns {
		t.Errorf("ColumnCount(0) = %d, want default", got)
	}
}

func TestPasteDeepCopies(t *testing.T) {
	m := New()
	a := m.Add([]string{"a"}, top)
	m.Add([]string{"a1"}, a)
	b := m.Add([]string{"b"}, top)

	copied := m.Paste(a, b)
	if !copied.IsValid() {
		t.Fatal("Paste returned an invalid index")
	}
	if m.Len() != 5 {
		t.Errorf("Len = %d, want 5", m.Len())
	}
	if m.Parent(copied).Node() != b.Node() {
		t.Error("paste did not land under b")
	}
	grandchild := m.Index(0, 0, copied)
	if got := m.CellValue(grandchild, 0); got != "a1" {
		t.Errorf("pasted child = %q", got)
	}

	m.SetCellValue(copied, 0, "changed")
	if m.CellValue(a, 0) != "a" {
		t.Error("editing the copy changed the source")
	}
}

func TestPasteRemovedSourceIsNoOp(t *testing.T) {
	m := New()
	a := m.Add([]string{"a"}, top)
	m.Remove(a)
	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)

	if idx := m.Paste(a, top); idx.IsValid() {
		t.Errorf("Paste(removed) = %v", idx)
	}
	if m.RowCount(top) != 0 || len(rec.Events) != 0 {
		t.Errorf("rows %d events %q", m.RowCount(top), rec.Strings())
	}
}

func TestPasteUnderItself(t *testing.T) {
	m := New()
	a := m.Add([]string{"a"}, top)

	copied := m.Paste(a, a)
	if m.Parent(copied).Node() != a.Node() {
		t.Fatal("copy must be a child of its source")
	}
	if m.RowCount(copied) != 0 {
		t.Errorf("copy has %d children, want 0", m.RowCount(copied))
	}
}

func TestSeedAndClear(t *testing.T) {
	m := New()
	m.Seed([]SeedRow{
		{Values: []string{"test1"}, Children: []SeedRow{
			{Values: []string{"test2"}},
		}},
		{Values: []string{"test3"}},
	})

	if m.Len() != 3 || m.RowCount(top) != 2 {
		t.Fatalf("Len %d, top rows %d", m.Len(), m.RowCount(top))
	}

	rec := &itemmodel.Recorder{}
	m.Subscribe(rec)
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len after Clear = %d", m.Len())
	}
	want := []string{"begin reset", "end reset"}
	if got := rec.Strings(); !slices.Equal(got, want) {
		t.Errorf("events = %q", got)
	}
}

func TestDump(t *testing.T) {
	m := New()
	a := m.Add([]string{"New", "row"}, top)
	m.Add([]string{"child"}, a)

	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("dump has %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "New row") || !strings.HasPrefix(lines[2], "    ") {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}

// TestPropertySetCellRoundTrip verifies a written cell reads back for any
// column.
func TestPropertySetCellRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		idx := m.Add(rapid.SliceOfN(rapid.String(), 0, 4).Draw(t, "values"), top)
		col := rapid.IntRange(0, 20).Draw(t, "column")
		v := rapid.String().Draw(t, "value")

		m.SetCellValue(idx, col, v)
		if got := m.CellValue(idx, col); got != v {
			t.Fatalf("CellValue(%d) = %q, want %q", col, got, v)
		}
	})
}

// TestPropertyMoveUpDownRestores verifies that a successful move followed by
// the opposite move restores the sibling order.
func TestPropertyMoveUpDownRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		n := rapid.IntRange(1, 8).Draw(t, "n")
		var rows []itemmodel.Index
		for i := 0; i < n; i++ {
			rows = append(rows, m.Add([]string{string(rune('a' + i))}, top))
		}
		before := topValues(m)
		target := rapid.SampledFrom(rows).Draw(t, "target")
		up := rapid.Bool().Draw(t, "up")

		if up {
			if m.MoveUp(target) && !m.MoveDown(target) {
				t.Fatal("MoveDown after MoveUp failed")
			}
		} else {
			if m.MoveDown(target) && !m.MoveUp(target) {
				t.Fatal("MoveUp after MoveDown failed")
			}
		}
		if got := topValues(m); !slices.Equal(got, before) {
			t.Fatalf("order %q, want %q", got, before)
		}
	})
}

// TestPropertyBracketsBalanced verifies every structural operation emits one
// Begin followed by one matching End.
func TestPropertyBracketsBalanced(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		rec := &itemmodel.Recorder{}
		m.Subscribe(rec)
		var rows []itemmodel.Index

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			pick := func() itemmodel.Index {
				if len(rows) == 0 {
					return top
				}
				return rapid.SampledFrom(rows).Draw(t, "row")
			}
			rec.Reset()
			changed := true
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				if idx := m.Add([]string{"x"}, pick()); idx.IsValid() {
					rows = append(rows, idx)
				} else {
					changed = false
				}
			case 1:
				changed = m.Remove(pick())
			case 2:
				changed = m.MoveUp(pick())
			case 3:
				changed = m.MoveDown(pick())
			case 4:
				changed = m.Paste(pick(), pick()).IsValid()
			}

			if !changed {
				if len(rec.Events) != 0 {
					t.Fatalf("no-op emitted %q", rec.Strings())
				}
				continue
			}
			if len(rec.Events) != 2 {
				t.Fatalf("got %q, want one begin/end pair", rec.Strings())
			}
			b, e := rec.Events[0], rec.Events[1]
			if b.Phase != itemmodel.Begin || e.Phase != itemmodel.End || b.Kind != e.Kind {
				t.Fatalf("unbalanced %q", rec.Strings())
			}
		}
	})
}
