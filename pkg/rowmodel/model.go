// Package rowmodel implements an editable tree of rows with a fixed number of
// string columns, exposed through the itemmodel protocol.
package rowmodel

import (
	"fmt"
	"io"
	"log"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
	"github.com/vanderheijden86/rowtree/pkg/model"
	"github.com/vanderheijden86/rowtree/pkg/tree"
)

// DefaultColumns is the column count used when none is configured.
const DefaultColumns = 3

// Model is a tree of model.Row values. All methods must be called from a
// single goroutine.
type Model struct {
	*itemmodel.Base[model.Row]

	headers []string
}

var _ itemmodel.ItemModel = (*Model)(nil)

// Option configures a Model.
type Option func(*settings)

type settings struct {
	columns int
	headers []string
}

// WithColumns sets the number of columns.
func WithColumns(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.columns = n
		}
	}
}

// WithHeaders sets custom header labels. Empty labels and columns without a
// label fall back to "Column N".
func WithHeaders(labels ...string) Option {
	return func(s *settings) {
		s.headers = append([]string(nil), labels...)
	}
}

// New creates an empty model.
func New(opts ...Option) *Model {
	s := settings{columns: DefaultColumns}
	for _, opt := range opts {
		opt(&s)
	}
	return &Model{
		Base:    itemmodel.NewBase(s.columns, tree.WithCloneFunc(model.Row.Clone)),
		headers: s.headers,
	}
}

// Add appends a new row holding values as the last child of the row at
// parent, or at the top level when parent is invalid. It returns the index of
// the new row, or an invalid Index when parent is stale.
func (m *Model) Add(values []string, parent itemmodel.Index) itemmodel.Index {
	target := m.Resolve(parent)
	if target.IsZero() {
		return itemmodel.Index{}
	}
	t := m.Tree()
	row := t.ChildCount(target)

	var id tree.NodeID
	m.InsertRows(m.IndexOf(target, 0), row, row, func() {
		var err error
		id, err = t.Create(model.NewRow(values...), target)
		if err != nil {
			log.Printf("warning: add row: %v", err)
		}
	})
	return m.IndexOf(id, 0)
}

// Remove destroys the row at index and its descendants. It reports false
// when index is invalid or stale.
func (m *Model) Remove(index itemmodel.Index) bool {
	node, ok := m.NodeOf(index)
	if !ok {
		return false
	}
	t := m.Tree()
	row := t.Row(node)
	m.RemoveRows(m.parentOf(node), row, row, func() {
		if err := t.Destroy(node); err != nil {
			log.Printf("warning: remove row: %v", err)
		}
	})
	return true
}

// MoveUp swaps the row at index with its previous sibling. It reports false
// when there is nothing to move.
func (m *Model) MoveUp(index itemmodel.Index) bool {
	node, ok := m.NodeOf(index)
	if !ok {
		return false
	}
	row := m.Tree().Row(node)
	if row == 0 {
		return false
	}
	return m.move(node, row, row-1, row-1)
}

// MoveDown swaps the row at index with its next sibling. It reports false
// when the row is already last.
func (m *Model) MoveDown(index itemmodel.Index) bool {
	node, ok := m.NodeOf(index)
	if !ok {
		return false
	}
	t := m.Tree()
	row := t.Row(node)
	if row >= t.ChildCount(t.Parent(node))-1 {
		return false
	}
	return m.move(node, row, row+1, row+2)
}

func (m *Model) move(node tree.NodeID, from, to, destRow int) bool {
	parent := m.parentOf(node)
	moved := false
	m.MoveRows(parent, from, from, parent, destRow, func() {
		if err := m.Tree().SetRow(node, to); err != nil {
			log.Printf("warning: move row %d to %d: %v", from, to, err)
			return
		}
		moved = true
	})
	return moved
}

// parentOf returns the column-0 index of node's parent, invalid for top-level
// rows.
func (m *Model) parentOf(node tree.NodeID) itemmodel.Index {
	return m.IndexOf(m.Tree().Parent(node), 0)
}

// CellValue returns the value of column in the row at index. Columns past
// the row's stored values read as "".
func (m *Model) CellValue(index itemmodel.Index, column int) string {
	node, ok := m.NodeOf(index)
	if !ok {
		return ""
	}
	row, _ := m.Tree().Value(node)
	return row.Value(column)
}

// SetCellValue stores value in column of the row at index and announces the
// change. Any column >= 0 is accepted; the row is padded as needed.
func (m *Model) SetCellValue(index itemmodel.Index, column int, value string) bool {
	node, ok := m.NodeOf(index)
	if !ok || column < 0 {
		return false
	}
	if err := m.Tree().Update(node, func(r *model.Row) { r.SetValue(column, value) }); err != nil {
		return false
	}
	cell := m.IndexOf(node, column)
	m.EmitDataChanged(cell, cell)
	return true
}

// Values returns a copy of all stored values of the row at index.
func (m *Model) Values(index itemmodel.Index) []string {
	node, ok := m.NodeOf(index)
	if !ok {
		return nil
	}
	row, _ := m.Tree().Value(node)
	return row.Values()
}

// Data returns the cell text for display and edit roles.
func (m *Model) Data(index itemmodel.Index, role itemmodel.Role) (string, bool) {
	if role != itemmodel.DisplayRole && role != itemmodel.EditRole {
		return "", false
	}
	if _, ok := m.NodeOf(index); !ok {
		return "", false
	}
	return m.CellValue(index, index.Column()), true
}

// SetData writes value into the cell at index for the edit role.
func (m *Model) SetData(index itemmodel.Index, value string, role itemmodel.Role) bool {
	if role != itemmodel.EditRole {
		return false
	}
	return m.SetCellValue(index, index.Column(), value)
}

// HeaderData labels horizontal display sections "Column N" or with the
// configured label.
func (m *Model) HeaderData(section int, orientation itemmodel.Orientation, role itemmodel.Role) (string, bool) {
	if orientation != itemmodel.Horizontal || role != itemmodel.DisplayRole ||
		section < 0 || section >= m.ColumnCount() {
		return m.Base.HeaderData(section, orientation, role)
	}
	if section < len(m.headers) && m.headers[section] != "" {
		return m.headers[section], true
	}
	return fmt.Sprintf("Column %d", section+1), true
}

// Flags marks every live cell editable on top of the baseline flags.
func (m *Model) Flags(index itemmodel.Index) itemmodel.ItemFlags {
	flags := m.Base.Flags(index)
	if flags == itemmodel.NoFlags {
		return flags
	}
	return flags | itemmodel.FlagEditable
}

// Paste appends a deep copy of the row at src, children included, under
// parent. A stale or invalid src pastes nothing.
func (m *Model) Paste(src, parent itemmodel.Index) itemmodel.Index {
	node, ok := m.NodeOf(src)
	if !ok {
		return itemmodel.Index{}
	}
	target := m.Resolve(parent)
	if target.IsZero() {
		return itemmodel.Index{}
	}
	t := m.Tree()
	row := t.ChildCount(target)

	var copied tree.NodeID
	m.InsertRows(m.IndexOf(target, 0), row, row, func() {
		var err error
		if copied, err = t.Clone(node); err != nil {
			log.Printf("warning: paste: %v", err)
			return
		}
		if err = t.AppendChild(target, copied); err != nil {
			log.Printf("warning: paste: %v", err)
			_ = t.Destroy(copied)
			copied = tree.NodeID{}
		}
	})
	return m.IndexOf(copied, 0)
}

// SeedRow describes a row and its children for Seed.
type SeedRow struct {
	Values   []string
	Children []SeedRow
}

// Seed appends rows and their children at the top level.
func (m *Model) Seed(rows []SeedRow) {
	for _, s := range rows {
		m.seed(s, itemmodel.Index{})
	}
}

func (m *Model) seed(s SeedRow, parent itemmodel.Index) {
	idx := m.Add(s.Values, parent)
	for _, child := range s.Children {
		m.seed(child, idx)
	}
}

// Clear removes every row.
func (m *Model) Clear() {
	t := m.Tree()
	m.ResetModel(func() {
		for _, child := range t.Children(m.Root()) {
			if err := t.Destroy(child); err != nil {
				log.Printf("warning: clear: %v", err)
			}
		}
	})
}

// Len returns the number of rows at every depth.
func (m *Model) Len() int {
	return m.Tree().Len() - 1
}

// Dump writes a diagnostic description of every row.
func (m *Model) Dump(w io.Writer) error {
	return m.Tree().Dump(w, m.Root())
}
