package itemmodel

import (
	"strconv"

	"github.com/vanderheijden86/rowtree/pkg/tree"
)

// Base implements the structural half of ItemModel over a tree.Tree with a
// hidden root node. Concrete models embed a *Base and add Data, SetData and
// their own mutation operations, bracketing every structural change with
// InsertRows, RemoveRows, MoveRows or ResetModel.
type Base[T any] struct {
	tree    *tree.Tree[T]
	root    tree.NodeID
	columns int

	obs      observers
	changing bool
}

// NewBase creates a Base with its own tree. The root node holds the zero T
// and is never addressable through an Index.
func NewBase[T any](columns int, opts ...tree.Option[T]) *Base[T] {
	if columns < 1 {
		columns = 1
	}
	t := tree.New(opts...)
	var zero T
	root, _ := t.Create(zero, tree.NodeID{})
	return &Base[T]{tree: t, root: root, columns: columns}
}

// Tree returns the underlying tree. Structural edits made directly on it
// must happen inside a change bracket.
func (b *Base[T]) Tree() *tree.Tree[T] { return b.tree }

// Root returns the hidden root node.
func (b *Base[T]) Root() tree.NodeID { return b.root }

// ColumnCount returns the column count fixed at construction.
func (b *Base[T]) ColumnCount() int { return b.columns }

// Resolve returns the node a parent Index refers to: the root for an invalid
// Index, the node for a live one, and the zero NodeID for a stale one.
func (b *Base[T]) Resolve(parent Index) tree.NodeID {
	if !parent.IsValid() {
		return b.root
	}
	if !b.tree.Contains(parent.node) {
		return tree.NodeID{}
	}
	return parent.node
}

// NodeOf returns the node of a valid, live index.
func (b *Base[T]) NodeOf(index Index) (tree.NodeID, bool) {
	if !index.IsValid() || !b.tree.Contains(index.node) {
		return tree.NodeID{}, false
	}
	return index.node, true
}

// IndexOf builds an index for node at column, using the node's current row.
// The root and nodes outside the model yield an invalid Index.
func (b *Base[T]) IndexOf(node tree.NodeID, column int) Index {
	if node == b.root || !b.tree.Contains(node) || !b.tree.IsAncestor(b.root, node) {
		return Index{}
	}
	return Index{row: b.tree.Row(node), column: column, node: node}
}

// HasIndex reports whether row and column address an existing cell under
// parent.
func (b *Base[T]) HasIndex(row, column int, parent Index) bool {
	if row < 0 || column < 0 || column >= b.columns {
		return false
	}
	return row < b.RowCount(parent)
}

// Index returns the index of the row-th child of parent.
func (b *Base[T]) Index(row, column int, parent Index) Index {
	if !b.HasIndex(row, column, parent) {
		return Index{}
	}
	child := b.tree.Child(b.Resolve(parent), row)
	if child.IsZero() {
		return Index{}
	}
	return Index{row: row, column: column, node: child}
}

// Parent returns the index of child's parent at column 0. Top-level rows and
// stale indexes have an invalid parent.
func (b *Base[T]) Parent(child Index) Index {
	node, ok := b.NodeOf(child)
	if !ok {
		return Index{}
	}
	p := b.tree.Parent(node)
	if p.IsZero() || p == b.root {
		return Index{}
	}
	return Index{row: b.tree.Row(p), column: 0, node: p}
}

// RowCount returns the number of children under parent. Only column 0 has
// children.
func (b *Base[T]) RowCount(parent Index) int {
	if parent.IsValid() && parent.column != 0 {
		return 0
	}
	node := b.Resolve(parent)
	if node.IsZero() {
		return 0
	}
	return b.tree.ChildCount(node)
}

// HeaderData labels every section with its 1-based number for display.
func (b *Base[T]) HeaderData(section int, _ Orientation, role Role) (string, bool) {
	if role != DisplayRole || section < 0 {
		return "", false
	}
	return strconv.Itoa(section + 1), true
}

// Flags reports live cells as selectable and enabled.
func (b *Base[T]) Flags(index Index) ItemFlags {
	if _, ok := b.NodeOf(index); !ok {
		return NoFlags
	}
	return FlagSelectable | FlagEnabled
}

// Subscribe registers o for change notifications.
func (b *Base[T]) Subscribe(o Observer) func() {
	return b.obs.add(o)
}

// InsertRows announces that rows first..last will be inserted under parent,
// runs mutate, and announces completion.
func (b *Base[T]) InsertRows(parent Index, first, last int, mutate func()) {
	b.bracket(Event{Kind: RowsInserted, Parent: parent, First: first, Last: last}, mutate)
}

// RemoveRows brackets the removal of rows first..last under parent.
func (b *Base[T]) RemoveRows(parent Index, first, last int, mutate func()) {
	b.bracket(Event{Kind: RowsRemoved, Parent: parent, First: first, Last: last}, mutate)
}

// MoveRows brackets moving rows first..last of srcParent in front of dstRow
// of dstParent. dstRow is counted before the move, so moving a row one place
// down uses row+2.
func (b *Base[T]) MoveRows(srcParent Index, first, last int, dstParent Index, dstRow int, mutate func()) {
	b.bracket(Event{
		Kind:       RowsMoved,
		Parent:     srcParent,
		First:      first,
		Last:       last,
		DestParent: dstParent,
		DestRow:    dstRow,
	}, mutate)
}

// ResetModel brackets a change that invalidates every index.
func (b *Base[T]) ResetModel(mutate func()) {
	b.bracket(Event{Kind: ModelReset}, mutate)
}

// EmitDataChanged announces that the cells between topLeft and bottomRight
// changed value.
func (b *Base[T]) EmitDataChanged(topLeft, bottomRight Index) {
	b.obs.emit(Event{Kind: DataChanged, Phase: End, TopLeft: topLeft, BottomRight: bottomRight})
}

func (b *Base[T]) bracket(e Event, mutate func()) {
	if b.changing {
		panic("itemmodel: " + e.Kind.String() + " started inside another structural change")
	}
	b.changing = true
	defer func() { b.changing = false }()

	e.Phase = Begin
	b.obs.emit(e)
	mutate()
	e.Phase = End
	b.obs.emit(e)
}
