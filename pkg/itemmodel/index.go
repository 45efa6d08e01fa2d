// Package itemmodel exposes a tree.Tree to views that address nodes by
// (row, column, parent) coordinates instead of node handles.
//
// ItemModel is the query protocol a view walks. Base carries the generic
// half of it (index resolution, parent lookup, row counts, change
// notification) so that a concrete data source only supplies cells, headers
// and flags.
package itemmodel

import (
	"fmt"

	"github.com/vanderheijden86/rowtree/pkg/tree"
)

// Index is an opaque coordinate of a cell: the row of a node within its
// parent, a column, and the node itself. The zero Index is invalid and, when
// passed as a parent, means the hidden root.
type Index struct {
	row    int
	column int
	node   tree.NodeID
}

// IsValid reports whether the index refers to a node. A valid index may still
// be stale if its node has since been removed.
func (i Index) IsValid() bool {
	return !i.node.IsZero()
}

// Row returns the row the index was created for, or -1 when invalid.
func (i Index) Row() int {
	if !i.IsValid() {
		return -1
	}
	return i.row
}

// Column returns the column of the index, or -1 when invalid.
func (i Index) Column() int {
	if !i.IsValid() {
		return -1
	}
	return i.column
}

// Sibling returns the index of another column of the same row. It keeps the
// node handle, so it follows the row after moves.
func (i Index) Sibling(column int) Index {
	if !i.IsValid() {
		return Index{}
	}
	return Index{row: i.row, column: column, node: i.node}
}

// Node returns the node handle carried by the index.
func (i Index) Node() tree.NodeID {
	return i.node
}

func (i Index) String() string {
	if !i.IsValid() {
		return "(invalid)"
	}
	return fmt.Sprintf("(%d,%d %v)", i.row, i.column, i.node)
}
