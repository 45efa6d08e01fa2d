// Package export renders one-way snapshots of a row tree as markdown, SVG,
// PNG or JSON. Nothing written here is ever read back.
package export

import (
	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
)

// Line is one row of a snapshot in display order.
type Line struct {
	Depth  int
	Values []string
	// Parent is the position of the parent line in Snapshot.Lines, or -1 for
	// top-level rows.
	Parent int
}

// Snapshot is a flattened copy of a model taken through the query protocol.
type Snapshot struct {
	Headers []string
	Lines   []Line
}

// Take copies every row of m.
func Take(m itemmodel.ItemModel) Snapshot {
	snap := Snapshot{Headers: itemmodel.Headers(m)}
	// stack[d] is the line position of the most recent row at depth d.
	var stack []int
	itemmodel.Walk(m, func(idx itemmodel.Index, depth int) bool {
		parent := -1
		if depth > 0 {
			parent = stack[depth-1]
		}
		stack = append(stack[:depth], len(snap.Lines))
		snap.Lines = append(snap.Lines, Line{
			Depth:  depth,
			Values: itemmodel.RowValues(m, idx),
			Parent: parent,
		})
		return true
	})
	return snap
}

// MaxDepth returns the deepest level present, or -1 for an empty snapshot.
func (s Snapshot) MaxDepth() int {
	depth := -1
	for _, l := range s.Lines {
		depth = max(depth, l.Depth)
	}
	return depth
}

// TopLevel returns the number of top-level rows.
func (s Snapshot) TopLevel() int {
	n := 0
	for _, l := range s.Lines {
		if l.Parent < 0 {
			n++
		}
	}
	return n
}
