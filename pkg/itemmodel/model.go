package itemmodel

import "strings"

// Role selects which representation of a cell is requested.
type Role int

const (
	DisplayRole Role = iota
	EditRole
	ToolTipRole
)

func (r Role) String() string {
	switch r {
	case DisplayRole:
		return "display"
	case EditRole:
		return "edit"
	case ToolTipRole:
		return "tooltip"
	default:
		return "unknown"
	}
}

// Orientation of a header section.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ItemFlags describe what a view may do with a cell.
type ItemFlags uint8

const (
	FlagSelectable ItemFlags = 1 << iota
	FlagEditable
	FlagEnabled

	NoFlags ItemFlags = 0
)

// Has reports whether all bits of f are set.
func (fl ItemFlags) Has(f ItemFlags) bool {
	return fl&f == f
}

func (fl ItemFlags) String() string {
	if fl == NoFlags {
		return "none"
	}
	var parts []string
	if fl.Has(FlagSelectable) {
		parts = append(parts, "selectable")
	}
	if fl.Has(FlagEditable) {
		parts = append(parts, "editable")
	}
	if fl.Has(FlagEnabled) {
		parts = append(parts, "enabled")
	}
	return strings.Join(parts, "|")
}

// ItemModel is the query protocol a tree view uses to walk and edit a data
// source. An invalid parent Index always means the top level.
type ItemModel interface {
	// Index returns the index of the row-th child of parent, or an invalid
	// Index when no such cell exists.
	Index(row, column int, parent Index) Index
	// Parent returns the index of child's parent, or an invalid Index for
	// top-level rows.
	Parent(child Index) Index
	RowCount(parent Index) int
	ColumnCount() int

	Data(index Index, role Role) (string, bool)
	SetData(index Index, value string, role Role) bool
	HeaderData(section int, orientation Orientation, role Role) (string, bool)
	Flags(index Index) ItemFlags

	// Subscribe registers an observer of change notifications and returns a
	// function that removes it again.
	Subscribe(o Observer) (unsubscribe func())
}
