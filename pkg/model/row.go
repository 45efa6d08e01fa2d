package model

import "strings"

// Row represents one record of a columnar tree: an ordered list of column
// values. Columns beyond the stored values read as empty strings.
type Row struct {
	values []string
}

// NewRow creates a row holding a copy of values.
func NewRow(values ...string) Row {
	return Row{values: append([]string(nil), values...)}
}

// Value returns the value stored in column, or "" when column is outside the
// stored values.
func (r Row) Value(column int) string {
	if column < 0 || column >= len(r.values) {
		return ""
	}
	return r.values[column]
}

// SetValue stores value in column, padding with empty strings up to column
// if the row is shorter. Negative columns are ignored.
func (r *Row) SetValue(column int, value string) {
	if column < 0 {
		return
	}
	for len(r.values) <= column {
		r.values = append(r.values, "")
	}
	r.values[column] = value
}

// Values returns a copy of the stored values.
func (r Row) Values() []string {
	return append([]string(nil), r.values...)
}

// SetValues replaces all stored values with a copy of values.
func (r *Row) SetValues(values []string) {
	r.values = append([]string(nil), values...)
}

// Len returns the number of stored values.
func (r Row) Len() int {
	return len(r.values)
}

// String joins all column values with a single space.
func (r Row) String() string {
	return strings.Join(r.values, " ")
}

// Clone creates a deep copy of the row
func (r Row) Clone() Row {
	return NewRow(r.values...)
}
