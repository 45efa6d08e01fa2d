package itemmodel

// Walk visits every row of m in display order using only the query protocol.
// fn receives the column-0 index of each row and its depth, top level being
// 0. Returning false skips the row's children.
func Walk(m ItemModel, fn func(index Index, depth int) bool) {
	walk(m, Index{}, 0, fn)
}

func walk(m ItemModel, parent Index, depth int, fn func(Index, int) bool) {
	for row := 0; row < m.RowCount(parent); row++ {
		idx := m.Index(row, 0, parent)
		if !idx.IsValid() {
			continue
		}
		if fn(idx, depth) {
			walk(m, idx, depth+1, fn)
		}
	}
}

// RowValues returns the display text of every column of the row at index.
func RowValues(m ItemModel, index Index) []string {
	values := make([]string, m.ColumnCount())
	for col := range values {
		values[col], _ = m.Data(index.Sibling(col), DisplayRole)
	}
	return values
}

// Headers returns the horizontal display labels for every column.
func Headers(m ItemModel) []string {
	out := make([]string, m.ColumnCount())
	for col := range out {
		out[col], _ = m.HeaderData(col, Horizontal, DisplayRole)
	}
	return out
}
