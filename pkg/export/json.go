package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
)

// JSONRow is one row of a JSON dump.
type JSONRow struct {
	Values   []string  `json:"values"`
	Children []JSONRow `json:"children,omitempty"`
}

// JSONDump is the document written by WriteJSON.
type JSONDump struct {
	Headers []string  `json:"headers"`
	Rows    []JSONRow `json:"rows"`
}

// BuildJSONDump nests every row of m under its parent.
func BuildJSONDump(m itemmodel.ItemModel) JSONDump {
	return JSONDump{
		Headers: itemmodel.Headers(m),
		Rows:    jsonRows(m, itemmodel.Index{}),
	}
}

func jsonRows(m itemmodel.ItemModel, parent itemmodel.Index) []JSONRow {
	rows := make([]JSONRow, 0, m.RowCount(parent))
	for r := 0; r < m.RowCount(parent); r++ {
		idx := m.Index(r, 0, parent)
		row := JSONRow{Values: itemmodel.RowValues(m, idx)}
		if m.RowCount(idx) > 0 {
			row.Children = jsonRows(m, idx)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteJSON writes an indented JSON dump of m for diagnostics.
func WriteJSON(w io.Writer, m itemmodel.ItemModel) error {
	data, err := json.MarshalIndent(BuildJSONDump(m), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dump: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	return nil
}
