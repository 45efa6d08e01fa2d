package export

import "github.com/mattn/go-runewidth"

// Layout sizes the drawn table used by the SVG and PNG exports. Sizes are in
// pixels.
type Layout struct {
	CellWidth int
	RowHeight int
	Indent    int
	Margin    int
	// CharWidth is the advance of one monospace column, used to truncate cell
	// text to the cell width.
	CharWidth int
}

// DefaultLayout fits the 7x13 bitmap font used by the PNG export.
func DefaultLayout() Layout {
	return Layout{
		CellWidth: 140,
		RowHeight: 22,
		Indent:    16,
		Margin:    12,
		CharWidth: 7,
	}
}

type placedCell struct {
	x, y int
	text string
}

type placedRow struct {
	// x, y is the top-left of the first cell.
	x, y  int
	cells []placedCell
	// connector from the parent's marker to this row, when nested
	hasLink        bool
	linkX, linkTop int
}

type placement struct {
	width, height int
	header        []placedCell
	rows          []placedRow
}

func (l Layout) place(snap Snapshot) placement {
	cols := len(snap.Headers)
	depth := max(snap.MaxDepth(), 0)
	p := placement{
		width:  2*l.Margin + depth*l.Indent + cols*l.CellWidth,
		height: 2*l.Margin + (len(snap.Lines)+1)*l.RowHeight,
	}

	for c, h := range snap.Headers {
		p.header = append(p.header, placedCell{
			x:    l.Margin + c*l.CellWidth + depth*l.Indent,
			y:    l.Margin,
			text: l.fit(h, l.CellWidth),
		})
	}

	for i, line := range snap.Lines {
		y := l.Margin + (i+1)*l.RowHeight
		x := l.Margin + line.Depth*l.Indent
		row := placedRow{x: x, y: y}
		for c := 0; c < cols; c++ {
			v := ""
			if c < len(line.Values) {
				v = line.Values[c]
			}
			width := l.CellWidth
			cx := l.Margin + c*l.CellWidth + depth*l.Indent
			if c == 0 {
				// The first column absorbs the indentation.
				cx = x
				width += (depth - line.Depth) * l.Indent
			}
			row.cells = append(row.cells, placedCell{x: cx, y: y, text: l.fit(v, width)})
		}
		if line.Parent >= 0 {
			row.hasLink = true
			row.linkX = l.Margin + snap.Lines[line.Parent].Depth*l.Indent + l.Indent/2
			row.linkTop = l.Margin + (line.Parent+1)*l.RowHeight + l.RowHeight
		}
		p.rows = append(p.rows, row)
	}
	return p
}

// fit truncates s to the number of monospace columns that fit in width
// pixels, leaving room for padding.
func (l Layout) fit(s string, width int) string {
	if l.CharWidth <= 0 {
		return s
	}
	cols := (width - 8) / l.CharWidth
	if cols <= 0 {
		return ""
	}
	return runewidth.Truncate(s, cols, "…")
}
