package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"
)

const (
	svgTextStyle   = "font-family:monospace;font-size:12px;fill:#222"
	svgHeaderStyle = "font-family:monospace;font-size:12px;font-weight:bold;fill:#fff"
	svgLinkStyle   = "stroke:#999;stroke-width:1;fill:none"
)

// WriteSVG draws the snapshot as an indented table with connector lines.
func WriteSVG(w io.Writer, snap Snapshot, l Layout) error {
	p := l.place(snap)
	canvas := svg.New(w)
	canvas.Start(p.width, p.height)
	canvas.Rect(0, 0, p.width, p.height, "fill:#fff")

	canvas.Rect(l.Margin, l.Margin, p.width-2*l.Margin, l.RowHeight, "fill:#44475a")
	for _, h := range p.header {
		canvas.Text(h.x+4, h.y+l.RowHeight-7, h.text, svgHeaderStyle)
	}

	for i, row := range p.rows {
		if i%2 == 1 {
			canvas.Rect(l.Margin, row.y, p.width-2*l.Margin, l.RowHeight, "fill:#f4f4f8")
		}
		if row.hasLink {
			mid := row.y + l.RowHeight/2
			canvas.Polyline([]int{row.linkX, row.linkX, row.x}, []int{row.linkTop, mid, mid}, svgLinkStyle)
		}
		for _, c := range row.cells {
			canvas.Text(c.x+4, c.y+l.RowHeight-7, c.text, svgTextStyle)
		}
	}
	canvas.End()
	return nil
}

// SaveSVGToFile writes the SVG rendering of the snapshot to filename.
func SaveSVGToFile(snap Snapshot, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := WriteSVG(f, snap, DefaultLayout()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
