package export

import (
	"fmt"
	"io"
	"os"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// WritePNG draws the snapshot like WriteSVG and encodes it as PNG.
func WritePNG(w io.Writer, snap Snapshot, l Layout) error {
	p := l.place(snap)
	dc := gg.NewContext(p.width, p.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	// header band
	dc.SetHexColor("#44475a")
	dc.DrawRectangle(float64(l.Margin), float64(l.Margin), float64(p.width-2*l.Margin), float64(l.RowHeight))
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	for _, h := range p.header {
		dc.DrawString(h.text, float64(h.x+4), float64(h.y+l.RowHeight-7))
	}

	for i, row := range p.rows {
		if i%2 == 1 {
			dc.SetHexColor("#f4f4f8")
			dc.DrawRectangle(float64(l.Margin), float64(row.y), float64(p.width-2*l.Margin), float64(l.RowHeight))
			dc.Fill()
		}
		if row.hasLink {
			mid := float64(row.y + l.RowHeight/2)
			dc.SetHexColor("#999999")
			dc.SetLineWidth(1)
			dc.DrawLine(float64(row.linkX), float64(row.linkTop), float64(row.linkX), mid)
			dc.DrawLine(float64(row.linkX), mid, float64(row.x), mid)
			dc.Stroke()
		}
		dc.SetHexColor("#222222")
		for _, c := range row.cells {
			dc.DrawString(c.text, float64(c.x+4), float64(c.y+l.RowHeight-7))
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNGToFile writes the PNG rendering of the snapshot to filename.
func SavePNGToFile(snap Snapshot, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, snap, DefaultLayout()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
