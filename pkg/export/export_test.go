package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/rowtree/pkg/rowmodel"
)

func sampleModel() *rowmodel.Model {
	m := rowmodel.New(rowmodel.WithColumns(2), rowmodel.WithHeaders("Name"))
	m.Seed([]rowmodel.SeedRow{
		{Values: []string{"alpha", "1"}, Children: []rowmodel.SeedRow{
			{Values: []string{"beta"}, Children: []rowmodel.SeedRow{
				{Values: []string{"gamma", "3"}},
			}},
		}},
		{Values: []string{"delta | pipe"}},
	})
	return m
}

func TestTake(t *testing.T) {
	snap := Take(sampleModel())

	if got := strings.Join(snap.Headers, ","); got != "Name,Column 2" {
		t.Errorf("Headers = %q", got)
	}
	if len(snap.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(snap.Lines))
	}

	tests := []struct {
		first  string
		depth  int
		parent int
	}{
		{"alpha", 0, -1},
		{"beta", 1, 0},
		{"gamma", 2, 1},
		{"delta | pipe", 0, -1},
	}
	for i, tc := range tests {
		l := snap.Lines[i]
		if l.Values[0] != tc.first || l.Depth != tc.depth || l.Parent != tc.parent {
			t.Errorf("line %d = %+v, want %s depth %d parent %d", i, l, tc.first, tc.depth, tc.parent)
		}
		if len(l.Values) != 2 {
			t.Errorf("line %d has %d values, want 2", i, len(l.Values))
		}
	}
	if snap.MaxDepth() != 2 || snap.TopLevel() != 2 {
		t.Errorf("MaxDepth %d TopLevel %d", snap.MaxDepth(), snap.TopLevel())
	}
}

func TestTakeEmpty(t *testing.T) {
	snap := Take(rowmodel.New())
	if len(snap.Lines) != 0 || snap.MaxDepth() != -1 {
		t.Errorf("empty snapshot = %+v", snap)
	}
}

func TestGenerateMarkdown(t *testing.T) {
	md, err := GenerateMarkdown(Take(sampleModel()), "Rows")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# Rows",
		"- **Rows**: 4",
		"- **Top level**: 2",
		"- **Depth**: 3",
		"| Name | Column 2 |",
		"| &nbsp;&nbsp;&nbsp;&nbsp;gamma | 3 |",
		"| delta \\| pipe |  |",
		"r0 --> r1",
		"r1 --> r2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "r2 --> r3") {
		t.Error("top-level row must not link to the previous row")
	}
}

func TestGenerateMarkdownEmpty(t *testing.T) {
	md, err := GenerateMarkdown(Take(rowmodel.New()), "Empty")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "Empty[No Rows]") {
		t.Errorf("expected placeholder node:\n%s", md)
	}
}

func TestMermaidLabel(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{"a", "", "c"}, "a c"},
		{[]string{`say "hi"`}, "say 'hi'"},
		{[]string{"f(x) [y]"}, "fx y"},
		{[]string{strings.Repeat("x", 40)}, strings.Repeat("x", 27) + "..."},
		{[]string{strings.Repeat("é", 40)}, strings.Repeat("é", 27) + "..."},
		{[]string{strings.Repeat("漢", 20)}, strings.Repeat("漢", 13) + "..."},
	}
	for _, tc := range tests {
		got := mermaidLabel(tc.values)
		if got != tc.want {
			t.Errorf("mermaidLabel(%q) = %q, want %q", tc.values, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("mermaidLabel(%q) produced invalid UTF-8", tc.values)
		}
	}
}

func TestSaveMarkdownToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.md")
	if err := SaveMarkdownToFile(Take(sampleModel()), "Row Tree Export", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Row Tree Export") {
		t.Errorf("unexpected file start: %q", string(data[:min(40, len(data))]))
	}
}

func TestSaveImagesToFile(t *testing.T) {
	dir := t.TempDir()
	snap := Take(sampleModel())

	svgPath := filepath.Join(dir, "rows.svg")
	if err := SaveSVGToFile(snap, svgPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ">alpha<") {
		t.Errorf("svg file missing row text")
	}

	pngPath := filepath.Join(dir, "rows.png")
	if err := SavePNGToFile(snap, pngPath); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("png file does not decode: %v", err)
	}

	if err := SaveSVGToFile(snap, filepath.Join(dir, "missing", "rows.svg")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, Take(sampleModel()), DefaultLayout()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	for _, want := range []string{">alpha<", ">gamma<", ">Name<", "<polyline"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if got := strings.Count(out, "<polyline"); got != 2 {
		t.Errorf("expected 2 connectors, got %d", got)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	snap := Take(sampleModel())
	l := DefaultLayout()
	if err := WritePNG(&buf, snap, l); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	wantW := 2*l.Margin + 2*l.Indent + 2*l.CellWidth
	wantH := 2*l.Margin + 5*l.RowHeight
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestLayoutFit(t *testing.T) {
	l := DefaultLayout()
	if got := l.fit("short", l.CellWidth); got != "short" {
		t.Errorf("fit(short) = %q", got)
	}
	long := strings.Repeat("w", 100)
	got := l.fit(long, l.CellWidth)
	if !strings.HasSuffix(got, "…") || runewidth.StringWidth(got) > (l.CellWidth-8)/l.CharWidth {
		t.Errorf("fit(long) = %q", got)
	}
	if got := l.fit("x", 4); got != "" {
		t.Errorf("fit in tiny cell = %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleModel()); err != nil {
		t.Fatal(err)
	}

	var dump JSONDump
	if err := json.Unmarshal(buf.Bytes(), &dump); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(dump.Rows) != 2 {
		t.Fatalf("expected 2 top-level rows, got %d", len(dump.Rows))
	}
	gamma := dump.Rows[0].Children[0].Children[0]
	if gamma.Values[0] != "gamma" || gamma.Values[1] != "3" {
		t.Errorf("nested row = %+v", gamma)
	}
	if dump.Rows[1].Children != nil {
		t.Error("leaf rows must omit children")
	}
}

func TestBuildJSONDumpEmpty(t *testing.T) {
	dump := BuildJSONDump(rowmodel.New())
	if dump.Rows == nil || len(dump.Rows) != 0 {
		t.Errorf("Rows = %#v, want empty non-nil", dump.Rows)
	}
}
