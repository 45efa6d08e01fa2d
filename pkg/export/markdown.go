package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// GenerateMarkdown creates a markdown report of every row in the snapshot
func GenerateMarkdown(snap Snapshot, title string) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Rows**: %d\n", len(snap.Lines)))
	sb.WriteString(fmt.Sprintf("- **Top level**: %d\n", snap.TopLevel()))
	sb.WriteString(fmt.Sprintf("- **Depth**: %d\n\n", snap.MaxDepth()+1))

	// Rows table; indentation shows nesting.
	sb.WriteString("## Rows\n\n")
	sb.WriteString("| " + strings.Join(escapeCells(snap.Headers), " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(snap.Headers)) + "\n")
	for _, l := range snap.Lines {
		cells := escapeCells(l.Values)
		if len(cells) > 0 {
			cells[0] = strings.Repeat("&nbsp;&nbsp;", l.Depth) + cells[0]
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString("\n---\n\n")

	// Structure (Mermaid)
	sb.WriteString("## Structure\n\n")
	sb.WriteString("```mermaid\ngraph TD\n")
	for i, l := range snap.Lines {
		sb.WriteString(fmt.Sprintf("    r%d[\"%s\"]\n", i, mermaidLabel(l.Values)))
		if l.Parent >= 0 {
			sb.WriteString(fmt.Sprintf("    r%d --> r%d\n", l.Parent, i))
		}
	}
	if len(snap.Lines) == 0 {
		sb.WriteString("    Empty[No Rows]\n")
	}
	sb.WriteString("```\n")

	return sb.String(), nil
}

func escapeCells(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, "|", "\\|")
		out[i] = strings.ReplaceAll(v, "\n", " ")
	}
	return out
}

// mermaidLabel joins the non-empty values of a row into a safe node label.
func mermaidLabel(values []string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	label := strings.Join(parts, " ")
	label = strings.ReplaceAll(label, "\"", "'")
	label = strings.NewReplacer("[", "", "]", "", "(", "", ")", "").Replace(label)
	return runewidth.Truncate(label, 30, "...")
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(snap Snapshot, title, filename string) error {
	content, err := GenerateMarkdown(snap, title)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}
