package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// ClipboardResultMsg is returned after a clipboard write completes.
type ClipboardResultMsg struct {
	Text  string
	Error error
}

// clipboardWriter is swapped out in tests.
var clipboardWriter = clipboard.WriteAll

// copyToClipboardCmd writes text to the system clipboard off the update loop.
func copyToClipboardCmd(text string) tea.Cmd {
	write := clipboardWriter
	return func() tea.Msg {
		if err := write(text); err != nil {
			return ClipboardResultMsg{Text: text, Error: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return ClipboardResultMsg{Text: text}
	}
}
