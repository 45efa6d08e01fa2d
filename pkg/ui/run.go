package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/rowtree/pkg/config"
	"github.com/vanderheijden86/rowtree/pkg/rowmodel"
)

// Run starts the terminal UI for rows and blocks until the user quits or
// ctx is cancelled. When cfg came from a file, edits to that file are
// picked up while the program runs.
func Run(ctx context.Context, cfg *config.Config, rows *rowmodel.Model) error {
	// anything logged to the terminal would corrupt the screen
	if path := cfg.LogPath(); path != "" {
		f, err := tea.LogToFile(path, "rowtree")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(rows, cfg, DefaultTheme(lipgloss.DefaultRenderer()))
	defer m.Tree().Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// quitting the program stops the watcher
		defer cancel()
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	if cfg.Path != "" {
		w := config.NewWatcher(cfg.Path,
			func(c *config.Config) { p.Send(ConfigReloadedMsg{Config: c}) },
			func(err error) { p.Send(ConfigErrorMsg{Err: err}) },
		)
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				log.Printf("warning: config watcher disabled: %v", err)
			}
			return nil
		})
	}

	return g.Wait()
}
