package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	onLoad   func(*Config)
	onError  func(error)
}

// NewWatcher creates a watcher for path. onLoad receives every successfully
// reloaded config, onError every load failure. Either may be nil.
func NewWatcher(path string, onLoad func(*Config), onError func(error)) *Watcher {
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onLoad:   onLoad,
		onError:  onError,
	}
}

// SetDebounce changes the settle delay.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file itself so that editors replacing the file are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			fire = timer.C
			return
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-fire:
			w.reload(abs)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			schedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("warning: config watcher: %v", err)
		}
	}
}

func (w *Watcher) reload(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Printf("warning: config reload failed: %v", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if w.onLoad != nil {
		w.onLoad(cfg)
	}
}
