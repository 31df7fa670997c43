package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
	"github.com/custodia-labs/ideabox/internal/logger"
)

// defaultDebounce collapses the burst of events an editor save produces.
const defaultDebounce = 200 * time.Millisecond

// PromptWatcher reloads a PromptStore when prompt files change on disk.
type PromptWatcher struct {
	store    driven.PromptStore
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *slog.Logger

	// onReload is called after each reload. Used by tests.
	onReload func()

	closeOnce sync.Once
}

// NewPromptWatcher watches dir and calls store.Reload when a .txt file in
// it is written, created, removed or renamed. The directory is created if
// missing.
func NewPromptWatcher(store driven.PromptStore, dir string) (*PromptWatcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &PromptWatcher{
		store:    store,
		dir:      dir,
		debounce: defaultDebounce,
		watcher:  w,
		log:      logger.With("component", "prompt-watcher"),
	}, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *PromptWatcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return w.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debug("prompt changed", slog.String("file", filepath.Base(event.Name)), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.store.Reload()
			w.log.Info("prompts reloaded", slog.String("dir", w.dir))
			if w.onReload != nil {
				w.onReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", slog.Any("err", err))
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *PromptWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".txt" {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
