package roster

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-cousins/internal/config"
)

// Watcher reloads a Store whenever its data file changes on disk.
type Watcher struct {
	store    *Store
	debounce time.Duration
}

// NewWatcher creates a watcher for the store's backing file.
func NewWatcher(store *Store) *Watcher {
	return &Watcher{store: store, debounce: config.WatchDebounce}
}

// Run blocks until ctx is cancelled. The parent directory is watched so
// editors that save by rename are still seen. A failed reload is logged and
// the previous roster is kept.
func (w *Watcher) Run(ctx context.Context) error {
	target := filepath.Clean(w.store.Path())

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}

	slog.Info(config.MsgWatchStart,
		config.LogKeyComponent, config.CompWatcher,
		config.LogKeyFile, target)

	// Stopped until the first relevant event arrives.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info(config.MsgWatchStop, config.LogKeyComponent, config.CompWatcher)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn(config.ErrWatcher,
				config.LogKeyComponent, config.CompWatcher,
				config.LogKeyError, err)

		case <-timer.C:
			w.reload(target)
		}
	}
}

func (w *Watcher) reload(target string) {
	slog.Info(config.MsgWatchReload,
		config.LogKeyComponent, config.CompWatcher,
		config.LogKeyFile, target)

	if err := w.store.Load(); err != nil {
		slog.Warn(config.MsgWatchReloadFailed,
			config.LogKeyComponent, config.CompWatcher,
			config.LogKeyFile, target,
			config.LogKeyError, err)
	}
}
