// Package watch signals when a knowledge base file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to one file. It watches the parent directory so
// that atomic replace-by-rename saves are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *zap.Logger
}

// New starts watching path. A debounce <= 0 uses DefaultDebounce and a nil
// logger discards diagnostics.
func New(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, fsw: fsw, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange once per debounced burst of changes until ctx is done
// or onChange fails. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	defer w.fsw.Close()

	g, ctx := errgroup.WithContext(ctx)
	changes := make(chan struct{}, 1)

	g.Go(func() error {
		return w.pump(ctx, changes)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changes:
				if err := onChange(); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

// pump turns raw filesystem events for the watched file into debounced
// signals on changes. Pending signals are coalesced.
func (w *Watcher) pump(ctx context.Context, changes chan<- struct{}) error {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			// Keep watching; a missed event only delays the next reload.
			w.logger.Warn("watch error", zap.Error(err))

		case <-timerC:
			timerC = nil
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}
}
