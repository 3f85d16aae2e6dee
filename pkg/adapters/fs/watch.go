package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notes/pkg/core"
)

const watchDebounce = 50 * time.Millisecond

// Watch reports writes to the slot for key made by other processes.
// Writes performed through this KeyValue are filtered out by content.
// The returned channel is closed when ctx is done.
func (r *KeyValue) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	path, err := r.slotPath(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Dir()); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Dir(), err)
	}

	out := make(chan core.Event, 16)
	w := &watchWorker{
		repo:      r,
		key:       key,
		path:      path,
		watcher:   watcher,
		events:    out,
		debouncer: newDebouncer(watchDebounce),
	}
	r.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.reportError(fmt.Errorf("watcher panic: %w", err))
	}))

	return out, nil
}

type watchWorker struct {
	repo      *KeyValue
	key       string
	path      string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.repo.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Wait for in-flight timers so nothing sends on the closed channel.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.repo.config.Logger.Error("fsnotify error", "error", wErr)
			w.repo.reportError(wErr)
		}
	}
}

func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	if isTempFile(event.Name) || filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.repo.config.Logger.Debug("slot event", "op", event.Op.String(), "key", w.key)

	w.debouncer.trigger(func() {
		data, err := os.ReadFile(w.path)
		if err == nil && w.repo.ownWrite(w.key, data) {
			return
		}
		w.repo.recordExternal()
		w.send(ctx, core.Event{
			Type:      core.EventExternal,
			ID:        w.key,
			Timestamp: time.Now().Unix(),
		})
	})
}

func (w *watchWorker) send(ctx context.Context, e core.Event) {
	defer func() {
		// The channel may already be closed if the stop timeout elapsed.
		_ = recover()
	}()
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}

func (r *KeyValue) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}
