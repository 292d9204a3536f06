package cache

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fetch"
)

type watchWorker struct {
	*worker.BaseWorker
	cache    *Cache
	root     string
	parse    core.Parser
	validate core.Validator
	events   chan core.Event

	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(cache *Cache, root string, parse core.Parser, validate core.Validator, events chan core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("cache-watcher"),
		cache:      cache,
		root:       root,
		parse:      parse,
		validate:   validate,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.recursiveAdd(watcher, w.root); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.cache.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// recursiveAdd registers dir and every subdirectory with the watcher;
// fsnotify itself is not recursive.
func (w *watchWorker) recursiveAdd(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// ignored filters paths the cache does not manage: anything under .git and,
// when a scan pattern is configured, files that do not match it.
func (w *watchWorker) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	for _, part := range strings.Split(rel, "/") {
		if part == ".git" {
			return true
		}
	}

	if w.cache.pattern == "" {
		return false
	}
	ok, err := doublestar.Match(w.cache.pattern, rel)
	return err != nil || !ok
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// processEvent filters, maps and debounces one filesystem event. Directory
// creations extend the watch to the new subtree instead of producing an
// event.
func (w *watchWorker) processEvent(ctx context.Context, event fsnotify.Event) {
	if w.cache.logger != nil {
		w.cache.logger.Debug("event received", "name", event.Name)
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Base(event.Name) != ".git" {
				if err := w.recursiveAdd(w.watcher, event.Name); err != nil && w.cache.logger != nil {
					w.cache.logger.Debug("failed to watch new directory", "path", event.Name, "err", err)
				}
			}
			return
		}
	}

	if w.ignored(event.Name) {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Source:    fetch.FileKey(event.Name),
		Timestamp: time.Now().Unix(),
	})
}

// sendEvent enqueues the event through the debouncer so write bursts for the
// same source collapse into a single refresh.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		w.handle(ctx, e)
	})
}

// handle applies a debounced event to the cache, then forwards it.
func (w *watchWorker) handle(ctx context.Context, e core.Event) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		if e.Type == core.EventDelete {
			w.cache.Delete(e.Source)
			w.deliver(ctx, e)
			return nil
		}

		path := filepath.FromSlash(strings.TrimPrefix(e.Source, fetch.DefaultScheme+"://"))
		changed, err := w.cache.refreshFile(ctx, path, w.parse, w.validate)
		if err != nil {
			// The file can vanish or turn invalid between the event and the
			// read; the row keeps its previous content.
			if w.cache.logger != nil {
				w.cache.logger.Debug("refresh failed", "source", e.Source, "err", err)
			}
			return nil
		}
		if changed {
			w.deliver(ctx, e)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		if w.cache.logger != nil {
			w.cache.logger.Error("watch handler panic", "error", err)
		}
	}))
}

// deliver pushes the event to subscribers, tolerating channel closure during
// shutdown.
func (w *watchWorker) deliver(ctx context.Context, e core.Event) {
	defer func() {
		_ = recover()
	}()
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}

// run is the watcher's main loop.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			var stack string
			if w.cache.logger != nil && w.cache.logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}

			if w.cache.logger != nil {
				if stack != "" {
					w.cache.logger.Error("watcher panic",
						"error", panicErr,
						"stack", stack,
					)
				} else {
					w.cache.logger.Error("watcher panic", "error", panicErr)
				}
			}
		}
	}()
	defer w.cache.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Stop accepting events and wait for in-flight timers before touching
	// the channel. On a clean stop the channel closes so range loops end; on
	// failure it stays open for a restarted worker.
	w.debouncer.stopAndWait(5 * time.Second)
	if err == nil {
		close(w.events)
	}

	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.cache.logger != nil {
				w.cache.logger.Error("fsnotify error", "error", wErr)
			}
		}
	}
}
