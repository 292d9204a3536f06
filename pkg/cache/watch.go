package cache

import (
	"context"
	"strings"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fetch"
)

// Watch starts watching the directory tree at root and streams change events
// for files the cache manages. Created and modified files are re-admitted
// through parse and validate before their event is delivered; removed files
// are evicted. Writes that leave the content byte-identical are absorbed
// without an event.
//
// Only one watcher may be active per Cache; a second call fails with
// core.ErrWatcherActive until the first shuts down. The returned channel is
// closed when the watcher stops cleanly, normally because ctx was cancelled.
func (c *Cache) Watch(ctx context.Context, root string, parse core.Parser, validate core.Validator) (<-chan core.Event, error) {
	rootPath := strings.TrimPrefix(fetch.Canonical(root), fetch.DefaultScheme+"://")

	c.mu.Lock()
	if c.watcherActive {
		c.mu.Unlock()
		return nil, core.ErrWatcherActive
	}
	c.watcherActive = true
	c.mu.Unlock()

	events := make(chan core.Event, c.eventBuffer)
	w := newWatchWorker(c, rootPath, parse, validate, events)

	if err := w.Start(ctx); err != nil {
		c.setWatcherActive(false)
		return nil, err
	}

	c.mu.Lock()
	c.worker = w
	c.mu.Unlock()

	return events, nil
}
