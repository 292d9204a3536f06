// Package cache implements the runtime schema cache: the dual-key table,
// URI loading, the staleness-checked directory refresh and batch admission.
package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fetch"
	"github.com/aretw0/marl/pkg/store"
)

// Cache is a process-lifetime cache of structured schema documents, keyed by
// canonical source key and, secondarily, by each document's self-declared
// identifier. All operations are safe for concurrent use; two concurrent
// admissions for the same source key race and the last insert wins.
type Cache struct {
	table   *store.Table
	fetcher *fetch.Fetcher
	parse   core.Parser
	logger  *slog.Logger
	pattern string

	mu            sync.RWMutex
	watcherActive bool
	worker        *watchWorker
	eventBuffer   int
}

// New creates an empty Cache. The backing table is created lazily on the
// first admission.
func New(opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Cache{
		table:       store.New(),
		fetcher:     fetch.NewFetcher(o.client),
		parse:       o.parse,
		logger:      o.logger,
		pattern:     o.pattern,
		eventBuffer: o.eventBuffer,
	}
}

// Add admits a single document under key, bypassing the loader. The stored
// row has no modification time, so directory refreshes never touch it.
// A nil validate admits unconditionally.
func (c *Cache) Add(key string, doc core.Document, validate core.Validator) error {
	source := fetch.Canonical(key)
	if validate != nil && !validate(doc) {
		return fmt.Errorf("%q: %w", source, core.ErrValidationRejected)
	}
	c.put(source, time.Time{}, doc, 0)
	return nil
}

// Load retrieves a document by key. The canonical form of key is matched
// against source keys first, then against declared identifiers.
func (c *Cache) Load(key string) (core.Document, error) {
	source := fetch.Canonical(key)
	if row, ok := c.table.Get(source); ok {
		return row.Doc, nil
	}
	if row, ok := c.table.GetByID(source); ok {
		return row.Doc, nil
	}
	return nil, fmt.Errorf("%q: %w", key, core.ErrNotFound)
}

// LoadAll returns a snapshot of every cached row, in no particular order.
func (c *Cache) LoadAll() []core.Row {
	rows := make([]core.Row, 0, c.table.Len())
	for row := range c.table.All() {
		rows = append(rows, row)
	}
	return rows
}

// Delete evicts any row matching key as a source key and any matching it as
// a declared identifier. Deleting an absent key is a no-op.
func (c *Cache) Delete(key string) {
	source := fetch.Canonical(key)
	c.table.Delete(source)
	c.table.DeleteByID(source)

	if c.logger != nil {
		c.logger.Debug("deleted schema", "source", source)
	}
}

// put builds the row for source and inserts it, extracting the secondary
// identifier from the document. Insertion overwrites by source key.
func (c *Cache) put(source string, mtime time.Time, doc core.Document, sum uint64) {
	id, _ := doc.Identifier()
	c.table.Put(core.Row{
		Source:  source,
		ID:      id,
		ModTime: mtime,
		Doc:     doc,
		Sum:     sum,
	})

	if c.logger != nil {
		c.logger.Debug("admitted schema", "source", source, "id", id)
	}
}

func (c *Cache) setWatcherActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watcherActive = active
	if !active {
		c.worker = nil
	}
}
