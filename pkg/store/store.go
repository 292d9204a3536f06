// Package store implements the concurrent schema table.
//
// The table maps canonical source keys to cached rows. Its backing map is
// created lazily on the first insert so callers can distinguish "never
// populated" from "populated and currently empty"; the directory refresh
// uses that distinction for its first-population rule.
package store

import (
	"iter"
	"sync"

	"github.com/aretw0/marl/pkg/core"
)

// Table is a concurrent mapping of canonical source keys to rows.
// Reads and writes of distinct rows are safe without external locking;
// concurrent inserts for the same source key race and the last one wins.
type Table struct {
	mu   sync.RWMutex
	rows map[string]core.Row
}

// New returns a Table whose backing map has not been created yet.
func New() *Table {
	return &Table{}
}

// Ready reports whether the backing map has ever been created.
func (t *Table) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows != nil
}

// ensure creates the backing map if absent. Caller must hold the write lock.
func (t *Table) ensure() {
	if t.rows == nil {
		t.rows = make(map[string]core.Row)
	}
}

// Get retrieves a row by its source key.
func (t *Table) Get(source string) (core.Row, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[source]
	return row, ok
}

// GetByID retrieves a row by its declared identifier. Identifiers are not
// unique; when several rows share one, which row wins is unspecified.
func (t *Table) GetByID(id string) (core.Row, bool) {
	if id == "" {
		return core.Row{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if row.ID == id {
			return row, true
		}
	}
	return core.Row{}, false
}

// Put inserts a row, replacing any prior row with the same source key.
// The backing map is created on first use; the write lock guarantees at most
// one map is ever created under concurrent first inserts.
func (t *Table) Put(row core.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensure()
	t.rows[row.Source] = row
}

// Delete removes the row with the given source key. No-op if absent.
func (t *Table) Delete(source string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, source)
}

// DeleteByID removes every row whose declared identifier matches.
func (t *Table) DeleteByID(id string) {
	if id == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for source, row := range t.rows {
		if row.ID == id {
			delete(t.rows, source)
		}
	}
}

// All returns an iterator over all rows, in no particular order.
func (t *Table) All() iter.Seq[core.Row] {
	return func(yield func(core.Row) bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, row := range t.rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
