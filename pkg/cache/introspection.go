package cache

import (
	"github.com/aretw0/introspection"
)

// CacheState exposes internal state for observability.
type CacheState struct {
	Rows          int    `json:"rows"`
	TableReady    bool   `json:"table_ready"`
	ScanPattern   string `json:"scan_pattern,omitempty"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (c *Cache) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheState{
		Rows:          c.table.Len(),
		TableReady:    c.table.Ready(),
		ScanPattern:   c.pattern,
		WatcherActive: c.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (c *Cache) ComponentType() string {
	return "cache"
}

var _ introspection.Introspectable = (*Cache)(nil)
var _ introspection.Component = (*Cache)(nil)
