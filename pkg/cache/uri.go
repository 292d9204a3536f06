package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fetch"
)

// AddURI fetches, parses and admits the schema behind key. Admission applies
// the fixed container validator; any fetch, parse or validation error is
// returned immediately and nothing is inserted.
func (c *Cache) AddURI(ctx context.Context, key string) error {
	source := fetch.Canonical(key)

	mtime, data, err := c.fetcher.Fetch(ctx, source)
	if err != nil {
		return err
	}

	doc, err := c.parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if !IsContainer(doc) {
		return fmt.Errorf("%q: %w", source, core.ErrValidationRejected)
	}

	// Anonymous documents get an identifier derived from their origin so
	// identifier lookups keep working for them.
	if _, ok := doc.Identifier(); !ok {
		doc["id"] = source
	}

	c.put(source, mtime, doc, xxhash.Sum64(data))
	return nil
}

// LoadURI is Load with one self-healing attempt: a schema missing from the
// cache is fetched via AddURI and looked up again. The fallback runs once
// and only for ErrNotFound; every other failure propagates unchanged.
func (c *Cache) LoadURI(ctx context.Context, key string) (core.Document, error) {
	doc, err := c.Load(key)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if err := c.AddURI(ctx, key); err != nil {
		return nil, err
	}
	return c.Load(key)
}
