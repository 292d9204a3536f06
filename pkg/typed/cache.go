// Package typed provides a generic, type-safe view over the schema cache.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/aretw0/marl/pkg/cache"
	"github.com/aretw0/marl/pkg/core"
)

// Cache wraps a cache.Cache to provide type-safe access.
// It converts between raw documents and Go structs at the boundary.
type Cache[T any] struct {
	cache *cache.Cache
}

// NewCache creates a new type-safe wrapper around an existing cache.
func NewCache[T any](c *cache.Cache) *Cache[T] {
	return &Cache[T]{cache: c}
}

// AddSchema reflects a JSON Schema document from T and admits it under key.
// The schema is reflected inline, without $ref indirection, so consumers can
// use it standalone.
func (c *Cache[T]) AddSchema(key string, validate core.Validator) error {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	var model T
	schema := r.Reflect(&model)

	// 1. Marshal the reflected schema to JSON
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	// 2. Unmarshal to the raw document form
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to convert schema to document: %w", err)
	}

	// 3. Delegate
	return c.cache.Add(key, doc, validate)
}

// Load retrieves the document under key and decodes it into T.
func (c *Cache[T]) Load(key string) (T, error) {
	var out T

	doc, err := c.cache.Load(key)
	if err != nil {
		return out, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return out, nil
}
