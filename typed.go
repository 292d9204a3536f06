package marl

import (
	"github.com/aretw0/marl/pkg/typed"
)

// TypedCache wraps the schema cache to provide type-safe access.
// It acts as an application layer adapter, converting between raw documents
// and typed structs.
type TypedCache[T any] = typed.Cache[T]

// NewTyped creates a new type-safe cache wrapper.
// T is the struct type documents decode into (and schemas reflect from).
func NewTyped[T any](c *Cache) *TypedCache[T] {
	return typed.NewCache[T](c)
}

// AddType reflects a JSON Schema from T and admits it under key.
func AddType[T any](c *Cache, key string, validate Validator) error {
	return typed.NewCache[T](c).AddSchema(key, validate)
}

// LoadAs retrieves the document under key and decodes it into T.
func LoadAs[T any](c *Cache, key string) (T, error) {
	return typed.NewCache[T](c).Load(key)
}
