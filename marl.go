package marl

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/marl/pkg/cache"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fetch"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Document is a public alias for a parsed schema body.
type Document = core.Document

// Row is a public alias for a cached schema entry.
type Row = core.Row

// Report is a public alias for the outcome of a bulk refresh.
type Report = core.Report

// Failure is a public alias for one failed admission inside a Report.
type Failure = core.Failure

// Event is a public alias for a change notification.
type Event = core.Event

// EventType is a public alias for the change notification kind.
type EventType = core.EventType

// Parser is a public alias for a raw-bytes document decoder.
type Parser = core.Parser

// Validator is a public alias for an admission gate.
type Validator = core.Validator

// Cache is a public alias for the schema cache.
type Cache = cache.Cache

// CacheState is a public alias for the cache's introspection snapshot.
type CacheState = cache.CacheState

const (
	EventCreate = core.EventCreate
	EventModify = core.EventModify
	EventDelete = core.EventDelete
)

// --- Errors ---

var (
	// ErrNotFound is returned when no row matches a requested key.
	ErrNotFound = core.ErrNotFound
	// ErrUnknownScheme is returned for source keys with an unsupported scheme.
	ErrUnknownScheme = core.ErrUnknownScheme
	// ErrValidationRejected is returned when a validator refuses a document.
	ErrValidationRejected = core.ErrValidationRejected
	// ErrWatcherActive is returned when a second watcher is requested.
	ErrWatcherActive = core.ErrWatcherActive
)

// --- Configuration ---

// Option defines a functional option for configuring the cache.
type Option = cache.Option

// WithLogger sets the logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return cache.WithLogger(logger)
}

// WithHTTPClient replaces the HTTP client used for http and https sources.
func WithHTTPClient(client *http.Client) Option {
	return cache.WithHTTPClient(client)
}

// WithParser replaces the default document parser.
func WithParser(parse Parser) Option {
	return cache.WithParser(parse)
}

// WithScanPattern restricts directory refreshes and watches to files
// matching a glob pattern (doublestar syntax, e.g. "**/*.json").
func WithScanPattern(pattern string) Option {
	return cache.WithScanPattern(pattern)
}

// WithEventBuffer allows specifying the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return cache.WithEventBuffer(size)
}

// --- Factory ---

// New creates an empty schema cache.
func New(opts ...Option) *Cache {
	return cache.New(opts...)
}

// --- Operations ---

// Sync refreshes a cache from the directory tree at root.
// It is shorthand for AddPath with the cache's default parser.
func Sync(ctx context.Context, c *Cache, root string, validate Validator) (Report, error) {
	return c.AddPath(ctx, root, nil, validate)
}

// --- Utils ---

// ParseDocument decodes JSON or YAML bytes into a Document.
func ParseDocument(data []byte) (Document, error) {
	return cache.ParseDocument(data)
}

// Canonical returns the canonical source key for a raw key: URIs pass
// through unchanged, anything else becomes an absolute file URI.
func Canonical(raw string) string {
	return fetch.Canonical(raw)
}
