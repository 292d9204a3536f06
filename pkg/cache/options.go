package cache

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/marl/pkg/core"
)

// options holds the internal configuration for the Cache.
type options struct {
	logger      *slog.Logger
	client      *http.Client
	parse       core.Parser
	pattern     string
	eventBuffer int
}

// Option defines a functional option for configuring the Cache.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:      nil,
		client:      nil,
		parse:       ParseDocument,
		pattern:     "",
		eventBuffer: 16,
	}
}

// WithLogger sets the logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient injects the HTTP client used for http/https loads.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithParser overrides the default parser used by URI loads and as the
// fallback for nil parse arguments.
func WithParser(parse core.Parser) Option {
	return func(o *options) {
		o.parse = parse
	}
}

// WithScanPattern restricts directory refreshes and watches to files whose
// path relative to the scanned root matches the doublestar pattern.
func WithScanPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithEventBuffer sets the size of the watch event channel buffer.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.eventBuffer = size
		}
	}
}
