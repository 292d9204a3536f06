// Package fetch resolves canonical source keys and loads raw schema bytes
// from file and HTTP origins.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/marl/pkg/core"
)

// DefaultScheme is prefixed onto bare keys by Canonical.
const DefaultScheme = "file"

// DefaultTimeout bounds HTTP fetches when no custom client is supplied.
const DefaultTimeout = 30 * time.Second

// Canonical normalizes a raw key into a canonical source key.
// Keys that already carry a scheme pass through unchanged; anything else is
// treated as a filesystem path, made absolute and prefixed with "file://".
// All public cache operations canonicalize through here; the rest of the
// core never re-derives key syntax.
func Canonical(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	path := raw
	if abs, err := filepath.Abs(raw); err == nil {
		path = abs
	}
	return FileKey(path)
}

// FileKey returns the canonical source key for a filesystem path.
func FileKey(path string) string {
	return DefaultScheme + "://" + filepath.ToSlash(path)
}

// Fetcher loads raw bytes and a modification time for a single source key,
// dispatching on the key's scheme.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client gets a default bounded by
// DefaultTimeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the bytes behind source.
// File keys report the file's mtime. HTTP keys report the Last-Modified
// header when present and parseable, and the zero time otherwise. A failed
// fetch returns no partial data and is never retried.
func (f *Fetcher) Fetch(ctx context.Context, source string) (time.Time, []byte, error) {
	scheme, rest, ok := strings.Cut(source, "://")
	if !ok {
		return time.Time{}, nil, fmt.Errorf("%q: %w", source, core.ErrUnknownScheme)
	}
	switch scheme {
	case "file":
		return f.fetchFile(rest)
	case "http", "https":
		return f.fetchHTTP(ctx, source)
	default:
		return time.Time{}, nil, fmt.Errorf("%q: %w", source, core.ErrUnknownScheme)
	}
}

func (f *Fetcher) fetchFile(path string) (time.Time, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return info.ModTime(), data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, source string) (time.Time, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, nil, fmt.Errorf("fetch %s: unexpected status %d", source, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Absent or unparseable Last-Modified yields the zero time: once loaded,
	// the entry is treated as always fresh. The cache does not poll HTTP
	// sources.
	var mtime time.Time
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			mtime = t
		}
	}
	return mtime, data, nil
}
