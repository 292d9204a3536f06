package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl"
)

// prepareSchemas seeds a directory with a small schema tree.
func prepareSchemas(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"user.json":          `{"$id": "https://example.com/user", "type": "object"}`,
		"nested/order.json":  `{"$id": "https://example.com/order", "type": "object"}`,
		"nested/legacy.yaml": "id: https://example.com/legacy\ntype: object\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// TestCacheLifecycle drives the full flow: bulk load, dual-key lookup,
// refresh on change, and explicit eviction.
func TestCacheLifecycle(t *testing.T) {
	// 1. Setup
	dir := t.TempDir()
	prepareSchemas(t, dir)

	c := marl.New()
	ctx := context.Background()

	// 2. Bulk load
	report, err := marl.Sync(ctx, c, dir, nil)
	require.NoError(t, err)
	require.True(t, report.Ok(), "expected a clean report, got %+v", report)
	assert.Equal(t, 3, report.Admitted)

	// 3. Dual-key lookup: by path and by declared identifier
	userPath := filepath.Join(dir, "user.json")
	byPath, err := c.Load(userPath)
	require.NoError(t, err)
	byID, err := c.Load("https://example.com/user")
	require.NoError(t, err)
	assert.Equal(t, byPath["$id"], byID["$id"])

	// YAML documents flow through the same pipeline.
	_, err = c.Load("https://example.com/legacy")
	assert.NoError(t, err)

	// 4. An unchanged second sync admits nothing
	report, err = marl.Sync(ctx, c, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Admitted)

	// 5. A changed file is picked up
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(userPath, []byte(`{"$id": "https://example.com/user", "type": "object", "rev": 2}`), 0644))
	require.NoError(t, os.Chtimes(userPath, future, future))

	report, err = marl.Sync(ctx, c, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Admitted)

	doc, err := c.Load("https://example.com/user")
	require.NoError(t, err)
	assert.Equal(t, float64(2), doc["rev"])

	// 6. Deleting the file does not evict the row; scans only add
	require.NoError(t, os.Remove(userPath))
	report, err = marl.Sync(ctx, c, dir, nil)
	require.NoError(t, err)
	assert.Len(t, report.Failures, 0, "a vanished file is not a failure, it is simply absent")
	_, err = c.Load("https://example.com/user")
	assert.NoError(t, err, "rows outlive their files until deleted explicitly")

	// 7. Explicit eviction removes both keys
	c.Delete(userPath)
	_, err = c.Load(userPath)
	assert.ErrorIs(t, err, marl.ErrNotFound)
	_, err = c.Load("https://example.com/user")
	assert.ErrorIs(t, err, marl.ErrNotFound)
}

// TestRemoteSchemas exercises the HTTP loader path end to end.
func TestRemoteSchemas(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Last-Modified", stamp.Format(http.TimeFormat))
		_, _ = w.Write([]byte(`{"$id": "https://example.com/remote", "type": "object"}`))
	}))
	defer srv.Close()

	c := marl.New(marl.WithHTTPClient(srv.Client()))
	ctx := context.Background()

	// 1. First load fetches
	doc, err := c.LoadURI(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/remote", doc["$id"])
	assert.Equal(t, int32(1), hits.Load())

	// 2. Subsequent loads are cache hits, by URL or by identifier
	_, err = c.LoadURI(ctx, srv.URL)
	require.NoError(t, err)
	_, err = c.LoadURI(ctx, "https://example.com/remote")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "cached loads must not refetch")

	// 3. The row carries the Last-Modified stamp
	for _, row := range c.LoadAll() {
		assert.True(t, row.ModTime.Equal(stamp))
	}
}

// TestUnknownSchemeFails pins the error for unsupported schemes.
func TestUnknownSchemeFails(t *testing.T) {
	c := marl.New()

	err := c.AddURI(context.Background(), "ftp://example.com/schema.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, marl.ErrUnknownScheme)

	_, err = c.LoadURI(context.Background(), "ftp://example.com/schema.json")
	assert.ErrorIs(t, err, marl.ErrUnknownScheme)

	var pathErr *os.PathError
	assert.False(t, errors.As(err, &pathErr), "scheme errors never reach the filesystem")
}
