package reactivity_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl"
)

// setupWatchTest builds a cache watching a fresh temp directory.
// It returns the directory, the cache, the event stream, and a cancel
// function that stops the watcher.
func setupWatchTest(t *testing.T) (string, *marl.Cache, <-chan marl.Event, context.CancelFunc) {
	t.Helper()
	tmp := t.TempDir()

	c := marl.New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	events, err := c.Watch(ctx, tmp, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, events)

	// Wait a bit to ensure watcher is ready (naive)
	time.Sleep(100 * time.Millisecond)

	return tmp, c, events, cancel
}

// TestWatch_FileCreation tests that a new file is admitted and announced.
func TestWatch_FileCreation(t *testing.T) {
	// 1. Setup
	tmp, c, events, cancel := setupWatchTest(t)
	defer cancel()

	// 2. Trigger Event
	targetFile := filepath.Join(tmp, "user.json")
	err := os.WriteFile(targetFile, []byte(`{"$id": "https://example.com/user"}`), 0644)
	require.NoError(t, err)

	// 3. Assert Event
	select {
	case event := <-events:
		assert.Equal(t, marl.EventCreate, event.Type, "Should be a CREATE event for new file")
		assert.Equal(t, marl.Canonical(targetFile), event.Source)
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for event")
	}

	// 4. The document is already loadable when the event lands
	_, err = c.Load("https://example.com/user")
	assert.NoError(t, err)
}

// TestWatch_IgnoreUnchanged ensures byte-identical rewrites do not produce
// events. The implementation uses a content checksum.
func TestWatch_IgnoreUnchanged(t *testing.T) {
	// 1. Setup
	tmp, c, events, cancel := setupWatchTest(t)
	defer cancel()

	targetFile := filepath.Join(tmp, "stable.json")
	content := []byte(`{"$id": "https://example.com/stable"}`)
	require.NoError(t, os.WriteFile(targetFile, content, 0644))

	// Consume the initial CREATE.
	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for initial event")
	}

	// 2. Rewrite the identical bytes
	require.NoError(t, os.WriteFile(targetFile, content, 0644))

	// 3. Assert NO event
	select {
	case event := <-events:
		t.Fatalf("Received event for unchanged content: %v", event)
	case <-time.After(400 * time.Millisecond):
	}

	_, err := c.Load("https://example.com/stable")
	assert.NoError(t, err)
}

// TestWatch_SingleWatcher pins the one-watcher-per-cache rule.
func TestWatch_SingleWatcher(t *testing.T) {
	tmp, c, _, cancel := setupWatchTest(t)
	defer cancel()

	_, err := c.Watch(context.Background(), tmp, nil, nil)
	assert.ErrorIs(t, err, marl.ErrWatcherActive)
}

// TestWatch_ChannelClosesOnCancel ensures consumers ranging over the stream
// terminate when the watcher stops.
func TestWatch_ChannelClosesOnCancel(t *testing.T) {
	_, _, events, cancel := setupWatchTest(t)

	cancel()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Timed out waiting for channel close")
		}
	}
}
