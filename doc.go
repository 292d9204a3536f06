// Package marl is the Composition Root for the Marl library.
//
// It connects the core domain types (documents, rows, reports) with the
// cache engine and its loaders behind a small facade.
//
// Philosophy:
//
// Marl is an in-memory schema registry for toolmakers. It keeps parsed
// schema documents resident for the life of the process, addressable both by
// where they came from and by what they call themselves, and refreshes them
// from disk or HTTP only when the origin actually changed.
//
// Features:
//
//   - **Dual-Key Lookup**: Every document is reachable by its canonical
//     source URI and by its self-declared identifier ($id or id).
//   - **Staleness-Aware Refresh**: Directory syncs re-read only files whose
//     mtime advanced past the cached row; documents admitted by hand are
//     never touched.
//   - **Scheme Dispatch**: file, http and https sources share one loader
//     with per-scheme fetching (Last-Modified honored for HTTP).
//   - **Partial-Success Batches**: A sync admits every valid file and
//     reports the rest, instead of failing wholesale.
//   - **Watch Mode**: An opt-in fsnotify worker streams debounced change
//     events and keeps the cache current in the background.
//   - **Typed Retrieval**: Generic wrapper (`NewTyped[T]`) reflects schemas
//     from Go types and decodes documents back into them.
//
// Usage:
//
//	// Build a cache with functional options
//	c := marl.New(
//		marl.WithScanPattern("**/*.json"),
//		marl.WithLogger(logger),
//	)
//
//	// Populate it from a schema directory
//	report, err := marl.Sync(ctx, c, "./schemas", nil)
//
//	// Look a schema up by declared identifier
//	doc, err := c.Load("https://example.com/schemas/user")
package marl
