package cache

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fetch"
	"github.com/aretw0/marl/pkg/scan"
)

// outdated implements the staleness rule for file-backed rows: a missing row
// is outdated; a row without a modification time never is; otherwise the row
// is outdated only when the file's mtime is strictly newer. An equal mtime
// does not count as newer.
func (c *Cache) outdated(path string) bool {
	row, ok := c.table.Get(fetch.FileKey(path))
	if !ok {
		return true
	}
	if row.ModTime.IsZero() {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		// Let the subsequent fetch surface the IO error into the report.
		return true
	}
	return info.ModTime().After(row.ModTime)
}

// AddPath refreshes the cache from the directory tree at root.
// On the first population every file is a candidate; afterwards only files
// whose mtime advanced past their cached row are re-read. Candidates are
// parsed with parse (the cache default when nil) and admitted through
// validate; per-file failures land in the report without aborting the batch.
// The error return covers whole-operation failures only, such as an
// unreadable root.
func (c *Cache) AddPath(ctx context.Context, root string, parse core.Parser, validate core.Validator) (core.Report, error) {
	rootPath := strings.TrimPrefix(fetch.Canonical(root), fetch.DefaultScheme+"://")
	if parse == nil {
		parse = c.parse
	}

	files, err := scan.FilesMatching(rootPath, c.pattern)
	if err != nil {
		return core.Report{}, err
	}

	// First population is always a full load; freshness is only consulted
	// once the table exists.
	firstLoad := !c.table.Ready()

	var report core.Report
	var cands []candidate
	for _, path := range files {
		if !firstLoad && !c.outdated(path) {
			continue
		}

		source := fetch.FileKey(path)
		mtime, data, err := c.fetcher.Fetch(ctx, source)
		if err != nil {
			report.Failures = append(report.Failures, core.Failure{Source: source, Err: err})
			continue
		}

		doc, err := parse(data)
		if err != nil {
			report.Failures = append(report.Failures, core.Failure{Source: source, ModTime: mtime, Err: err})
			continue
		}

		cands = append(cands, candidate{source: source, mtime: mtime, doc: doc, sum: xxhash.Sum64(data)})
	}

	c.admit(cands, validate, &report)

	if c.logger != nil {
		c.logger.Debug("refreshed path",
			"root", rootPath,
			"admitted", report.Admitted,
			"failed", len(report.Failures),
		)
	}
	return report, nil
}

// refreshFile re-admits a single file, skipping byte-identical content. It
// reports whether the cached row changed. Used by the watch subsystem; the
// on-demand refresh path never consults content digests.
func (c *Cache) refreshFile(ctx context.Context, path string, parse core.Parser, validate core.Validator) (bool, error) {
	source := fetch.FileKey(path)

	mtime, data, err := c.fetcher.Fetch(ctx, source)
	if err != nil {
		return false, err
	}

	sum := xxhash.Sum64(data)
	if row, ok := c.table.Get(source); ok && row.Sum == sum {
		return false, nil
	}

	if parse == nil {
		parse = c.parse
	}
	doc, err := parse(data)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if validate != nil && !validate(doc) {
		return false, fmt.Errorf("%q: %w", source, core.ErrValidationRejected)
	}

	c.put(source, mtime, doc, sum)
	return true, nil
}
