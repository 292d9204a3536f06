// Package scan enumerates candidate schema files on disk.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Files lists every regular file under root, recursively. There is no
// extension filtering here; the refresh decides per file whether it is a
// candidate. Version control internals are skipped.
func Files(root string) ([]string, error) {
	return walk(root, func(string) bool { return true })
}

// FilesMatching lists the regular files under root whose slash-separated
// path relative to root matches the doublestar pattern. An empty pattern
// matches everything.
func FilesMatching(root, pattern string) ([]string, error) {
	if pattern == "" {
		return Files(root)
	}
	return walk(root, func(rel string) bool {
		ok, err := doublestar.Match(pattern, rel)
		return err == nil && ok
	})
}

func walk(root string, match func(rel string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !match(filepath.ToSlash(rel)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
