// Package cache implements the local, file-based artifact log: a
// write-mostly directory of request/response dumps, diff snapshots, and
// paginated comment dumps, not a key-value database.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store wraps a cache root directory. The zero value is not usable; build
// one with New.
type Store struct {
	root string
}

// New returns a Store rooted at dir, which is created (including parents)
// on first Write if it does not already exist.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the cache directory this Store writes under.
func (s *Store) Root() string {
	return s.root
}

// Write stores data under name, relative to the cache root, creating
// intermediate directories as needed.
func (s *Store) Write(name string, data []byte) error {
	full := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("cache: creating directory for %s: %w", name, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("cache: writing %s: %w", name, err)
	}
	return nil
}

// Read loads the contents previously stored under name.
func (s *Store) Read(name string) ([]byte, error) {
	full := filepath.Join(s.root, filepath.FromSlash(name))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("cache: reading %s: %w", name, err)
	}
	return data, nil
}

// DiffSnapshotName returns the canonical filename for a diff snapshot
// spanning baseSHA..headSHA, using short (7-character) SHAs.
func DiffSnapshotName(baseSHA, headSHA string) string {
	return fmt.Sprintf("%s...%s.diff", shortSHA(baseSHA), shortSHA(headSHA))
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// CommentsPageName returns the canonical filename for the page'th page of
// owned-comment traversal results (1-indexed, matching the platform's own
// pagination numbering).
func CommentsPageName(page int) string {
	return fmt.Sprintf("comments-pg%d.json", page)
}

// RequestDumpName returns the canonical filename for a request/response
// dump of the seq'th API call of kind (e.g. "review", "annotation").
func RequestDumpName(kind string, seq int) string {
	return fmt.Sprintf("%s-%d.json", kind, seq)
}
