// Package filefilter implements the extension and ordered ignore/not-ignore
// predicate used to decide which changed files this pipeline should hand to
// the formatter and analyzer.
package filefilter

import (
	"bufio"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter holds the resolved extension list and ignore/not-ignore pattern
// tables for one invocation (the formatter and analyzer each get their own
// Filter instance, since they may be configured with different ignore
// lists).
type Filter struct {
	extensions map[string]bool
	ignored    map[string][]string // pattern -> resolved paths
	notIgnored map[string][]string // pattern -> resolved paths

	// toolName is used only for debug log prefixes.
	toolName string
}

// New builds a Filter from a comma-separated extensions list and a
// `|`-separated ignore string (see parseIgnore's doc comment for its
// grammar). notIgnoredExtra allows callers to seed additional always-kept
// paths before parsing ignoreValue.
func New(extensions []string, ignoreValue string, notIgnoredExtra []string, toolName string) *Filter {
	f := &Filter{
		extensions: normalizeExtensions(extensions),
		ignored:    make(map[string][]string),
		notIgnored: make(map[string][]string),
		toolName:   toolName,
	}
	for _, p := range notIgnoredExtra {
		f.notIgnored[p] = resolveGlob(p)
	}
	f.parseIgnore(ignoreValue)
	return f
}

func normalizeExtensions(exts []string) map[string]bool {
	out := make(map[string]bool, len(exts))
	for _, e := range exts {
		out[strings.TrimPrefix(strings.TrimSpace(e), ".")] = true
	}
	return out
}

// resolveGlob resolves a single ignore-option entry against the current
// working directory. An empty pattern means the repo root.
func resolveGlob(pattern string) []string {
	if pattern == "" {
		return []string{"."}
	}
	matches, err := doublestar.Glob(os.DirFS("."), pattern)
	if err != nil {
		return nil
	}
	return matches
}

// parseIgnore parses the `--ignore` CLI option: a `|`-separated list of
// entries. Each entry is trimmed; a leading `!` routes it to notIgnored; a
// leading `./` is stripped (relative-to-root is assumed).
func (f *Filter) parseIgnore(raw string) {
	if raw == "" {
		return
	}
	for _, entry := range strings.Split(raw, "|") {
		entry = strings.TrimSpace(entry)
		included := strings.HasPrefix(entry, "!")
		if included {
			entry = strings.TrimSpace(strings.TrimPrefix(entry, "!"))
		}
		entry = strings.TrimPrefix(entry, "./")

		resolved := resolveGlob(entry)
		if included {
			f.notIgnored[entry] = resolved
		} else {
			f.ignored[entry] = resolved
		}
	}
}

// ParseSubmodules appends each `.gitmodules` submodule path to ignored,
// unless it is already present in notIgnored. gitmodulesPath is usually
// ".gitmodules"; a missing file is not an error.
func (f *Filter) ParseSubmodules(gitmodulesPath string) error {
	file, err := os.Open(gitmodulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "path") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "path" {
			continue
		}
		subPath := strings.TrimSpace(parts[1])
		if subPath == "" {
			continue
		}
		if _, already := f.notIgnored[subPath]; already {
			continue
		}
		f.ignored[subPath] = []string{subPath}
	}
	return scanner.Err()
}

// matchesAny reports whether file matches any entry in table, using the
// posix common-prefix rule for directories and exact match for files.
func matchesAny(file string, table map[string][]string) bool {
	file = path.Clean(file)
	for _, paths := range table {
		for _, p := range paths {
			p = path.Clean(p)
			if p == "." {
				return true // repo root matches everything
			}
			if p == file {
				return true
			}
			if strings.HasPrefix(file, p+"/") {
				return true
			}
		}
	}
	return false
}

// Accepts implements the acceptance predicate:
//
//	suffix(F) ∈ extensions ∧ (matches_any(F, not_ignored) ∨ ¬matches_any(F, ignored))
//
// Both halves of the ignore/not-ignore disjunction are always evaluated
// (the predicate is total, not short-circuited).
func (f *Filter) Accepts(file string) bool {
	ext := strings.TrimPrefix(path.Ext(file), ".")
	if !f.extensions[ext] {
		return false
	}
	inNotIgnored := matchesAny(file, f.notIgnored)
	inIgnored := matchesAny(file, f.ignored)
	return inNotIgnored || !inIgnored
}

// ListSourceFiles walks root recursively, skipping any path component that
// starts with ".", and returns every file (relative to root, forward-slash
// normalized) that satisfies Accepts. Used when the orchestrator is not
// scoped to a specific diff (--files-changed-only=false).
func (f *Filter) ListSourceFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if name != "." && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if f.Accepts(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FilterFiles applies Accepts to every entry in files, preserving order.
func (f *Filter) FilterFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		if f.Accepts(file) {
			out = append(out, file)
		}
	}
	return out
}
