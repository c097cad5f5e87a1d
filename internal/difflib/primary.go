package difflib

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Parse is the primary diff parser. It delegates hunk and rename handling
// to github.com/bluekeyes/go-gitdiff, a robust unified-diff parser, and
// projects its result into FileRecords.
//
// A file section consisting only of a rename with no hunks produces no
// FileRecord. Binary files and deletions are skipped entirely: there is no post-image text
// for the formatter or analyzer to inspect.
func Parse(diff string) ([]*FileRecord, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil {
		return nil, &ErrMalformedDiff{Reason: err.Error()}
	}

	var records []*FileRecord
	for _, f := range files {
		if f.IsDelete || f.IsBinary {
			continue
		}
		path := f.NewName
		if path == "" {
			path = f.OldName
		}
		if path == "" {
			continue
		}
		if len(f.TextFragments) == 0 {
			// Rename-only (or otherwise hunk-less) section: drop it.
			continue
		}

		rec := &FileRecord{Path: normalizePath(path)}
		for _, frag := range f.TextFragments {
			start := int(frag.NewPosition)
			// gitdiff's own hunk-header parsing already applies the
			// single-line default (an absent comma-group means length 1);
			// frag.NewLines is 0 only for a genuine explicit ",0" pure
			// deletion hunk, which must stay 0 to match fallback.go's rule.
			length := int(frag.NewLines)
			rec.Chunks = append(rec.Chunks, LineRange{Start: start, End: start + length})

			line := start
			for _, l := range frag.Lines {
				switch l.Op {
				case gitdiff.OpAdd:
					rec.Added = append(rec.Added, line)
					line++
				case gitdiff.OpContext:
					line++
				case gitdiff.OpDelete:
					// post-image line counter does not advance on deletions
				}
			}
		}
		rec.Added = dedupSortInts(rec.Added)
		records = append(records, rec)
	}
	return records, nil
}
