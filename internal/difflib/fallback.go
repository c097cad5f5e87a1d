package difflib

import (
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderRegex matches unified diff hunk headers such as
// "@@ -10,5 +15,7 @@" or the single-line form "@@ -10 +15 @@", in which
// the comma-separated length is omitted and implicitly 1. Both pre-image
// fields are captured (unused here, but part of the grammar).
var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseFallback is the regex-based fallback diff parser, used when Parse
// fails on malformed input. It must produce identical FileRecords to Parse
// for any well-formed diff; it is not required to accept diffs Parse
// rejects.
func ParseFallback(diff string) ([]*FileRecord, error) {
	var records []*FileRecord
	var current *FileRecord
	var inHunk bool
	var line int

	flush := func() {
		if current == nil {
			return
		}
		if len(current.Chunks) == 0 {
			// Rename-only section: drop it.
			current = nil
			return
		}
		current.Added = dedupSortInts(current.Added)
		records = append(records, current)
		current = nil
	}

	lines := strings.Split(diff, "\n")
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "diff --git"):
			flush()
			inHunk = false
		case strings.HasPrefix(l, "+++ "):
			path := strings.TrimPrefix(l, "+++ ")
			path = strings.TrimPrefix(path, "b/")
			if path == "/dev/null" {
				// Deletion: no post-image content.
				current = nil
				inHunk = false
				continue
			}
			if current != nil && len(current.Chunks) > 0 {
				// A new file header with no "diff --git" line before it.
				flush()
			}
			if current == nil {
				current = &FileRecord{Path: normalizePath(path)}
			} else {
				current.Path = normalizePath(path)
			}
			inHunk = false
		case hunkHeaderRegex.MatchString(l):
			m := hunkHeaderRegex.FindStringSubmatch(l)
			start, _ := strconv.Atoi(m[3])
			length := 1
			if m[4] != "" {
				length, _ = strconv.Atoi(m[4])
			}
			if current == nil {
				// No post-image file (e.g. a deletion): skip this hunk.
				inHunk = false
				continue
			}
			current.Chunks = append(current.Chunks, LineRange{Start: start, End: start + length})
			line = start
			inHunk = true
		case !inHunk:
			// metadata / binary-marker / mode-change lines outside any hunk
			continue
		case strings.HasPrefix(l, "-"):
			// subtraction line: does not exist in the post-image
			continue
		case strings.HasPrefix(l, "+"):
			if current != nil {
				current.Added = append(current.Added, line)
			}
			line++
		case strings.HasPrefix(l, `\`):
			// "\ No newline at end of file"
			continue
		default:
			// context line (leading space, or blank)
			line++
		}
	}
	flush()
	return records, nil
}
