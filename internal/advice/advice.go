// Package advice implements the unified representation of per-file
// formatter replacements and analyzer diagnostics.
package advice

import (
	"fmt"
	"strings"

	"github.com/cpp-linter/cpp-linter-go/internal/difflib"
)

// FormatReplacement is a single clang-format suggested edit: replace
// NullLength bytes starting at Column on a line with Text.
type FormatReplacement struct {
	Column     int
	NullLength int
	Text       string
}

// ReplacementLine holds every replacement the formatter reported on one
// post-image line, in the order the formatter emitted them.
type ReplacementLine struct {
	Line         int
	Replacements []FormatReplacement
}

// FormatAdvice is the per-file formatter result: an ordered, strictly
// increasing list of ReplacementLines plus the tool's fully patched buffer
// (used by the suggestion builder to synthesize a unified diff).
type FormatAdvice struct {
	Lines   []ReplacementLine
	Patched []byte
}

// AddReplacement appends r to the ReplacementLine for line, opening a new
// ReplacementLine unless the most recently appended line is the same line
// number (replacements sharing a line arrive consecutively from the XML
// parser, so this never needs to search backwards).
func (a *FormatAdvice) AddReplacement(line int, r FormatReplacement) {
	if n := len(a.Lines); n > 0 && a.Lines[n-1].Line == line {
		a.Lines[n-1].Replacements = append(a.Lines[n-1].Replacements, r)
		return
	}
	a.Lines = append(a.Lines, ReplacementLine{Line: line, Replacements: []FormatReplacement{r}})
}

// HasChanges reports whether the formatter reported any replacement at all.
func (a *FormatAdvice) HasChanges() bool {
	return a != nil && len(a.Lines) > 0
}

// Severity is a clang-tidy diagnostic severity.
type Severity string

const (
	SeverityNote    Severity = "note"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Fixit is a single clang-tidy suggested replacement attached to a
// diagnostic.
type Fixit struct {
	Line       int
	Column     int
	NullLength int
	Text       string
}

// TidyDiagnostic is one clang-tidy finding.
type TidyDiagnostic struct {
	CheckName string
	Severity  Severity
	Rationale string
	Filename  string
	Line      int
	Column    int
	Fixits    []Fixit
	// Context holds source-context lines captured from stdout that followed
	// this diagnostic's header line but did not themselves match the header
	// pattern.
	Context []string
}

// AppliedFixes reports whether this diagnostic carries any fixit (and so
// contributed a replacement, as opposed to being fix-less).
func (d *TidyDiagnostic) AppliedFixes() bool {
	return len(d.Fixits) > 0
}

// TidyAdvice is the per-file analyzer result.
type TidyAdvice struct {
	Diagnostics []TidyDiagnostic
	Patched     []byte
}

// DiagnosticsInRange renders a Markdown bulleted list of every diagnostic
// in ta whose Line falls inside [start, end), each linked to its check's
// documentation page.
func (ta *TidyAdvice) DiagnosticsInRange(domain string, start, end int) string {
	if ta == nil {
		return ""
	}
	var b strings.Builder
	for _, d := range ta.Diagnostics {
		if d.Line < start || d.Line >= end {
			continue
		}
		fmt.Fprintf(&b, "- %s [%s](%s)\n", d.Rationale, d.CheckName, checkDocLink(domain, d.CheckName))
	}
	return b.String()
}

// checkDocLink builds the documentation URL for a clang-tidy check name,
// split on its first hyphen into category and suffix:
// "<domain>/<category>/<suffix>.html".
func checkDocLink(domain, checkName string) string {
	category := checkName
	suffix := checkName
	if idx := strings.Index(checkName, "-"); idx >= 0 {
		category = checkName[:idx]
		suffix = checkName[idx+1:]
	}
	return fmt.Sprintf("%s/%s/%s.html", strings.TrimSuffix(domain, "/"), category, suffix)
}

// Scope selects which lines of a file are "in scope" for reported concerns.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeDiff  Scope = "diff"
	ScopeAdded Scope = "added"
)

// RangeOfChangedLines returns either the flat list of in-scope line numbers
// (getRanges=false) or the list of half-open ranges (getRanges=true) for
// file under scope. ScopeAll always returns nil (no restriction).
func RangeOfChangedLines(file *difflib.FileRecord, scope Scope, getRanges bool) ([]int, []difflib.LineRange) {
	switch scope {
	case ScopeAll:
		return nil, nil
	case ScopeAdded:
		if getRanges {
			return nil, file.AddedRanges()
		}
		return file.Added, nil
	case ScopeDiff:
		if getRanges {
			return nil, file.Chunks
		}
		var lines []int
		for _, c := range file.Chunks {
			for l := c.Start; l < c.End; l++ {
				lines = append(lines, l)
			}
		}
		return lines, nil
	default:
		return nil, nil
	}
}
