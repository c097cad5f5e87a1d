// Package suggestion turns a tool's original/patched byte buffers into
// zero-context unified diff hunks, and those hunks into per-line review
// suggestions confined to the file's diff chunks. The zero-context diff
// itself is computed with pmezard/go-difflib rather than a hand-rolled
// Myers diff.
package suggestion

import (
	"fmt"
	"strings"

	godifflib "github.com/pmezard/go-difflib/difflib"

	"github.com/cpp-linter/cpp-linter-go/internal/advice"
	ourdiff "github.com/cpp-linter/cpp-linter-go/internal/difflib"
)

// Suggestion is one proposed inline review comment.
type Suggestion struct {
	File      string
	StartLine int
	EndLine   int
	Body      string
}

func (s *Suggestion) key() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.EndLine)
}

// ReviewBatch accumulates suggestions and per-tool statistics across every
// file in one run.
type ReviewBatch struct {
	FullPatch    map[string]string
	ToolTotal    map[string]int
	ToolIncluded map[string]int
	Suggestions  []*Suggestion

	byKey map[string]*Suggestion
}

// NewReviewBatch returns an empty, ready-to-use ReviewBatch.
func NewReviewBatch() *ReviewBatch {
	return &ReviewBatch{
		FullPatch:    make(map[string]string),
		ToolTotal:    make(map[string]int),
		ToolIncluded: make(map[string]int),
		byKey:        make(map[string]*Suggestion),
	}
}

func (b *ReviewBatch) add(s *Suggestion) {
	if existing, ok := b.byKey[s.key()]; ok {
		existing.Body = existing.Body + "\n" + s.Body
		return
	}
	b.byKey[s.key()] = s
	b.Suggestions = append(b.Suggestions, s)
}

// hunk is one grouped region of change between two buffers, with zero
// context lines.
type hunk struct {
	oldStart, oldLines int
	newStart, newLines int
	added              []string
	removed            []string
}

func splitLines(data []byte) []string {
	text := string(data)
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffHunks computes the zero-context grouped opcodes between original and
// patched, returning both the hunks and the rendered unified diff text (for
// ReviewBatch.FullPatch).
func diffHunks(file string, original, patched []byte) ([]hunk, string, error) {
	a := splitLines(original)
	b := splitLines(patched)

	matcher := godifflib.NewMatcher(a, b)
	groups := matcher.GetGroupedOpCodes(0)

	ud := godifflib.UnifiedDiff{A: a, B: b, FromFile: file, ToFile: file, Context: 0}
	text, err := godifflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, "", fmt.Errorf("suggestion: diffing %s: %w", file, err)
	}

	var hunks []hunk
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		first, last := group[0], group[len(group)-1]
		h := hunk{
			oldStart: first.I1 + 1,
			newStart: first.J1 + 1,
			oldLines: last.I2 - first.I1,
			newLines: last.J2 - first.J1,
		}
		for _, op := range group {
			switch op.Tag {
			case 'd':
				h.removed = append(h.removed, a[op.I1:op.I2]...)
			case 'r':
				h.removed = append(h.removed, a[op.I1:op.I2]...)
				h.added = append(h.added, b[op.J1:op.J2]...)
			case 'i':
				h.added = append(h.added, b[op.J1:op.J2]...)
			}
		}
		hunks = append(hunks, h)
	}
	return hunks, text, nil
}

// preImageSpan derives the hunk's pre-image line span: when the hunk
// removes lines, [oldStart, oldStart+oldLines-1]; for a pure insertion,
// [newStart, newStart] (there is no pre-image position to anchor on, so the
// post-image insertion point is used instead).
func preImageSpan(h hunk) (start, end int) {
	if len(h.removed) > 0 {
		return h.oldStart, h.oldStart + h.oldLines - 1
	}
	return h.newStart, h.newStart
}

func containingChunkCount(chunks []ourdiff.LineRange, start, end int) int {
	count := 0
	for _, c := range chunks {
		if start >= c.Start && end < c.End {
			count++
		}
	}
	return count
}

func renderBody(h hunk) string {
	if len(h.added) == 0 && len(h.removed) > 0 {
		return fmt.Sprintf("Remove line%s %d-%d.", plural(len(h.removed)), h.oldStart, h.oldStart+len(h.removed)-1)
	}
	var body strings.Builder
	body.WriteString("```suggestion\n")
	for _, l := range h.added {
		body.WriteString(strings.TrimSuffix(l, "\n"))
		body.WriteString("\n")
	}
	body.WriteString("```")
	return body.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// BuildFromPatch processes one tool's patched buffer for file, appending
// accepted hunks to batch as Suggestions and tallying ToolTotal[tool].
// chunks are the file's diff chunks (post-image coordinates); tidy supplies
// diagnostics-in-range rendering when tool is the analyzer.
func BuildFromPatch(batch *ReviewBatch, tool, domain, file string, original, patched []byte, chunks []ourdiff.LineRange, tidy *advice.TidyAdvice, summaryOnly bool) error {
	hunks, text, err := diffHunks(file, original, patched)
	if err != nil {
		return err
	}
	batch.FullPatch[tool] += text

	for _, h := range hunks {
		batch.ToolTotal[tool]++
		if summaryOnly {
			continue
		}

		start, end := preImageSpan(h)
		if containingChunkCount(chunks, start, end) != 1 {
			continue
		}

		var header string
		diagList := ""
		if tidy != nil {
			diagList = tidy.DiagnosticsInRange(domain, start, end+1)
		}
		switch {
		case tool == "clang-tidy" && diagList != "":
			header = "### clang-tidy diagnostics\n" + diagList
		case tool == "clang-tidy":
			header = "### clang-tidy suggestions"
		default:
			header = fmt.Sprintf("### %s suggestions", tool)
		}

		body := header + "\n" + renderBody(h)
		batch.ToolIncluded[tool]++
		batch.add(&Suggestion{File: file, StartLine: start, EndLine: end, Body: body})
	}
	return nil
}

// AppendUnfixedDiagnostics emits single-line suggestions for analyzer
// diagnostics that produced no replacements (so BuildFromPatch never saw
// them) but whose line falls inside one of the file's diff chunks.
func AppendUnfixedDiagnostics(batch *ReviewBatch, domain, file string, tidy *advice.TidyAdvice, chunks []ourdiff.LineRange, summaryOnly bool) {
	if tidy == nil {
		return
	}
	for _, d := range tidy.Diagnostics {
		if d.AppliedFixes() {
			continue
		}
		batch.ToolTotal["clang-tidy"]++
		if summaryOnly {
			continue
		}
		if containingChunkCount(chunks, d.Line, d.Line) != 1 {
			continue
		}
		body := "### clang-tidy diagnostics\n" + strings.TrimSuffix(tidy.DiagnosticsInRange(domain, d.Line, d.Line+1), "\n")
		if len(d.Context) > 0 {
			body += "\n```\n" + strings.Join(d.Context, "\n") + "\n```"
		}
		batch.ToolIncluded["clang-tidy"]++
		batch.add(&Suggestion{File: file, StartLine: d.Line, EndLine: d.Line, Body: body})
	}
}
