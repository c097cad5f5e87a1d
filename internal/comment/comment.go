// Package comment renders the thread comment, the step summary, and the
// pull-request review body from one run's aggregated advice, truncating
// the length-limited outputs in round-robin order when they would exceed
// their budget.
package comment

import (
	"fmt"
	"strings"

	"github.com/cpp-linter/cpp-linter-go/internal/advice"
	"github.com/cpp-linter/cpp-linter-go/internal/suggestion"
)

// HiddenMarker prefixes every comment and review body this system posts, so
// a later run can find and own the single comment/review it previously
// created. Shared with the platform client, which uses it to locate owned
// comments and reviews.
const HiddenMarker = "<!-- cpp-linter-action -->"

// Footer is appended to every thread comment, step summary, and review
// body, regardless of truncation.
const Footer = "\n<sub>Have feedback or found a bug? [Open an issue](https://github.com/cpp-linter/cpp-linter-action/issues).</sub>\n"

const truncationNotice = "\n*Output truncated to fit the comment length limit.*\n"

// FileOutcome is one file's aggregated advice, as attached to its
// FileRecord by the orchestrator.
type FileOutcome struct {
	Path   string
	Format *advice.FormatAdvice
	Tidy   *advice.TidyAdvice
}

// FormatFailed reports whether the formatter reported any replacement for
// this file.
func (o FileOutcome) FormatFailed() bool { return o.Format.HasChanges() }

// TidyDiagnosticCount returns the number of analyzer diagnostics for this
// file.
func (o FileOutcome) TidyDiagnosticCount() int {
	if o.Tidy == nil {
		return 0
	}
	return len(o.Tidy.Diagnostics)
}

// ComposeThreadComment renders the length-limited thread comment: a
// hidden marker, an H1 title, an aggregate status icon, and two
// collapsible per-tool sections listing files in failure order. Returns the
// rendered body plus (format_checks_failed, tidy_checks_failed).
func ComposeThreadComment(outcomes []FileOutcome, styleName string, lenLimit int) (string, int, int) {
	return compose(outcomes, styleName, lenLimit)
}

// ComposeStepSummary renders the same structure as ComposeThreadComment but
// with no length limit.
func ComposeStepSummary(outcomes []FileOutcome, styleName string) (string, int, int) {
	return compose(outcomes, styleName, 0)
}

func compose(outcomes []FileOutcome, styleName string, lenLimit int) (string, int, int) {
	var formatFiles, tidyFiles []string
	formatFailed, tidyFailed := 0, 0
	for _, o := range outcomes {
		if o.FormatFailed() {
			formatFailed++
			formatFiles = append(formatFiles, o.Path)
		}
		if n := o.TidyDiagnosticCount(); n > 0 {
			tidyFailed += n
			tidyFiles = append(tidyFiles, o.Path)
		}
	}

	icon := "✔"
	if formatFailed > 0 || tidyFailed > 0 {
		icon = "⚠"
	}
	header := fmt.Sprintf("%s\n# Cpp-Linter Report %s\n\n", HiddenMarker, icon)

	if lenLimit <= 0 {
		body := header + renderSection("clang-format", formatFiles, styleName) + renderSection("clang-tidy", tidyFiles, "") + Footer
		return body, formatFailed, tidyFailed
	}

	body := truncateToFit(header, formatFiles, tidyFiles, styleName, lenLimit)
	return body, formatFailed, tidyFailed
}

// renderSection renders one tool's collapsible section. styleName, when
// non-empty, is folded into the clang-format summary line so readers know
// which style was applied (the literal "file" style is displayed as
// "custom style" by the caller before reaching here).
func renderSection(tool string, files []string, styleName string) string {
	var b strings.Builder
	summary := tool
	if tool == "clang-format" && styleName != "" {
		summary = fmt.Sprintf("%s (%s)", tool, styleName)
	}
	if len(files) == 0 {
		fmt.Fprintf(&b, "<details>\n<summary>%s</summary>\n\nNo concerns.\n\n</details>\n\n", summary)
		return b.String()
	}
	fmt.Fprintf(&b, "<details>\n<summary>%s (%d file%s)</summary>\n\n", summary, len(files), plural(len(files)))
	for _, f := range files {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}
	b.WriteString("\n</details>\n\n")
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// truncateToFit renders header+sections+Footer, dropping the last file from
// the two lists in round-robin order (clang-format first, then clang-tidy,
// skipping a list once it is empty) until the result fits within limit
// bytes (reserving room for the truncation notice), or both lists are
// exhausted.
func truncateToFit(header string, formatFiles, tidyFiles []string, styleName string, limit int) string {
	full := header + renderSection("clang-format", formatFiles, styleName) + renderSection("clang-tidy", tidyFiles, "") + Footer
	if len(full) <= limit {
		return full
	}

	ff := append([]string(nil), formatFiles...)
	tf := append([]string(nil), tidyFiles...)
	reserve := limit - len(header) - len(Footer) - len(truncationNotice)

	turnFormat := true
	for {
		sections := renderSection("clang-format", ff, styleName) + renderSection("clang-tidy", tf, "")
		if len(sections) <= reserve || reserve <= 0 {
			return header + sections + truncationNotice + Footer
		}
		if turnFormat && len(ff) > 0 {
			ff = ff[:len(ff)-1]
		} else if len(tf) > 0 {
			tf = tf[:len(tf)-1]
		} else if len(ff) > 0 {
			ff = ff[:len(ff)-1]
		} else {
			return header + truncationNotice + Footer
		}
		turnFormat = !turnFormat
	}
}

// ComposeReviewBody renders the pull-request review body paired with the
// platform client's review submission.
// Returns the body, the review event (APPROVE or REQUEST_CHANGES), and
// whether a review should be submitted at all (false when there are zero
// changes and noLGTM suppresses the approval).
func ComposeReviewBody(batch *suggestion.ReviewBatch, noLGTM bool) (body, event string, submit bool) {
	total := 0
	for _, n := range batch.ToolTotal {
		total += n
	}

	if total == 0 {
		if noLGTM {
			return "", "", false
		}
		return HiddenMarker + "\n# Cpp-Linter Review\n\nGreat job! :tada:\n" + Footer, "APPROVE", true
	}

	var b strings.Builder
	b.WriteString(HiddenMarker + "\n# Cpp-Linter Review\n\n")
	for _, tool := range []string{"clang-format", "clang-tidy"} {
		toolTotal := batch.ToolTotal[tool]
		included := batch.ToolIncluded[tool]
		if toolTotal == 0 {
			fmt.Fprintf(&b, "No concerns from %s.\n\n", tool)
			continue
		}
		patch := strings.TrimRight(batch.FullPatch[tool], "\n")
		fmt.Fprintf(&b, "<details>\n<summary>%s concerns</summary>\n\n```diff\n%s\n```\n\n</details>\n\n", tool, patch)
		if included < toolTotal {
			fmt.Fprintf(&b, "Only %d out of %d %s concerns fit within this pull request's diff.\n\n", included, toolTotal, tool)
		}
	}
	b.WriteString(Footer)
	return b.String(), "REQUEST_CHANGES", true
}
