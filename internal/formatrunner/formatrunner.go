// Package formatrunner invokes clang-format on a single file and parses
// its XML replacement report into a FormatAdvice.
package formatrunner

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"os/exec"

	"github.com/cpp-linter/cpp-linter-go/internal/advice"
	"github.com/cpp-linter/cpp-linter-go/internal/difflib"
	"github.com/cpp-linter/cpp-linter-go/internal/offsetindex"
)

// xmlReplacements mirrors clang-format's --output-replacements-xml report.
type xmlReplacements struct {
	XMLName      xml.Name         `xml:"replacements"`
	Replacements []xmlReplacement `xml:"replacement"`
}

type xmlReplacement struct {
	Offset int    `xml:"offset,attr"`
	Length int    `xml:"length,attr"`
	Text   string `xml:",chardata"`
}

// DisplayStyleName renders the resolved --style value for annotations and
// log messages: the literal token "file" (meaning "read .clang-format from
// the tree") is rendered as "custom style" rather than shown verbatim.
func DisplayStyleName(style string) string {
	if style == "file" {
		return "custom style"
	}
	return style
}

// lineArgs renders one --lines=start:end flag per chunk, in post-image
// coordinates. A chunk [s, e) becomes --lines=s:e, passing the exclusive
// end straight through.
func lineArgs(chunks []difflib.LineRange) []string {
	args := make([]string, 0, len(chunks))
	for _, c := range chunks {
		args = append(args, fmt.Sprintf("--lines=%d:%d", c.Start, c.End))
	}
	return args
}

func inScope(line int, chunks []difflib.LineRange, allLines bool) bool {
	if allLines {
		return true
	}
	for _, c := range chunks {
		if line >= c.Start && line < c.End {
			return true
		}
	}
	return false
}

// Run invokes tool (the resolved clang-format executable) against path,
// restricted to chunks (ignored when allLines is true), and returns the
// replacements it reported, filtered to the requested scope.
func Run(ctx context.Context, tool, style, path string, chunks []difflib.LineRange, allLines bool) (*advice.FormatAdvice, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formatrunner: reading %s: %w", path, err)
	}

	args := []string{"-style=" + style}
	args = append(args, lineArgs(chunks)...)
	args = append(args, "--output-replacements-xml", path)

	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("formatrunner: running %s on %s: %w", tool, path, err)
	}

	result, err := parseReplacements(stdout.Bytes(), contents, chunks, allLines)
	if err != nil {
		return nil, fmt.Errorf("formatrunner: parsing replacements XML for %s: %w", path, err)
	}
	return result, nil
}

// parseReplacements decodes a clang-format --output-replacements-xml report
// and converts each <replacement> into a FormatReplacement, dropping those
// outside the requested scope.
func parseReplacements(xmlBytes, contents []byte, chunks []difflib.LineRange, allLines bool) (*advice.FormatAdvice, error) {
	var parsed xmlReplacements
	if err := xml.Unmarshal(xmlBytes, &parsed); err != nil {
		return nil, err
	}

	result := &advice.FormatAdvice{}
	for _, r := range parsed.Replacements {
		line, col := offsetindex.LineColumn(contents, r.Offset)
		if !inScope(line, chunks, allLines) {
			continue
		}
		result.AddReplacement(line, advice.FormatReplacement{
			Column:     col,
			NullLength: r.Length,
			Text:       r.Text,
		})
	}
	return result, nil
}

// RunPatched re-invokes tool without the XML flag to capture the fully
// formatted file on stdout, used as the patched buffer for suggestion
// synthesis.
func RunPatched(ctx context.Context, tool, style, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, tool, "-style="+style, path)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("formatrunner: capturing patched output for %s: %w", path, err)
	}
	return stdout.Bytes(), nil
}
