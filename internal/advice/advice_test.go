package advice

import (
	"strings"
	"testing"

	"github.com/cpp-linter/cpp-linter-go/internal/difflib"
)

func TestFormatAdviceAddReplacementGroupsConsecutiveLines(t *testing.T) {
	var a FormatAdvice
	a.AddReplacement(10, FormatReplacement{Column: 1, Text: "x"})
	a.AddReplacement(10, FormatReplacement{Column: 5, Text: "y"})
	a.AddReplacement(12, FormatReplacement{Column: 1, Text: "z"})

	if len(a.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(a.Lines))
	}
	if a.Lines[0].Line != 10 || len(a.Lines[0].Replacements) != 2 {
		t.Errorf("first ReplacementLine = %+v, want line 10 with 2 replacements", a.Lines[0])
	}
	if a.Lines[1].Line != 12 || len(a.Lines[1].Replacements) != 1 {
		t.Errorf("second ReplacementLine = %+v, want line 12 with 1 replacement", a.Lines[1])
	}
}

func TestFormatAdviceHasChanges(t *testing.T) {
	var a FormatAdvice
	if a.HasChanges() {
		t.Error("empty FormatAdvice reported HasChanges")
	}
	a.AddReplacement(1, FormatReplacement{})
	if !a.HasChanges() {
		t.Error("FormatAdvice with a replacement reported no changes")
	}
}

func TestCheckDocLink(t *testing.T) {
	got := checkDocLink("https://clang.llvm.org/extra/clang-tidy/checks", "misc-unused-parameters")
	want := "https://clang.llvm.org/extra/clang-tidy/checks/misc/unused-parameters.html"
	if got != want {
		t.Errorf("checkDocLink() = %q, want %q", got, want)
	}
}

func TestDiagnosticsInRangeFiltersByLine(t *testing.T) {
	ta := &TidyAdvice{Diagnostics: []TidyDiagnostic{
		{CheckName: "misc-unused-parameters", Rationale: "unused parameter", Line: 5},
		{CheckName: "readability-braces-around-statements", Rationale: "add braces", Line: 50},
	}}
	out := ta.DiagnosticsInRange("https://example.test/checks", 1, 10)
	if out == "" {
		t.Fatal("expected non-empty output")
	}
	if want := "unused parameter"; !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
	if strings.Contains(out, "add braces") {
		t.Errorf("output %q should not contain out-of-range diagnostic", out)
	}
}

func TestRangeOfChangedLinesScopes(t *testing.T) {
	file := &difflib.FileRecord{
		Path:   "a.cpp",
		Chunks: []difflib.LineRange{{Start: 10, End: 13}},
		Added:  []int{10, 11},
	}

	if lines, ranges := RangeOfChangedLines(file, ScopeAll, false); lines != nil || ranges != nil {
		t.Errorf("ScopeAll should return nil, nil; got %v, %v", lines, ranges)
	}

	lines, _ := RangeOfChangedLines(file, ScopeDiff, false)
	want := []int{10, 11, 12}
	if len(lines) != len(want) {
		t.Fatalf("ScopeDiff lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("ScopeDiff lines[%d] = %d, want %d", i, lines[i], want[i])
		}
	}

	addedLines, _ := RangeOfChangedLines(file, ScopeAdded, false)
	if len(addedLines) != 2 || addedLines[0] != 10 || addedLines[1] != 11 {
		t.Errorf("ScopeAdded lines = %v, want [10 11]", addedLines)
	}
}
