package filefilter

import "testing"

func TestAcceptsExtensionMismatch(t *testing.T) {
	f := New([]string{"cpp", "hpp"}, "", nil, "")
	if f.Accepts("README.md") {
		t.Error("expected README.md to be rejected (extension not in list)")
	}
	if !f.Accepts("src/a.cpp") {
		t.Error("expected src/a.cpp to be accepted")
	}
}

func TestAcceptsIgnoredDirectory(t *testing.T) {
	f := New([]string{"cpp"}, "", nil, "")
	f.ignored["vendor"] = []string{"vendor"}
	if f.Accepts("vendor/lib.cpp") {
		t.Error("expected vendor/lib.cpp to be rejected by ignored directory")
	}
	if !f.Accepts("src/lib.cpp") {
		t.Error("expected src/lib.cpp to be accepted")
	}
}

func TestNotIgnoredWinsOverIgnored(t *testing.T) {
	f := New([]string{"cpp"}, "", nil, "")
	f.ignored["vendor"] = []string{"vendor"}
	f.notIgnored["vendor/keep.cpp"] = []string{"vendor/keep.cpp"}
	if !f.Accepts("vendor/keep.cpp") {
		t.Error("expected not_ignored to take precedence over ignored for the same file")
	}
	if f.Accepts("vendor/skip.cpp") {
		t.Error("expected other files under vendor/ to remain ignored")
	}
}

func TestParseIgnoreLeadingBang(t *testing.T) {
	f := &Filter{
		extensions: map[string]bool{"cpp": true},
		ignored:    make(map[string][]string),
		notIgnored: make(map[string][]string),
	}
	f.parseIgnore("vendor|!vendor/keep.cpp")
	if _, ok := f.ignored["vendor"]; !ok {
		t.Error("expected 'vendor' to be parsed into ignored")
	}
	if _, ok := f.notIgnored["vendor/keep.cpp"]; !ok {
		t.Error("expected '!vendor/keep.cpp' to be parsed into notIgnored without the leading bang")
	}
}

func TestParseIgnoreStripsLeadingDotSlash(t *testing.T) {
	f := &Filter{
		extensions: map[string]bool{"cpp": true},
		ignored:    make(map[string][]string),
		notIgnored: make(map[string][]string),
	}
	f.parseIgnore("./build")
	if _, ok := f.ignored["build"]; !ok {
		t.Errorf("expected './build' to be normalized to 'build', got keys %v", f.ignored)
	}
}

func TestFilterFilesPreservesOrder(t *testing.T) {
	f := New([]string{"cpp"}, "", nil, "")
	in := []string{"src/a.cpp", "README.md", "src/b.cpp"}
	out := f.FilterFiles(in)
	want := []string{"src/a.cpp", "src/b.cpp"}
	if len(out) != len(want) {
		t.Fatalf("FilterFiles() = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("FilterFiles()[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestFilterFilesIdempotent(t *testing.T) {
	f := New([]string{"cpp"}, "", nil, "")
	in := []string{"src/a.cpp", "README.md", "src/b.cpp"}
	once := f.FilterFiles(in)
	twice := f.FilterFiles(once)
	if len(once) != len(twice) {
		t.Fatalf("filtering an already-filtered list changed its length: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("filtering is not idempotent at index %d: %q vs %q", i, once[i], twice[i])
		}
	}
}
