package toolresolver

import "testing"

func TestResolveUnknownToolReturnsNamedError(t *testing.T) {
	_, err := Resolve("clang-format", "999")
	if err == nil {
		t.Fatal("expected an error for a nonexistent versioned tool")
	}
	notFound, ok := err.(*ErrToolNotFound)
	if !ok {
		t.Fatalf("expected *ErrToolNotFound, got %T", err)
	}
	if notFound.Tool != "clang-format" {
		t.Errorf("Tool = %q, want clang-format", notFound.Tool)
	}
}

func TestResolveInstallPathSpecNotFound(t *testing.T) {
	_, err := Resolve("clang-tidy", "/nonexistent/install/path")
	if err == nil {
		t.Fatal("expected an error when the install path does not contain the tool")
	}
}

func TestDottedVersionRegex(t *testing.T) {
	cases := map[string]bool{
		"":          false, // handled separately, not matched against regex directly
		"14":        true,
		"14.0.6":    true,
		"/opt/llvm": false,
	}
	for in, want := range cases {
		if in == "" {
			continue
		}
		if got := dottedVersion.MatchString(in); got != want {
			t.Errorf("dottedVersion.MatchString(%q) = %v, want %v", in, got, want)
		}
	}
}
