package env

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeGetenv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaultsWhenNotCI(t *testing.T) {
	cfg, err := Load(fakeGetenv(nil), Flags{}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CI {
		t.Error("expected CI to be false")
	}
	if cfg.APIURL != "https://api.github.com" {
		t.Errorf("APIURL = %q, want default", cfg.APIURL)
	}
	if cfg.Jobs != 0 {
		t.Errorf("Jobs = %d, want default 0 (resolved to NumCPU by the orchestrator)", cfg.Jobs)
	}
	if cfg.CacheDir != ".cpp-linter_cache" {
		t.Errorf("CacheDir = %q, want default", cfg.CacheDir)
	}
}

func TestLoadRequiresRepositoryWhenCI(t *testing.T) {
	_, err := Load(fakeGetenv(map[string]string{"CI": "true"}), Flags{}, nil)
	if err == nil {
		t.Fatal("expected an error when CI is set without GITHUB_REPOSITORY")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestLoadParsesRepository(t *testing.T) {
	cfg, err := Load(fakeGetenv(map[string]string{
		"CI":                "true",
		"GITHUB_REPOSITORY": "cpp-linter/cpp-linter-go",
	}), Flags{}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RepositoryOwner != "cpp-linter" || cfg.RepositoryName != "cpp-linter-go" {
		t.Errorf("got owner=%q name=%q", cfg.RepositoryOwner, cfg.RepositoryName)
	}
}

func TestLoadRejectsMalformedRepository(t *testing.T) {
	_, err := Load(fakeGetenv(map[string]string{
		"CI":                "true",
		"GITHUB_REPOSITORY": "not-a-slash-pair",
	}), Flags{}, nil)
	if err == nil {
		t.Fatal("expected an error for a malformed GITHUB_REPOSITORY")
	}
}

func TestLoadRejectsInvalidLinesChangedOnly(t *testing.T) {
	_, err := Load(fakeGetenv(nil), Flags{LinesChangedOnly: "sometimes"}, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid --lines-changed-only value")
	}
}

func TestLoadRejectsInvalidThreadComments(t *testing.T) {
	_, err := Load(fakeGetenv(nil), Flags{ThreadComments: "maybe"}, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid --thread-comments value")
	}
}

func TestLoadDefaultsThreadCommentsToTrue(t *testing.T) {
	cfg, err := Load(fakeGetenv(nil), Flags{}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ThreadComments != ThreadCommentsOn {
		t.Errorf("ThreadComments = %q, want %q", cfg.ThreadComments, ThreadCommentsOn)
	}
}

func TestLoadUnrecognizedEventNameWarnsAndTreatsAsPush(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg, err := Load(fakeGetenv(map[string]string{"GITHUB_EVENT_NAME": "workflow_dispatch"}), Flags{}, logger)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EventName != "push" {
		t.Errorf("EventName = %q, want push", cfg.EventName)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected a warning to be logged, got %q", out)
	}
	if !strings.Contains(out, "workflow_dispatch") {
		t.Errorf("warning does not name the offending event: %q", out)
	}
}

func TestLoadRecognizedEventNamesDoNotWarn(t *testing.T) {
	for _, event := range []string{"pull_request", "push", ""} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		if _, err := Load(fakeGetenv(map[string]string{"GITHUB_EVENT_NAME": event}), Flags{}, logger); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if strings.Contains(buf.String(), "level=WARN") {
			t.Errorf("event %q produced an unexpected warning: %q", event, buf.String())
		}
	}
}

func TestLoadParsesEventPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.json")
	if err := os.WriteFile(path, []byte(`{"number": 42, "repository": {"private": true}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(fakeGetenv(map[string]string{"GITHUB_EVENT_PATH": path}), Flags{}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PRNumber != 42 {
		t.Errorf("PRNumber = %d, want 42", cfg.PRNumber)
	}
	if !cfg.RepositoryIsPrivate {
		t.Error("expected RepositoryIsPrivate to be true")
	}
}

func TestSplitExtensionsStripsDotsAndCommas(t *testing.T) {
	got := splitExtensions([]string{"cpp,hpp", ".h"})
	want := []string{"cpp", "hpp", "h"}
	if len(got) != len(want) {
		t.Fatalf("splitExtensions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitExtensions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
