package github

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpp-linter/cpp-linter-go/internal/env"
)

func TestNewRequiresTokenInCI(t *testing.T) {
	cfg := &env.RunConfig{CI: true, Token: ""}
	_, err := New(cfg, nil, nil)
	if _, ok := err.(*ErrMissingToken); !ok {
		t.Fatalf("New() error = %v, want *ErrMissingToken", err)
	}
}

func TestNewAllowsMissingTokenLocally(t *testing.T) {
	cfg := &env.RunConfig{CI: false, Token: ""}
	client, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v, want nil for a local run", err)
	}
	if client == nil {
		t.Fatal("New() returned a nil client with no error")
	}
}

func TestJoinInts(t *testing.T) {
	if got := joinInts([]int{1, 2, 3}); got != "1,2,3" {
		t.Errorf("joinInts() = %q, want %q", got, "1,2,3")
	}
	if got := joinInts(nil); got != "" {
		t.Errorf("joinInts(nil) = %q, want empty", got)
	}
}

func TestWebBaseURLDefaultsToGitHubCom(t *testing.T) {
	c := &Client{cfg: &env.RunConfig{APIURL: "https://api.github.com"}}
	if got := c.webBaseURL(); got != "https://github.com" {
		t.Errorf("webBaseURL() = %q, want https://github.com", got)
	}
}

func TestWebBaseURLStripsEnterpriseAPISuffix(t *testing.T) {
	c := &Client{cfg: &env.RunConfig{APIURL: "https://git.example.com/api/v3"}}
	if got := c.webBaseURL(); got != "https://git.example.com" {
		t.Errorf("webBaseURL() = %q, want https://git.example.com", got)
	}
}

func TestChangeSetURLPullRequest(t *testing.T) {
	c := &Client{cfg: &env.RunConfig{
		APIURL: "https://api.github.com", EventName: "pull_request",
		RepositoryOwner: "acme", RepositoryName: "widgets", PRNumber: 42,
	}}
	got, err := c.changeSetURL()
	if err != nil {
		t.Fatalf("changeSetURL() error = %v", err)
	}
	want := "https://api.github.com/repos/acme/widgets/pulls/42"
	if got != want {
		t.Errorf("changeSetURL() = %q, want %q", got, want)
	}
}

func TestChangeSetURLPullRequestWithoutNumberErrors(t *testing.T) {
	c := &Client{cfg: &env.RunConfig{APIURL: "https://api.github.com", EventName: "pull_request"}}
	if _, err := c.changeSetURL(); err == nil {
		t.Fatal("changeSetURL() error = nil, want an error for a missing PR number")
	}
}

func TestChangeSetURLPush(t *testing.T) {
	c := &Client{cfg: &env.RunConfig{
		APIURL: "https://api.github.com", EventName: "push",
		RepositoryOwner: "acme", RepositoryName: "widgets", SHA: "deadbeef",
	}}
	got, err := c.changeSetURL()
	if err != nil {
		t.Fatalf("changeSetURL() error = %v", err)
	}
	want := "https://api.github.com/repos/acme/widgets/commits/deadbeef"
	if got != want {
		t.Errorf("changeSetURL() = %q, want %q", got, want)
	}
}

func TestErrRateLimitedMessage(t *testing.T) {
	err := &ErrRateLimited{}
	if !strings.Contains(err.Error(), "rate limit exhausted") {
		t.Errorf("Error() = %q, missing the rate-limit phrase", err.Error())
	}
}

func TestWriteExitCodeOutputsNoopWithoutPath(t *testing.T) {
	if err := WriteExitCodeOutputs("", 1, 1, 0); err != nil {
		t.Errorf("WriteExitCodeOutputs(\"\") error = %v, want nil", err)
	}
}

func TestWriteExitCodeOutputsAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs")
	if err := WriteExitCodeOutputs(path, 3, 2, 1); err != nil {
		t.Fatalf("WriteExitCodeOutputs() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	want := "checks-failed=3\nclang-format-checks-failed=2\nclang-tidy-checks-failed=1\n"
	if string(data) != want {
		t.Errorf("outputs = %q, want %q", string(data), want)
	}
}

func TestWriteStepSummaryNoopWithoutPath(t *testing.T) {
	if err := WriteStepSummary("", "body"); err != nil {
		t.Errorf("WriteStepSummary(\"\") error = %v, want nil", err)
	}
}

func TestWriteStepSummaryAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary")
	if err := WriteStepSummary(path, "first\n"); err != nil {
		t.Fatalf("WriteStepSummary() error = %v", err)
	}
	if err := WriteStepSummary(path, "second\n"); err != nil {
		t.Fatalf("WriteStepSummary() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("summary = %q, want both writes appended", string(data))
	}
}
