// Package env resolves the process environment and CLI flags into a
// single immutable RunConfig.
package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// LinesChangedOnly selects which lines of a file are in scope for reported
// concerns, mirroring the --lines-changed-only flag's three-way contract.
type LinesChangedOnly string

const (
	LinesAll   LinesChangedOnly = "false"
	LinesDiff  LinesChangedOnly = "diff"
	LinesAdded LinesChangedOnly = "true"
)

// ThreadCommentsMode selects how the single owned thread comment is
// maintained across runs.
type ThreadCommentsMode string

const (
	ThreadCommentsOn     ThreadCommentsMode = "true"
	ThreadCommentsOff    ThreadCommentsMode = "false"
	ThreadCommentsUpdate ThreadCommentsMode = "update"
)

// ConfigError names the offending field when environment or flag validation
// fails, so the CLI can print a one-line rationale without a stack trace.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// Flags mirrors the command-line surface as parsed by the CLI
// entrypoint's flag set. Values here take precedence over nothing;
// RunConfig is built from Flags plus the ambient process environment.
type Flags struct {
	Verbosity        string
	Version          string
	Database         string
	Style            string
	TidyChecks       string
	Extensions       []string
	RepoRoot         string
	Ignore           string
	LinesChangedOnly string
	FilesChangedOnly bool
	ThreadComments   string
	NoLGTM           bool
	StepSummary      bool
	FileAnnotations  bool
	ExtraArg         []string
	TidyReview       bool
	FormatReview     bool
	Jobs             int
	IgnoreTidy       bool
	IgnoreFormat     bool
}

// RunConfig is the single immutable value threading every resolved
// environment and flag input through the pipeline. No component reaches
// for a package-level global instead.
type RunConfig struct {
	// Platform identity, from the environment.
	CI                  bool
	APIURL              string
	RepositoryOwner     string
	RepositoryName      string
	RepositoryIsPrivate bool
	SHA                 string
	EventName           string
	PRNumber            int64
	Token               string
	StepSummaryPath     string
	OutputPath          string
	CacheDir            string
	SummaryOnly         bool

	// Resolved flags.
	Verbosity        string
	Version          string
	Database         string
	Style            string
	TidyChecks       string
	Extensions       []string
	RepoRoot         string
	Ignore           string
	LinesChangedOnly LinesChangedOnly
	FilesChangedOnly bool
	ThreadComments   ThreadCommentsMode
	NoLGTM           bool
	StepSummary      bool
	FileAnnotations  bool
	ExtraArg         []string
	TidyReview       bool
	FormatReview     bool
	Jobs             int
	IgnoreTidy       bool
	IgnoreFormat     bool
}

// Load builds a RunConfig from the current process environment and the
// flags already parsed by the CLI layer. getenv is injected for
// testability; logger (optional) receives warnings about inputs that are
// tolerated rather than rejected.
func Load(getenv func(string) string, flags Flags, logger *slog.Logger) (*RunConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := &RunConfig{
		CI:              Truthy(getenv("CI")),
		APIURL:          firstNonEmpty(getenv("GITHUB_API_URL"), "https://api.github.com"),
		SHA:             getenv("GITHUB_SHA"),
		EventName:       getenv("GITHUB_EVENT_NAME"),
		Token:           getenv("GITHUB_TOKEN"),
		StepSummaryPath: getenv("GITHUB_STEP_SUMMARY"),
		OutputPath:      getenv("GITHUB_OUTPUT"),
		CacheDir:        firstNonEmpty(getenv("CPP_LINTER_CACHE"), ".cpp-linter_cache"),
		SummaryOnly:     Truthy(getenv("CPP_LINTER_PR_REVIEW_SUMMARY_ONLY")),

		Verbosity:        flags.Verbosity,
		Version:          flags.Version,
		Database:         flags.Database,
		Style:            flags.Style,
		TidyChecks:       flags.TidyChecks,
		Extensions:       splitExtensions(flags.Extensions),
		RepoRoot:         flags.RepoRoot,
		Ignore:           flags.Ignore,
		FilesChangedOnly: flags.FilesChangedOnly,
		NoLGTM:           flags.NoLGTM,
		StepSummary:      flags.StepSummary,
		FileAnnotations:  flags.FileAnnotations,
		ExtraArg:         flags.ExtraArg,
		TidyReview:       flags.TidyReview,
		FormatReview:     flags.FormatReview,
		Jobs:             flags.Jobs,
		IgnoreTidy:       flags.IgnoreTidy,
		IgnoreFormat:     flags.IgnoreFormat,
	}

	switch LinesChangedOnly(flags.LinesChangedOnly) {
	case LinesAll, "":
		cfg.LinesChangedOnly = LinesAll
	case LinesDiff:
		cfg.LinesChangedOnly = LinesDiff
	case LinesAdded:
		cfg.LinesChangedOnly = LinesAdded
	default:
		return nil, &ConfigError{Field: "--lines-changed-only", Reason: fmt.Sprintf("must be one of false, diff, true, got %q", flags.LinesChangedOnly)}
	}

	switch ThreadCommentsMode(flags.ThreadComments) {
	case ThreadCommentsOn, ThreadCommentsOff, ThreadCommentsUpdate, "":
		cfg.ThreadComments = ThreadCommentsMode(firstNonEmpty(flags.ThreadComments, string(ThreadCommentsOn)))
	default:
		return nil, &ConfigError{Field: "--thread-comments", Reason: fmt.Sprintf("must be one of true, false, update, got %q", flags.ThreadComments)}
	}

	if cfg.EventName != "" && cfg.EventName != "pull_request" && cfg.EventName != "push" {
		if logger != nil {
			logger.Warn("unrecognized event name, treating as push", "event", cfg.EventName)
		}
		cfg.EventName = "push"
	}

	repo := getenv("GITHUB_REPOSITORY")
	if cfg.CI && repo == "" {
		return nil, &ConfigError{Field: "GITHUB_REPOSITORY", Reason: "required when CI is set"}
	}
	if repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok {
			return nil, &ConfigError{Field: "GITHUB_REPOSITORY", Reason: fmt.Sprintf("expected owner/name, got %q", repo)}
		}
		cfg.RepositoryOwner, cfg.RepositoryName = owner, name
	}

	if eventPath := getenv("GITHUB_EVENT_PATH"); eventPath != "" {
		if err := cfg.loadEventPayload(eventPath); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadEventPayload reads only the two scalar fields ever needed from the
// otherwise large, schema-varying webhook payload: the PR number and the
// repository's visibility.
func (c *RunConfig) loadEventPayload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "GITHUB_EVENT_PATH", Reason: err.Error()}
	}
	result := gjson.ParseBytes(data)
	c.PRNumber = result.Get("number").Int()
	c.RepositoryIsPrivate = result.Get("repository.private").Bool()
	return nil
}

// Truthy reports whether an environment value should be read as enabled,
// accepting the common CI spellings alongside strconv.ParseBool's.
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// splitExtensions normalizes a comma-separated extensions list, stripping
// optional leading dots and empty entries.
func splitExtensions(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "."))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
