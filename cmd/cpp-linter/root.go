// Command cpp-linter is the CLI entrypoint: it registers the flag surface
// on a single cobra command, builds a RunConfig from the flags and the
// process environment, and invokes the orchestrator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpp-linter/cpp-linter-go/internal/env"
	"github.com/cpp-linter/cpp-linter-go/internal/logging"
	"github.com/cpp-linter/cpp-linter-go/internal/orchestrator"
)

var flags env.Flags

// runExitCode carries the orchestrator's computed exit code (as distinct
// from a fatal RunE error) out to main, since cobra only surfaces errors.
var runExitCode int

var rootCmd = &cobra.Command{
	Use:           "cpp-linter",
	Short:         "Continuous-integration linter driver for C/C++",
	Long:          "cpp-linter runs clang-format and clang-tidy over the lines a commit or pull request changed, and publishes the findings back to the hosting platform.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

// Execute runs the CLI and returns its terminal error, if any.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.Verbosity, "verbosity", "info", "log verbosity: debug, info, warn, error")
	f.StringVar(&flags.Version, "version", "", "clang-format/clang-tidy version spec: empty, a dotted version, or an install path")
	f.StringVar(&flags.Database, "database", "", "path to the directory containing compile_commands.json")
	f.StringVar(&flags.Style, "style", "llvm", "clang-format style name, or 'file' to read .clang-format; empty disables the formatter")
	f.StringVar(&flags.TidyChecks, "tidy-checks", "", "clang-tidy -checks value; '-*' disables the analyzer")
	f.StringSliceVar(&flags.Extensions, "extensions", []string{"c", "h", "cpp", "hpp", "cc", "hh", "cxx", "hxx"}, "comma-separated list of file extensions to lint")
	f.StringVar(&flags.RepoRoot, "repo-root", ".", "path to the repository root")
	f.StringVar(&flags.Ignore, "ignore", "", "'|'-separated ignore/not-ignore glob list")
	f.StringVar(&flags.LinesChangedOnly, "lines-changed-only", "false", "restrict reported concerns to: false (all lines), diff, true (added lines only)")
	f.BoolVar(&flags.FilesChangedOnly, "files-changed-only", true, "only lint files touched by the event's diff")
	f.StringVar(&flags.ThreadComments, "thread-comments", "true", "thread comment mode: true, false, update")
	f.BoolVar(&flags.NoLGTM, "no-lgtm", false, "when there are no concerns, suppress the approving review and, with --thread-comments=update, the thread comment")
	f.BoolVar(&flags.StepSummary, "step-summary", false, "write an unbounded report to the platform's step summary")
	f.BoolVar(&flags.FileAnnotations, "file-annotations", true, "emit inline file annotations")
	f.StringArrayVar(&flags.ExtraArg, "extra-arg", nil, "extra clang-tidy compiler argument (repeatable)")
	f.BoolVar(&flags.TidyReview, "tidy-review", false, "include clang-tidy suggestions in the pull-request review")
	f.BoolVar(&flags.FormatReview, "format-review", false, "include clang-format suggestions in the pull-request review")
	f.IntVar(&flags.Jobs, "jobs", 0, "number of files to process concurrently; 0 means the number of CPUs")
	f.BoolVar(&flags.IgnoreTidy, "ignore-tidy", false, "skip the analyzer entirely")
	f.BoolVar(&flags.IgnoreFormat, "ignore-format", false, "skip the formatter entirely")
}

func runRoot(cmd *cobra.Command, args []string) error {
	logger := logging.New(env.Truthy(os.Getenv("CI")), parseVerbosity(flags.Verbosity))

	cfg, err := env.Load(os.Getenv, flags, logger)
	if err != nil {
		return err
	}

	code, err := orchestrator.Run(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	runExitCode = code
	return nil
}

func parseVerbosity(v string) slog.Level {
	switch v {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(runExitCode)
}
