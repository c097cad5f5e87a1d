// Package orchestrator sequences the pipeline end to end, from change-set
// discovery through concurrent per-file tool invocation to publication,
// and computes the process exit code.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cpp-linter/cpp-linter-go/internal/advice"
	"github.com/cpp-linter/cpp-linter-go/internal/analyzerrunner"
	"github.com/cpp-linter/cpp-linter-go/internal/cache"
	"github.com/cpp-linter/cpp-linter-go/internal/comment"
	"github.com/cpp-linter/cpp-linter-go/internal/difflib"
	"github.com/cpp-linter/cpp-linter-go/internal/env"
	"github.com/cpp-linter/cpp-linter-go/internal/filefilter"
	"github.com/cpp-linter/cpp-linter-go/internal/formatrunner"
	"github.com/cpp-linter/cpp-linter-go/internal/logging"
	"github.com/cpp-linter/cpp-linter-go/internal/suggestion"
	"github.com/cpp-linter/cpp-linter-go/internal/toolresolver"

	ghclient "github.com/cpp-linter/cpp-linter-go/github"
)

// tidyDocsDomain is the base URL used to linkify clang-tidy check names in
// composed diagnostics.
const tidyDocsDomain = "https://clang.llvm.org/extra/clang-tidy/checks"

// threadCommentLimit is the platform's maximum issue/commit comment body
// size, in bytes.
const threadCommentLimit = 65536

// fixTimeout bounds the auto-fix snapshot/restore read/write retries.
const fixTimeout = time.Second

// fileResult is one file's aggregated tool output, produced by a worker.
type fileResult struct {
	record *difflib.FileRecord
	format *advice.FormatAdvice
	tidy   *advice.TidyAdvice
}

// Run executes the full pipeline for cfg and returns the process exit code:
// 0 when no concerns were found, 1 otherwise (or on a fatal error).
func Run(ctx context.Context, cfg *env.RunConfig, logger *slog.Logger) (int, error) {
	repoRoot := cfg.RepoRoot
	if repoRoot == "" {
		repoRoot = "."
	}
	if err := os.Chdir(repoRoot); err != nil {
		return 1, fmt.Errorf("orchestrator: changing to repo root %s: %w", repoRoot, err)
	}

	store := cache.New(cfg.CacheDir)
	commander := logging.NewCommander(os.Stdout)

	client, err := ghclient.New(cfg, store, commander)
	if err != nil {
		return 1, err
	}

	formatFilter := filefilter.New(cfg.Extensions, cfg.Ignore, nil, "clang-format")
	tidyFilter := filefilter.New(cfg.Extensions, cfg.Ignore, nil, "clang-tidy")
	if err := formatFilter.ParseSubmodules(".gitmodules"); err != nil {
		logger.Warn("parsing .gitmodules", "error", err)
	}
	if err := tidyFilter.ParseSubmodules(".gitmodules"); err != nil {
		logger.Warn("parsing .gitmodules", "error", err)
	}

	records, err := discoverRecords(ctx, cfg, client, formatFilter, logger)
	if err != nil {
		return 1, err
	}

	var filtered []*difflib.FileRecord
	for _, r := range records {
		if formatFilter.Accepts(r.Path) || tidyFilter.Accepts(r.Path) {
			filtered = append(filtered, r)
		}
	}

	paths := make([]string, len(filtered))
	for i, r := range filtered {
		paths[i] = r.Path
	}
	if err := client.EnsureFilesExist(ctx, repoRoot, paths); err != nil {
		return 1, err
	}

	db, err := analyzerrunner.LoadCompilationDatabase(cfg.Database)
	if err != nil {
		logger.Warn("loading compilation database", "error", err)
	}

	formatOn := !cfg.IgnoreFormat && cfg.Style != ""
	tidyOn := !cfg.IgnoreTidy && cfg.TidyChecks != "-*"

	var formatTool, tidyTool string
	if formatOn {
		formatTool, err = toolresolver.Resolve("clang-format", cfg.Version)
		if err != nil {
			return 1, fmt.Errorf("orchestrator: resolving clang-format: %w", err)
		}
	}
	if tidyOn {
		tidyTool, err = toolresolver.Resolve("clang-tidy", cfg.Version)
		if err != nil {
			return 1, fmt.Errorf("orchestrator: resolving clang-tidy: %w", err)
		}
	}

	results, err := runWorkers(ctx, cfg, logger, commander, filtered, formatOn, tidyOn, formatTool, tidyTool, db, repoRoot)
	if err != nil {
		return 1, err
	}

	batch := suggestion.NewReviewBatch()
	outcomes := make([]comment.FileOutcome, 0, len(results))
	for _, res := range results {
		outcomes = append(outcomes, comment.FileOutcome{Path: res.record.Path, Format: res.format, Tidy: res.tidy})

		if cfg.FormatReview && res.format != nil && res.format.Patched != nil {
			original, readErr := os.ReadFile(res.record.Path)
			if readErr == nil {
				if buildErr := suggestion.BuildFromPatch(batch, "clang-format", tidyDocsDomain, res.record.Path, original, res.format.Patched, res.record.Chunks, res.tidy, cfg.SummaryOnly); buildErr != nil {
					logger.Warn("building clang-format suggestions", "file", res.record.Path, "error", buildErr)
				}
			}
		}
		if cfg.TidyReview && res.tidy != nil && res.tidy.Patched != nil {
			original, readErr := os.ReadFile(res.record.Path)
			if readErr == nil {
				if buildErr := suggestion.BuildFromPatch(batch, "clang-tidy", tidyDocsDomain, res.record.Path, original, res.tidy.Patched, res.record.Chunks, res.tidy, cfg.SummaryOnly); buildErr != nil {
					logger.Warn("building clang-tidy suggestions", "file", res.record.Path, "error", buildErr)
				}
			}
		}
		if cfg.TidyReview && res.tidy != nil {
			suggestion.AppendUnfixedDiagnostics(batch, tidyDocsDomain, res.record.Path, res.tidy, res.record.Chunks, cfg.SummaryOnly)
		}

		if cfg.FileAnnotations {
			emitAnnotations(client, res, formatrunner.DisplayStyleName(cfg.Style))
		}
	}

	styleName := formatrunner.DisplayStyleName(cfg.Style)
	threadBody, formatFailed, tidyFailed := comment.ComposeThreadComment(outcomes, styleName, threadCommentLimit)
	summaryBody, _, _ := comment.ComposeStepSummary(outcomes, styleName)

	if cfg.ThreadComments != env.ThreadCommentsOff {
		isLGTM := formatFailed == 0 && tidyFailed == 0
		updateOnly := cfg.ThreadComments == env.ThreadCommentsUpdate
		if pubErr := client.PublishThreadComment(ctx, threadBody, isLGTM, updateOnly, cfg.NoLGTM); pubErr != nil {
			logger.Warn("publishing thread comment", "error", pubErr)
		}
	}

	if cfg.StepSummary {
		if sumErr := ghclient.WriteStepSummary(cfg.StepSummaryPath, summaryBody); sumErr != nil {
			logger.Warn("writing step summary", "error", sumErr)
		}
	}

	if cfg.FormatReview || cfg.TidyReview {
		body, event, submit := comment.ComposeReviewBody(batch, cfg.NoLGTM)
		if submit {
			if pubErr := client.PublishReview(ctx, body, event, batch.Suggestions, cfg.NoLGTM); pubErr != nil {
				logger.Warn("publishing review", "error", pubErr)
			}
		}
	}

	checksFailed := formatFailed + tidyFailed
	if outErr := ghclient.WriteExitCodeOutputs(cfg.OutputPath, checksFailed, formatFailed, tidyFailed); outErr != nil {
		logger.Warn("writing exit code outputs", "error", outErr)
	}

	if checksFailed > 0 {
		return 1, nil
	}
	return 0, nil
}

// discoverRecords obtains the file records this run should process: either
// the event's diff chunks (the default), or every matching source file in
// the tree when --files-changed-only is false.
func discoverRecords(ctx context.Context, cfg *env.RunConfig, client *ghclient.Client, filter *filefilter.Filter, logger *slog.Logger) ([]*difflib.FileRecord, error) {
	if !cfg.FilesChangedOnly {
		paths, err := filter.ListSourceFiles(".")
		if err != nil {
			return nil, fmt.Errorf("orchestrator: listing source files: %w", err)
		}
		records := make([]*difflib.FileRecord, len(paths))
		for i, p := range paths {
			records[i] = &difflib.FileRecord{Path: p}
		}
		return records, nil
	}

	cs, err := client.DiscoverChangedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: discovering changed files: %w", err)
	}
	records, err := difflib.ParseWithFallback(cs.Diff, logger)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parsing diff: %w", err)
	}
	return records, nil
}

// runWorkers processes every record concurrently, bounded by cfg.Jobs
// (0 resolves to runtime.NumCPU()), preserving the file-input order in the
// returned slice regardless of completion order.
func runWorkers(ctx context.Context, cfg *env.RunConfig, logger *slog.Logger, commander *logging.Commander, records []*difflib.FileRecord, formatOn, tidyOn bool, formatTool, tidyTool string, db analyzerrunner.CompilationDatabase, repoRoot string) ([]fileResult, error) {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]fileResult, len(records))
	sem := semaphore.NewWeighted(int64(jobs))
	g, gctx := errgroup.WithContext(ctx)
	var groupMu sync.Mutex

	for i, rec := range records {
		i, rec := i, rec
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			group := logging.NewGroupLogger(logger)
			res := processFile(gctx, cfg, group, rec, formatOn, tidyOn, formatTool, tidyTool, db, repoRoot)
			results[i] = res
			groupMu.Lock()
			if commander != nil {
				commander.StartGroup(rec.Path)
			}
			group.Flush()
			if commander != nil {
				commander.EndGroup()
			}
			groupMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scopedChunks derives the chunk list and "all lines in scope" flag used to
// restrict a tool invocation, from the configured line-change scope. When
// the run is not confined to a diff (no Chunks on rec, per discoverRecords'
// whole-tree listing branch) every line is always in scope.
func scopedChunks(cfg *env.RunConfig, rec *difflib.FileRecord) ([]difflib.LineRange, bool) {
	if !cfg.FilesChangedOnly {
		return nil, true
	}
	switch cfg.LinesChangedOnly {
	case env.LinesAll:
		return nil, true
	case env.LinesAdded:
		return rec.AddedRanges(), false
	default: // env.LinesDiff
		return rec.Chunks, false
	}
}

func buildLineFilter(path string, chunks []difflib.LineRange) []analyzerrunner.LineFilterEntry {
	if len(chunks) == 0 {
		return nil
	}
	pairs := make([][]int, 0, len(chunks))
	for _, c := range chunks {
		pairs = append(pairs, []int{c.Start, c.End})
	}
	return []analyzerrunner.LineFilterEntry{{Name: path, Lines: pairs}}
}

// processFile runs the formatter then the analyzer against rec, in that
// order within one worker. Running both sequentially per file (rather than
// as two concurrent sub-goroutines) is what satisfies the "a per-file mutex
// prevents the formatter and analyzer from both running their fix-capture
// passes on the same file simultaneously" requirement, without needing an
// actual mutex: only one of the two ever touches the file's bytes at a time.
func processFile(ctx context.Context, cfg *env.RunConfig, logger *logging.GroupLogger, rec *difflib.FileRecord, formatOn, tidyOn bool, formatTool, tidyTool string, db analyzerrunner.CompilationDatabase, repoRoot string) fileResult {
	res := fileResult{record: rec}
	chunks, allLines := scopedChunks(cfg, rec)
	if !allLines && len(chunks) == 0 {
		// Nothing in this file falls inside the chosen scope.
		return res
	}

	if formatOn {
		fa, err := formatrunner.Run(ctx, formatTool, cfg.Style, rec.Path, chunks, allLines)
		if err != nil {
			logger.Warn("clang-format failed", "file", rec.Path, "error", err)
		} else {
			res.format = fa
			if cfg.FormatReview {
				patched, perr := formatrunner.RunPatched(ctx, formatTool, cfg.Style, rec.Path)
				if perr != nil {
					logger.Warn("capturing clang-format patched output failed", "file", rec.Path, "error", perr)
				} else {
					res.format.Patched = patched
				}
			}
		}
	}

	if tidyOn {
		filter := buildLineFilter(rec.Path, chunks)
		ta, err := analyzerrunner.Run(ctx, tidyTool, cfg.TidyChecks, cfg.Database, filter, cfg.ExtraArg, rec.Path, db, repoRoot, true)
		if err != nil {
			logger.Warn("clang-tidy failed", "file", rec.Path, "error", err)
		} else {
			res.tidy = ta
			if cfg.TidyReview {
				patched, perr := analyzerrunner.RunAutoFix(ctx, tidyTool, cfg.TidyChecks, cfg.Database, filter, cfg.ExtraArg, rec.Path, fixTimeout)
				if perr != nil {
					logger.Warn("capturing clang-tidy patched output failed", "file", rec.Path, "error", perr)
				} else {
					res.tidy.Patched = patched
				}
			}
		}
	}

	return res
}

// emitAnnotations writes the file's clang-format/clang-tidy annotations via
// the platform client's grouped commander.
func emitAnnotations(client *ghclient.Client, res fileResult, styleName string) {
	var formatLines []int
	if res.format.HasChanges() {
		for _, l := range res.format.Lines {
			formatLines = append(formatLines, l.Line)
		}
	}

	var diags []ghclient.Annotation
	if res.tidy != nil {
		for _, d := range res.tidy.Diagnostics {
			diags = append(diags, ghclient.Annotation{Line: d.Line, Severity: string(d.Severity), Check: d.CheckName, Message: d.Rationale})
		}
	}

	client.EmitFileAnnotations(res.record.Path, res.format.HasChanges(), formatLines, styleName, diags)
}
