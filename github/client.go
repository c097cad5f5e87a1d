// Package github implements the set of REST operations the orchestrator
// uses to discover a change set, fetch missing files, maintain a single
// owned thread comment, and submit/dismiss pull-request reviews, all
// against a bearer-token-authenticated GitHub session with primary and
// secondary rate-limit handling.
package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	gogithub "github.com/google/go-github/v66/github"

	"github.com/cpp-linter/cpp-linter-go/internal/cache"
	"github.com/cpp-linter/cpp-linter-go/internal/comment"
	"github.com/cpp-linter/cpp-linter-go/internal/env"
	"github.com/cpp-linter/cpp-linter-go/internal/logging"
	"github.com/cpp-linter/cpp-linter-go/internal/suggestion"
)

// HiddenMarker prefixes every comment and review body this system posts, so
// a later run can find and own the single comment/review it previously
// created. Defined once in the comment package; aliased here since the
// platform client locates owned comments/reviews by the same prefix.
const HiddenMarker = comment.HiddenMarker

const maxBackoffs = 5

// ErrRateLimited is returned once the primary rate limit is known to be
// exhausted; ResetAt is the time the platform reports the limit resets.
type ErrRateLimited struct {
	ResetAt time.Time
}

func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("github: rate limit exhausted, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// ErrMissingToken is a configuration error: publishing was requested but no
// bearer credential is available.
type ErrMissingToken struct{}

func (e *ErrMissingToken) Error() string { return "github: GITHUB_TOKEN is required to publish" }

// Client is the Platform Client. One Client is built per run from a
// RunConfig; every publish operation is a method on it.
type Client struct {
	cfg       *env.RunConfig
	gh        *gogithub.Client
	http      *http.Client
	cache     *cache.Store
	commander *logging.Commander

	mu            sync.Mutex
	rateRemaining int
	rateReset     time.Time
	rateKnown     bool
	dumpSeq       int
}

// New builds a Client for cfg. In CI mode a missing token is an immediate
// configuration error, since every publish step requires it; in local mode
// no credential is required because publish steps are no-ops.
func New(cfg *env.RunConfig, store *cache.Store, commander *logging.Commander) (*Client, error) {
	if cfg.CI && cfg.Token == "" {
		return nil, &ErrMissingToken{}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	gh := gogithub.NewClient(httpClient)
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}
	if cfg.APIURL != "" && cfg.APIURL != "https://api.github.com" {
		if withURLs, err := gh.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL); err == nil {
			gh = withURLs
		}
	}

	return &Client{
		cfg:           cfg,
		gh:            gh,
		http:          httpClient,
		cache:         store,
		commander:     commander,
		rateRemaining: -1,
	}, nil
}

// recordRate updates the rate-limit counter from a response's headers.
// Every request, whether issued through go-github or raw net/http, funnels
// through here so the counter always reflects the most recent call.
func (c *Client) recordRate(h http.Header) {
	remaining := h.Get("X-RateLimit-Remaining")
	reset := h.Get("X-RateLimit-Reset")
	if remaining == "" {
		return
	}
	n, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rateRemaining = n
	c.rateKnown = true
	if reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateReset = time.Unix(epoch, 0)
		}
	}
}

// checkRateLimit returns ErrRateLimited without making any request when the
// primary limit is known to be exhausted.
func (c *Client) checkRateLimit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rateKnown && c.rateRemaining <= 0 {
		return &ErrRateLimited{ResetAt: c.rateReset}
	}
	return nil
}

// doRaw issues req with the primary/secondary rate-limit policy: a zero
// remaining-limit short-circuits before any request; a 403/429 with
// Retry-After backs off Retry-After x backStep seconds, incrementing
// backStep per retry, aborting after maxBackoffs.
func (c *Client) doRaw(req *http.Request) (*http.Response, error) {
	if err := c.checkRateLimit(); err != nil {
		return nil, err
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	backStep := 1
	for attempt := 0; ; attempt++ {
		resp, err := c.http.Do(req)
		if err != nil {
			if attempt < 3 {
				time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
				continue
			}
			return nil, fmt.Errorf("github: request to %s: %w", req.URL, err)
		}
		c.recordRate(resp.Header)

		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if backStep > maxBackoffs {
					resp.Body.Close()
					return nil, fmt.Errorf("github: exceeded %d rate-limit back-offs", maxBackoffs)
				}
				seconds, _ := strconv.Atoi(retryAfter)
				resp.Body.Close()
				time.Sleep(time.Duration(seconds*backStep) * time.Second)
				backStep++
				continue
			}
		}
		if resp.StatusCode >= 500 && attempt < 3 {
			resp.Body.Close()
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		c.dumpRequest(req, resp)
		return resp, nil
	}
}

// dumpRequest writes a one-file-per-request trace of the call into the cache
// directory when running at debug verbosity.
func (c *Client) dumpRequest(req *http.Request, resp *http.Response) {
	if c.cache == nil || c.cfg.Verbosity != "debug" {
		return
	}
	c.mu.Lock()
	c.dumpSeq++
	seq := c.dumpSeq
	c.mu.Unlock()
	dump := fmt.Sprintf("{\"method\":%q,\"url\":%q,\"status\":%d}\n", req.Method, req.URL.String(), resp.StatusCode)
	c.cache.Write(cache.RequestDumpName("request", seq), []byte(dump))
}

// ChangeSet is the result of discovering which files an event touched.
type ChangeSet struct {
	// Diff is the unified diff text handed to the diff parser.
	Diff string
	// Files lists every changed path, used when the diff fetch fell back to
	// the paginated JSON files list (some files may then have no diff
	// text beyond their own per-file patch, already folded into Diff).
	Files []string
}

// DiscoverChangedFiles obtains the event's change set: a local git diff
// when CI is not set, otherwise the platform's unified diff for the pull
// request or push event, falling back to the paginated JSON files list
// when the platform refuses to serve a diff.
func (c *Client) DiscoverChangedFiles(ctx context.Context) (*ChangeSet, error) {
	if !c.cfg.CI {
		return c.localChangeSet(ctx)
	}

	endpoint, err := c.changeSetURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github: building change-set request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.diff")

	resp, err := c.doRaw(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("github: reading diff body: %w", err)
		}
		cs := &ChangeSet{Diff: string(body)}
		c.snapshotDiff(cs.Diff)
		return cs, nil
	}

	return c.paginatedFilesFallback(ctx)
}

func (c *Client) changeSetURL() (string, error) {
	base := strings.TrimSuffix(c.cfg.APIURL, "/")
	switch c.cfg.EventName {
	case "pull_request":
		if c.cfg.PRNumber == 0 {
			return "", fmt.Errorf("github: pull_request event requires a PR number")
		}
		return fmt.Sprintf("%s/repos/%s/%s/pulls/%d", base, c.cfg.RepositoryOwner, c.cfg.RepositoryName, c.cfg.PRNumber), nil
	default:
		return fmt.Sprintf("%s/repos/%s/%s/commits/%s", base, c.cfg.RepositoryOwner, c.cfg.RepositoryName, c.cfg.SHA), nil
	}
}

// paginatedFilesFallback reconstructs a usable unified diff by concatenating
// each file's own patch fragment, honoring go-github's NextPage pagination
// (itself driven by the response's Link header).
func (c *Client) paginatedFilesFallback(ctx context.Context) (*ChangeSet, error) {
	var files []*gogithub.CommitFile
	opts := &gogithub.ListOptions{PerPage: 100}
	page := 1
	for {
		if err := c.checkRateLimit(); err != nil {
			return nil, err
		}
		var pageFiles []*gogithub.CommitFile
		var resp *gogithub.Response
		var err error
		if c.cfg.EventName == "pull_request" {
			pageFiles, resp, err = c.gh.PullRequests.ListFiles(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber), opts)
		} else {
			var commit *gogithub.RepositoryCommit
			commit, resp, err = c.gh.Repositories.GetCommit(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, c.cfg.SHA, opts)
			if commit != nil {
				pageFiles = commit.Files
			}
		}
		if err != nil {
			return nil, fmt.Errorf("github: listing changed files: %w", err)
		}
		if resp != nil {
			c.recordRate(resp.Response.Header)
		}
		files = append(files, pageFiles...)
		if c.cache != nil {
			if dump, err := cachePageDump(pageFiles); err == nil {
				c.cache.Write(cache.CommentsPageName(page), dump)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page++
	}

	var diff strings.Builder
	var paths []string
	for _, f := range files {
		path := f.GetFilename()
		paths = append(paths, path)
		if f.GetPatch() == "" {
			continue
		}
		fmt.Fprintf(&diff, "--- a/%s\n+++ b/%s\n%s\n", path, path, f.GetPatch())
	}
	cs := &ChangeSet{Diff: diff.String(), Files: paths}
	c.snapshotDiff(cs.Diff)
	return cs, nil
}

func cachePageDump(files []*gogithub.CommitFile) ([]byte, error) {
	var b strings.Builder
	b.WriteString("[")
	for i, f := range files {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q", f.GetFilename())
	}
	b.WriteString("]")
	return []byte(b.String()), nil
}

func (c *Client) snapshotDiff(diff string) {
	if c.cache == nil {
		return
	}
	name := cache.DiffSnapshotName(c.cfg.SHA, c.cfg.SHA)
	c.cache.Write(name, []byte(diff))
}

// localChangeSet reads a diff from the local working tree (against the
// configured base, defaulting to HEAD~1) rather than calling the REST API.
func (c *Client) localChangeSet(ctx context.Context) (*ChangeSet, error) {
	base := c.cfg.SHA
	if base == "" {
		base = "HEAD~1"
	}
	cmd := exec.CommandContext(ctx, "git", "diff", "--unified=3", base)
	cmd.Dir = c.cfg.RepoRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("github: local git diff failed: %w (%s)", err, stderr.String())
	}
	return &ChangeSet{Diff: stdout.String()}, nil
}

// EnsureFilesExist downloads, relative to repoRoot, every path in paths
// that is not already present on disk, from the platform's raw blob URL.
// In local mode this is a no-op: every file is assumed present.
func (c *Client) EnsureFilesExist(ctx context.Context, repoRoot string, paths []string) error {
	if !c.cfg.CI {
		return nil
	}
	webBase := c.webBaseURL()
	for _, p := range paths {
		full := filepath.Join(repoRoot, filepath.FromSlash(p))
		if _, err := os.Stat(full); err == nil {
			continue
		}

		rawURL := fmt.Sprintf("%s/%s/%s/raw/%s/%s", webBase, c.cfg.RepositoryOwner, c.cfg.RepositoryName, c.cfg.SHA, url.PathEscape(p))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("github: building raw-blob request for %s: %w", p, err)
		}
		resp, err := c.doRaw(req)
		if err != nil {
			return fmt.Errorf("github: fetching %s: %w", p, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("github: reading %s: %w", p, err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("github: fetching %s: status %d", p, resp.StatusCode)
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("github: creating directory for %s: %w", p, err)
		}
		if err := os.WriteFile(full, body, 0o644); err != nil {
			return fmt.Errorf("github: writing %s: %w", p, err)
		}
	}
	return nil
}

// webBaseURL derives the web (non-API) host from the configured API URL,
// e.g. "https://api.github.com" -> "https://github.com".
func (c *Client) webBaseURL() string {
	if c.cfg.APIURL == "" || c.cfg.APIURL == "https://api.github.com" {
		return "https://github.com"
	}
	return strings.TrimSuffix(strings.TrimSuffix(c.cfg.APIURL, "/"), "/api/v3")
}

// ownedComment identifies a single issue/commit comment owned by this
// system (its body begins with HiddenMarker).
type ownedComment struct {
	id   int64
	body string
}

// listOwnedComments paginates through every comment on the PR (or commit),
// following the response's next page until there is none, returning those
// owned by this system in chronological order (oldest first).
func (c *Client) listOwnedComments(ctx context.Context) ([]ownedComment, error) {
	var owned []ownedComment
	opts := &gogithub.IssueListCommentsOptions{ListOptions: gogithub.ListOptions{PerPage: 100}}
	page := 1
	for {
		if err := c.checkRateLimit(); err != nil {
			return nil, err
		}
		var comments []*gogithub.IssueComment
		var resp *gogithub.Response
		var err error
		if c.cfg.EventName == "pull_request" {
			comments, resp, err = c.gh.Issues.ListComments(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber), opts)
		} else {
			commentOpts := &gogithub.ListOptions{PerPage: opts.PerPage, Page: opts.Page}
			var commitComments []*gogithub.RepositoryComment
			commitComments, resp, err = c.gh.Repositories.ListCommitComments(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, c.cfg.SHA, commentOpts)
			for _, rc := range commitComments {
				comments = append(comments, &gogithub.IssueComment{ID: rc.ID, Body: rc.Body})
			}
		}
		if err != nil {
			return nil, fmt.Errorf("github: listing comments: %w", err)
		}
		if resp != nil {
			c.recordRate(resp.Response.Header)
		}
		for _, cm := range comments {
			if strings.HasPrefix(cm.GetBody(), HiddenMarker) {
				owned = append(owned, ownedComment{id: cm.GetID(), body: cm.GetBody()})
			}
		}
		if c.cache != nil {
			c.cache.Write(cache.CommentsPageName(page), []byte(fmt.Sprintf("%d comments", len(comments))))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page++
	}
	return owned, nil
}

// PublishThreadComment maintains the single owned thread comment. body is
// the composed comment text (already
// including the hidden marker); isLGTM and updateOnly drive the lifecycle.
func (c *Client) PublishThreadComment(ctx context.Context, body string, isLGTM, updateOnly, noLGTM bool) error {
	if !c.cfg.CI {
		return nil
	}
	owned, err := c.listOwnedComments(ctx)
	if err != nil {
		return err
	}

	deleteAllButLast := func() error {
		for _, cm := range owned[:len(owned)-1] {
			if err := c.deleteIssueComment(ctx, cm.id); err != nil {
				return err
			}
		}
		return nil
	}
	deleteAll := func() error {
		for _, cm := range owned {
			if err := c.deleteIssueComment(ctx, cm.id); err != nil {
				return err
			}
		}
		return nil
	}

	switch {
	case !updateOnly:
		if err := deleteAll(); err != nil {
			return err
		}
		return c.postIssueComment(ctx, body)
	case isLGTM && noLGTM:
		return deleteAll()
	default: // updateOnly && (!isLGTM || !noLGTM)
		if len(owned) == 0 {
			return c.postIssueComment(ctx, body)
		}
		if err := deleteAllButLast(); err != nil {
			return err
		}
		return c.editIssueComment(ctx, owned[len(owned)-1].id, body)
	}
}

func (c *Client) postIssueComment(ctx context.Context, body string) error {
	if c.cfg.EventName == "pull_request" {
		_, resp, err := c.gh.Issues.CreateComment(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber), &gogithub.IssueComment{Body: &body})
		if resp != nil {
			c.recordRate(resp.Response.Header)
		}
		if err != nil {
			return fmt.Errorf("github: posting thread comment: %w", err)
		}
		return nil
	}
	_, resp, err := c.gh.Repositories.CreateComment(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, c.cfg.SHA, &gogithub.RepositoryComment{Body: &body})
	if resp != nil {
		c.recordRate(resp.Response.Header)
	}
	if err != nil {
		return fmt.Errorf("github: posting commit comment: %w", err)
	}
	return nil
}

func (c *Client) editIssueComment(ctx context.Context, id int64, body string) error {
	if c.cfg.EventName == "pull_request" {
		_, resp, err := c.gh.Issues.EditComment(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, id, &gogithub.IssueComment{Body: &body})
		if resp != nil {
			c.recordRate(resp.Response.Header)
		}
		if err != nil {
			return fmt.Errorf("github: updating thread comment: %w", err)
		}
		return nil
	}
	_, resp, err := c.gh.Repositories.UpdateComment(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, id, &gogithub.RepositoryComment{Body: &body})
	if resp != nil {
		c.recordRate(resp.Response.Header)
	}
	if err != nil {
		return fmt.Errorf("github: updating commit comment: %w", err)
	}
	return nil
}

func (c *Client) deleteIssueComment(ctx context.Context, id int64) error {
	var resp *gogithub.Response
	var err error
	if c.cfg.EventName == "pull_request" {
		resp, err = c.gh.Issues.DeleteComment(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, id)
	} else {
		resp, err = c.gh.Repositories.DeleteComment(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, id)
	}
	if resp != nil {
		c.recordRate(resp.Response.Header)
	}
	if err != nil {
		return fmt.Errorf("github: deleting owned comment %d: %w", id, err)
	}
	return nil
}

// PublishReview submits a pull-request review (no-op on a push event):
// dismisses every owned, still-active review, then submits a new one
// unless noLGTM suppresses a pure-approval review. event is APPROVE or
// REQUEST_CHANGES, already decided by the caller from whether any tool
// reported a concern, so it can be REQUEST_CHANGES even when suggestions
// is empty.
func (c *Client) PublishReview(ctx context.Context, body, event string, suggestions []*suggestion.Suggestion, noLGTM bool) error {
	if !c.cfg.CI || c.cfg.EventName != "pull_request" {
		return nil
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber))
	if resp != nil {
		c.recordRate(resp.Response.Header)
	}
	if err != nil {
		return fmt.Errorf("github: fetching pull request: %w", err)
	}
	if pr.GetDraft() || pr.GetState() != "open" {
		return nil
	}

	if err := c.dismissOwnedReviews(ctx); err != nil {
		return err
	}
	if event == "APPROVE" && noLGTM {
		return nil
	}

	comments := make([]*gogithub.DraftReviewComment, 0, len(suggestions))
	for _, s := range suggestions {
		line := s.EndLine
		dc := &gogithub.DraftReviewComment{
			Path: &s.File,
			Body: &s.Body,
			Line: &line,
		}
		if s.StartLine != 0 && s.StartLine != s.EndLine {
			start := s.StartLine
			dc.StartLine = &start
		}
		comments = append(comments, dc)
	}

	review := &gogithub.PullRequestReviewRequest{
		Body:     &body,
		Event:    &event,
		Comments: comments,
	}
	_, resp, err = c.gh.PullRequests.CreateReview(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber), review)
	if resp != nil {
		c.recordRate(resp.Response.Header)
	}
	if err != nil {
		return fmt.Errorf("github: submitting review: %w", err)
	}
	return nil
}

func (c *Client) dismissOwnedReviews(ctx context.Context) error {
	reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber), nil)
	if resp != nil {
		c.recordRate(resp.Response.Header)
	}
	if err != nil {
		return fmt.Errorf("github: listing reviews: %w", err)
	}
	for _, r := range reviews {
		if !strings.HasPrefix(r.GetBody(), HiddenMarker) {
			continue
		}
		if r.GetState() == "PENDING" || r.GetState() == "DISMISSED" {
			continue
		}
		message := "superseded by a newer run"
		_, resp, err := c.gh.PullRequests.DismissReview(ctx, c.cfg.RepositoryOwner, c.cfg.RepositoryName, int(c.cfg.PRNumber), r.GetID(), &gogithub.PullRequestReviewDismissalRequest{Message: &message})
		if resp != nil {
			c.recordRate(resp.Response.Header)
		}
		if err != nil {
			return fmt.Errorf("github: dismissing review %d: %w", r.GetID(), err)
		}
	}
	return nil
}

// EmitFileAnnotations writes one ::notice line for the file when the
// formatter changed it (naming the changed lines and the style), and one
// ::notice/::warning/::error line per analyzer diagnostic, via the grouped
// commander logger so it interleaves correctly with log-group boundaries.
func (c *Client) EmitFileAnnotations(file string, formatChanged bool, formatLines []int, styleName string, diagnostics []Annotation) {
	if c.commander == nil {
		return
	}
	if formatChanged {
		lines := joinInts(formatLines)
		c.commander.Annotate("notice", file, 1, "", fmt.Sprintf("Run clang-format on lines %s using %s.", lines, styleName))
	}
	for _, d := range diagnostics {
		level := "notice"
		switch d.Severity {
		case "warning":
			level = "warning"
		case "error":
			level = "error"
		}
		c.commander.Annotate(level, file, d.Line, d.Check, d.Message)
	}
}

// Annotation is the minimal shape EmitFileAnnotations needs from an
// analyzer diagnostic.
type Annotation struct {
	Line     int
	Severity string
	Check    string
	Message  string
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

// WriteStepSummary appends body to the platform's step-summary file, when
// its path is present in the environment; a no-op otherwise.
func WriteStepSummary(path, body string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("github: opening step summary %s: %w", path, err)
	}
	defer f.Close()
	_, err = f.WriteString(body)
	return err
}

// WriteExitCodeOutputs appends checks-failed/clang-format-checks-failed/
// clang-tidy-checks-failed lines to the platform's designated output file,
// when its path is present.
func WriteExitCodeOutputs(outputPath string, checksFailed, formatFailed, tidyFailed int) error {
	if outputPath == "" {
		return nil
	}
	f, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("github: opening %s: %w", outputPath, err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "checks-failed=%d\nclang-format-checks-failed=%d\nclang-tidy-checks-failed=%d\n", checksFailed, formatFailed, tidyFailed)
	return err
}
