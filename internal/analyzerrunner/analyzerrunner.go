// Package analyzerrunner invokes clang-tidy on a single file, parses its
// stdout diagnostics and YAML fixit file, and resolves absolute filenames
// against a compilation database.
package analyzerrunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cpp-linter/cpp-linter-go/internal/advice"
	"github.com/cpp-linter/cpp-linter-go/internal/offsetindex"
)

// LineFilterEntry is one element of clang-tidy's --line-filter JSON array.
type LineFilterEntry struct {
	Name  string  `json:"name"`
	Lines [][]int `json:"lines"`
}

// BuildArgs assembles the clang-tidy invocation: optional -checks,
// optional -p <database dir> (made absolute),
// optional --line-filter, then zero or more --extra-arg (splitting any
// single extra-arg that itself contains whitespace), then the file path.
func BuildArgs(checks, databaseDir string, filter []LineFilterEntry, extraArgs []string, path string) ([]string, error) {
	var args []string
	if checks != "" {
		args = append(args, "-checks="+checks)
	}
	if databaseDir != "" {
		abs, err := filepath.Abs(databaseDir)
		if err != nil {
			return nil, fmt.Errorf("analyzerrunner: resolving database dir %s: %w", databaseDir, err)
		}
		args = append(args, "-p", abs)
	}
	if len(filter) > 0 {
		encoded, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("analyzerrunner: encoding line filter: %w", err)
		}
		args = append(args, "--line-filter="+string(encoded))
	}
	for _, arg := range extraArgs {
		for _, part := range strings.Fields(arg) {
			args = append(args, "--extra-arg="+part)
		}
	}
	args = append(args, path)
	return args, nil
}

// Run invokes tool against path with the given checks/database/filter/extra
// args and parses the diagnostics it reports on stdout. When exportFixits is
// true, clang-tidy is additionally asked to export a YAML fixit file
// (--export-fixes) to a temporary path, which is parsed and merged into the
// returned diagnostics before being removed.
func Run(ctx context.Context, tool, checks, databaseDir string, filter []LineFilterEntry, extraArgs []string, path string, db CompilationDatabase, repoRoot string, exportFixits bool) (*advice.TidyAdvice, error) {
	args, err := BuildArgs(checks, databaseDir, filter, extraArgs, path)
	if err != nil {
		return nil, err
	}

	var fixitPath string
	if exportFixits {
		f, err := os.CreateTemp("", "clang-tidy-fixits-*.yaml")
		if err != nil {
			return nil, fmt.Errorf("analyzerrunner: creating fixit export file: %w", err)
		}
		fixitPath = f.Name()
		f.Close()
		os.Remove(fixitPath) // clang-tidy must create it itself; only the name is reserved.
		defer os.Remove(fixitPath)
		// --export-fixes must precede the trailing file path.
		args = append(args[:len(args)-1], append([]string{"--export-fixes=" + fixitPath}, args[len(args)-1])...)
	}

	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	_ = cmd.Run() // clang-tidy exits non-zero when it finds anything; diagnostics are still parsed.

	diags := ParseDiagnostics(stdout.Bytes())
	ResolveAbsolutePaths(diags, db)
	StripRepoRoot(diags, repoRoot)

	if fixitPath != "" {
		if yamlData, err := os.ReadFile(fixitPath); err == nil && len(yamlData) > 0 {
			if fixits, err := ParseFixitYAML(yamlData); err == nil {
				if contents, err := os.ReadFile(path); err == nil {
					MergeFixits(diags, fixits, contents)
				}
			}
		}
	}

	return &advice.TidyAdvice{Diagnostics: derefAll(diags)}, nil
}

// RunAutoFix re-invokes tool with -fix against path, snapshotting and
// restoring the file's on-disk bytes around the call so the working tree is
// left unmodified; it returns the bytes clang-tidy rewrote as the patched
// buffer used for suggestion synthesis.
func RunAutoFix(ctx context.Context, tool, checks, databaseDir string, filter []LineFilterEntry, extraArgs []string, path string, timeout time.Duration) ([]byte, error) {
	args, err := BuildArgs(checks, databaseDir, filter, extraArgs, path)
	if err != nil {
		return nil, err
	}
	args = append([]string{"-fix"}, args...)

	return SnapshotAndRestore(path, timeout, func() error {
		cmd := exec.CommandContext(ctx, tool, args...)
		_ = cmd.Run()
		return nil
	})
}

func derefAll(diags []*advice.TidyDiagnostic) []advice.TidyDiagnostic {
	out := make([]advice.TidyDiagnostic, len(diags))
	for i, d := range diags {
		out[i] = *d
	}
	return out
}

// diagnosticHeader matches clang-tidy's one-line-per-finding header:
// "<filename>:<line>:<col>: <severity>: <rationale> [<check>]".
var diagnosticHeader = regexp.MustCompile(`^(.+):(\d+):(\d+):\s+(note|warning|error):\s+(.*?)(?:\s+\[([\w,.\-]+)\])?$`)

// ParseDiagnostics scans clang-tidy's stdout for diagnostic headers,
// attaching every subsequent non-header line to the last opened diagnostic
// as source context.
func ParseDiagnostics(output []byte) []*advice.TidyDiagnostic {
	var diags []*advice.TidyDiagnostic
	for _, line := range strings.Split(string(output), "\n") {
		m := diagnosticHeader.FindStringSubmatch(line)
		if m == nil {
			if len(diags) > 0 && strings.TrimSpace(line) != "" {
				last := diags[len(diags)-1]
				last.Context = append(last.Context, line)
			}
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		diags = append(diags, &advice.TidyDiagnostic{
			Filename:  m[1],
			Line:      lineNo,
			Column:    col,
			Severity:  advice.Severity(m[4]),
			Rationale: m[5],
			CheckName: m[6],
		})
	}
	return diags
}

// StripRepoRoot removes repoRoot from the front of every diagnostic's
// filename so reported paths are repo-relative.
func StripRepoRoot(diags []*advice.TidyDiagnostic, repoRoot string) {
	if repoRoot == "" {
		return
	}
	prefix := strings.TrimSuffix(repoRoot, string(filepath.Separator)) + string(filepath.Separator)
	for _, d := range diags {
		d.Filename = strings.TrimPrefix(d.Filename, prefix)
	}
}

// CompileCommand is one entry of a compile_commands.json compilation
// database.
type CompileCommand struct {
	Directory string `json:"directory"`
	File      string `json:"file"`
}

// CompilationDatabase is the parsed contents of compile_commands.json.
type CompilationDatabase []CompileCommand

// LoadCompilationDatabase reads compile_commands.json from dir, if present.
// A missing file is not an error; it returns a nil database.
func LoadCompilationDatabase(dir string) (CompilationDatabase, error) {
	if dir == "" {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "compile_commands.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("analyzerrunner: reading compilation database: %w", err)
	}
	var db CompilationDatabase
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("analyzerrunner: parsing compilation database: %w", err)
	}
	return db, nil
}

// ResolveAbsolutePaths rewrites every non-absolute diagnostic filename by
// matching it against db's File entries and joining with that unit's
// Directory. The match is against the full recorded File field, not just
// its basename: a database may list distinct translation units that share a
// basename in different directories (e.g. src/foo/impl.cpp and
// src/bar/impl.cpp), and a basename-only match would silently resolve a
// diagnostic to the wrong one.
func ResolveAbsolutePaths(diags []*advice.TidyDiagnostic, db CompilationDatabase) {
	if len(db) == 0 {
		return
	}
	for _, d := range diags {
		if filepath.IsAbs(d.Filename) {
			continue
		}
		for _, unit := range db {
			if unit.File == d.Filename {
				d.Filename = filepath.Join(unit.Directory, unit.File)
				break
			}
		}
	}
}

// yamlReplacement is shared by both the flat and nested YAML fixit schemas.
type yamlReplacement struct {
	FilePath        string `yaml:"FilePath"`
	Offset          int    `yaml:"Offset"`
	Length          int    `yaml:"Length"`
	ReplacementText string `yaml:"ReplacementText"`
}

type yamlNestedMessage struct {
	Message      string            `yaml:"Message"`
	FilePath     string            `yaml:"FilePath"`
	FileOffset   int               `yaml:"FileOffset"`
	Replacements []yamlReplacement `yaml:"Replacements"`
}

// yamlDiagnostic tolerates both the older flat schema
// (Message/FileOffset/Replacements at the top level) and the newer nested
// schema (the same fields under DiagnosticMessage).
type yamlDiagnostic struct {
	DiagnosticName    string             `yaml:"DiagnosticName"`
	Message           string             `yaml:"Message"`
	FileOffset        int                `yaml:"FileOffset"`
	Replacements      []yamlReplacement  `yaml:"Replacements"`
	DiagnosticMessage *yamlNestedMessage `yaml:"DiagnosticMessage"`
}

type yamlFixitFile struct {
	MainSourceFile string           `yaml:"MainSourceFile"`
	Diagnostics    []yamlDiagnostic `yaml:"Diagnostics"`
}

// resolvedFixit is a flattened view of one YAML diagnostic's replacement,
// after reconciling the flat/nested schema split.
type resolvedFixit struct {
	checkName string
	filePath  string
	offset    int
	length    int
	text      string
}

// ParseFixitYAML decodes a clang-tidy --export-fixes YAML document into a
// flat list of replacements, preferring the nested DiagnosticMessage form
// when present.
func ParseFixitYAML(data []byte) ([]resolvedFixit, error) {
	var doc yamlFixitFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("analyzerrunner: parsing fixit YAML: %w", err)
	}
	var out []resolvedFixit
	for _, d := range doc.Diagnostics {
		replacements := d.Replacements
		if d.DiagnosticMessage != nil && len(d.DiagnosticMessage.Replacements) > 0 {
			replacements = d.DiagnosticMessage.Replacements
		}
		for _, r := range replacements {
			out = append(out, resolvedFixit{
				checkName: d.DiagnosticName,
				filePath:  r.FilePath,
				offset:    r.Offset,
				length:    r.Length,
				text:      rewriteHeaderGuard(r.ReplacementText),
			})
		}
	}
	return out, nil
}

// headerGuardPrefix returns the synthetic include-guard prefix clang-tidy
// derives from the current working directory (its path uppercased with
// separators turned into underscores, per clang_tidy_yml.py's
// CWD_HEADER_GUARD), so replacement text built from it can be rewritten to
// be repo-relative.
func headerGuardPrefix() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	upper := strings.ToUpper(cwd)
	replaced := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '-' || r == '.' {
			return '_'
		}
		return r
	}, upper)
	return strings.Trim(replaced, "_") + "_"
}

// rewriteHeaderGuard strips a known header-guard prefix derived from the
// working directory, leaving the remainder repo-relative.
func rewriteHeaderGuard(text string) string {
	prefix := headerGuardPrefix()
	if prefix != "" && strings.HasPrefix(text, prefix) {
		return strings.TrimPrefix(text, prefix)
	}
	return text
}

// MergeFixits attaches each resolved YAML fixit to every diagnostic whose
// line matches the fixit's line (translated from its byte offset via
// contents). Matching is by line only: the fixit's FilePath and the
// diagnostic's Filename are not compared.
func MergeFixits(diags []*advice.TidyDiagnostic, fixits []resolvedFixit, contents []byte) {
	for _, f := range fixits {
		line, col := offsetindex.LineColumn(contents, f.offset)
		for _, d := range diags {
			if d.Line != line {
				continue
			}
			d.Fixits = append(d.Fixits, advice.Fixit{
				Line:       line,
				Column:     col,
				NullLength: f.length,
				Text:       f.text,
			})
		}
	}
}

// ErrReadWriteTimeout is returned by ReadWithTimeout/WriteWithTimeout when
// the bounded-time attempt loop is exhausted.
type ErrReadWriteTimeout struct {
	Path string
}

func (e *ErrReadWriteTimeout) Error() string {
	return fmt.Sprintf("analyzerrunner: timed out accessing %s", e.Path)
}

const retryInterval = 20 * time.Millisecond

// ReadWithTimeout retries os.ReadFile for up to timeout, sleeping briefly
// between attempts, for use around the auto-fix snapshot/restore dance
// where another process may transiently hold the file.
func ReadWithTimeout(path string, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if time.Now().After(deadline) {
			return nil, &ErrReadWriteTimeout{Path: path}
		}
		time.Sleep(retryInterval)
	}
}

// WriteWithTimeout retries os.WriteFile for up to timeout, sleeping briefly
// between attempts.
func WriteWithTimeout(path string, data []byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := os.WriteFile(path, data, 0o644)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return &ErrReadWriteTimeout{Path: path}
		}
		time.Sleep(retryInterval)
	}
}

// SnapshotAndRestore runs fn (expected to invoke the analyzer's auto-fix
// flag, mutating path on disk), then restores path's original bytes
// regardless of fn's outcome, returning the rewritten bytes captured before
// restoration as the patched buffer.
func SnapshotAndRestore(path string, timeout time.Duration, fn func() error) (patched []byte, err error) {
	original, err := ReadWithTimeout(path, timeout)
	if err != nil {
		return nil, err
	}
	defer func() {
		restoreErr := WriteWithTimeout(path, original, timeout)
		if err == nil {
			err = restoreErr
		}
	}()

	if err = fn(); err != nil {
		return nil, err
	}
	patched, err = ReadWithTimeout(path, timeout)
	return patched, err
}
