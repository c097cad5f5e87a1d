// Package toolresolver locates the clang-format/clang-tidy executables that
// the formatter and analyzer runners invoke.
package toolresolver

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
)

// ErrToolNotFound is returned when a tool cannot be located, naming the
// tool so the orchestrator can surface a one-line fatal diagnostic.
type ErrToolNotFound struct {
	Tool    string
	Version string
}

func (e *ErrToolNotFound) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("could not find %s on PATH", e.Tool)
	}
	return fmt.Sprintf("could not find %s (version/path spec %q)", e.Tool, e.Version)
}

// dottedVersion matches a bare dotted version number like "14" or "14.0.6".
var dottedVersion = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Resolve returns the absolute path to tool (e.g. "clang-format"), given a
// version spec that is either empty, a dotted version number, or an
// install-path prefix.
//
//   - empty or dotted version: look up "<tool>-<version>" on PATH (or just
//     "<tool>" when version is empty);
//   - otherwise: treat version as an install directory and search
//     "<version>/bin/<tool>" then "<version>/<tool>".
func Resolve(tool, version string) (string, error) {
	if version == "" || dottedVersion.MatchString(version) {
		name := tool
		if version != "" {
			name = tool + "-" + version
		}
		path, err := exec.LookPath(name)
		if err != nil {
			return "", &ErrToolNotFound{Tool: tool, Version: version}
		}
		return path, nil
	}

	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}
	candidates := []string{
		filepath.Join(version, "bin", tool+suffix),
		filepath.Join(version, tool+suffix),
	}
	for _, c := range candidates {
		if abs, err := filepath.Abs(c); err == nil {
			if path, err := exec.LookPath(abs); err == nil {
				return path, nil
			}
		}
	}
	return "", &ErrToolNotFound{Tool: tool, Version: version}
}
