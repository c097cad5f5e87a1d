package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCommanderStartEndGroup(t *testing.T) {
	var buf bytes.Buffer
	c := NewCommander(&buf)
	c.StartGroup("Run clang-format")
	c.EndGroup()

	got := buf.String()
	if !strings.Contains(got, "::group::Run clang-format\n") {
		t.Errorf("missing start group line, got %q", got)
	}
	if !strings.Contains(got, "::endgroup::\n") {
		t.Errorf("missing end group line, got %q", got)
	}
}

func TestCommanderAnnotate(t *testing.T) {
	var buf bytes.Buffer
	c := NewCommander(&buf)
	c.Annotate("notice", "src/a.cpp", 10, "Run clang-format on src/a.cpp", "File does not conform to style")

	want := "::notice file=src/a.cpp,line=10,title=Run clang-format on src/a.cpp::File does not conform to style\n"
	if buf.String() != want {
		t.Errorf("Annotate() = %q, want %q", buf.String(), want)
	}
}

func TestGroupLoggerFlushPreservesOrder(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	g := NewGroupLogger(base)

	g.Info("first")
	g.Warn("second")
	g.Error("third")

	g.Flush()

	out := buf.String()
	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")
	thirdIdx := strings.Index(out, "third")
	if !(firstIdx < secondIdx && secondIdx < thirdIdx) {
		t.Errorf("flush did not preserve insertion order: %q", out)
	}
}

func TestGroupLoggerFlushIsIdempotentWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	g := NewGroupLogger(base)
	g.Flush()
	if buf.Len() != 0 {
		t.Errorf("expected no output from flushing an empty logger, got %q", buf.String())
	}
}
