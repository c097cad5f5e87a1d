package orchestrator

import (
	"reflect"
	"testing"

	"github.com/cpp-linter/cpp-linter-go/internal/analyzerrunner"
	"github.com/cpp-linter/cpp-linter-go/internal/difflib"
	"github.com/cpp-linter/cpp-linter-go/internal/env"
)

func TestScopedChunksWholeTreeRunIsUnrestricted(t *testing.T) {
	cfg := &env.RunConfig{FilesChangedOnly: false}
	rec := &difflib.FileRecord{Path: "a.cpp"}
	chunks, allLines := scopedChunks(cfg, rec)
	if chunks != nil || !allLines {
		t.Errorf("got (%v, %v), want (nil, true) for a whole-tree run", chunks, allLines)
	}
}

func TestScopedChunksLinesAllIsUnrestricted(t *testing.T) {
	cfg := &env.RunConfig{FilesChangedOnly: true, LinesChangedOnly: env.LinesAll}
	rec := &difflib.FileRecord{Path: "a.cpp", Chunks: []difflib.LineRange{{Start: 1, End: 5}}}
	chunks, allLines := scopedChunks(cfg, rec)
	if chunks != nil || !allLines {
		t.Errorf("got (%v, %v), want (nil, true) for lines-changed-only=false", chunks, allLines)
	}
}

func TestScopedChunksDiffUsesRecordChunks(t *testing.T) {
	cfg := &env.RunConfig{FilesChangedOnly: true, LinesChangedOnly: env.LinesDiff}
	rec := &difflib.FileRecord{Path: "a.cpp", Chunks: []difflib.LineRange{{Start: 1, End: 5}}}
	chunks, allLines := scopedChunks(cfg, rec)
	if allLines {
		t.Error("want allLines=false for the diff scope")
	}
	if !reflect.DeepEqual(chunks, rec.Chunks) {
		t.Errorf("chunks = %v, want %v", chunks, rec.Chunks)
	}
}

func TestScopedChunksAddedUsesAddedRanges(t *testing.T) {
	cfg := &env.RunConfig{FilesChangedOnly: true, LinesChangedOnly: env.LinesAdded}
	rec := &difflib.FileRecord{Path: "a.cpp", Added: []int{3, 4, 7}}
	chunks, allLines := scopedChunks(cfg, rec)
	if allLines {
		t.Error("want allLines=false for the added-lines scope")
	}
	if !reflect.DeepEqual(chunks, rec.AddedRanges()) {
		t.Errorf("chunks = %v, want %v", chunks, rec.AddedRanges())
	}
}

func TestBuildLineFilterEmptyChunksReturnsNil(t *testing.T) {
	if got := buildLineFilter("a.cpp", nil); got != nil {
		t.Errorf("buildLineFilter(nil) = %v, want nil", got)
	}
}

func TestBuildLineFilterPassesRangePairsThrough(t *testing.T) {
	chunks := []difflib.LineRange{{Start: 1, End: 4}, {Start: 10, End: 11}}
	got := buildLineFilter("a.cpp", chunks)
	want := []analyzerrunner.LineFilterEntry{
		{Name: "a.cpp", Lines: [][]int{{1, 4}, {10, 11}}},
	}
	if len(got) != 1 || got[0].Name != want[0].Name || !reflect.DeepEqual(got[0].Lines, want[0].Lines) {
		t.Errorf("buildLineFilter() = %+v, want %+v", got, want)
	}
}
