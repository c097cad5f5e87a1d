package cache

import (
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Write("comments-pg1.json", []byte(`[]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := s.Read("comments-pg1.json")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Read() = %q, want %q", got, "[]")
	}
}

func TestWriteCreatesNestedDirectories(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	if err := s.Write("nested/dir/file.json", []byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := s.Read("nested/dir/file.json"); err != nil {
		t.Fatalf("Read() after nested Write() error = %v", err)
	}
	if _, err := filepath.Abs(root); err != nil {
		t.Fatal(err)
	}
}

func TestDiffSnapshotName(t *testing.T) {
	got := DiffSnapshotName("abcdef1234567", "0123456789abcdef")
	want := "abcdef1...0123456.diff"
	if got != want {
		t.Errorf("DiffSnapshotName() = %q, want %q", got, want)
	}
}

func TestDiffSnapshotNameShortSHA(t *testing.T) {
	got := DiffSnapshotName("abc", "def")
	want := "abc...def.diff"
	if got != want {
		t.Errorf("DiffSnapshotName() = %q, want %q", got, want)
	}
}

func TestCommentsPageName(t *testing.T) {
	if got := CommentsPageName(3); got != "comments-pg3.json" {
		t.Errorf("CommentsPageName(3) = %q", got)
	}
}
