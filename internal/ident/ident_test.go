package ident

import (
	"os"
	"path/filepath"
	"testing"
)

// touch creates an empty file, failing the test on error.
func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestNextFileID(t *testing.T) {
	tmp := t.TempDir()
	todo := filepath.Join(tmp, "todo")
	done := filepath.Join(tmp, "done")

	if got := NextFileID(todo, done); got != 1 {
		t.Errorf("NextFileID() on missing dirs = %d, want 1", got)
	}

	touch(t, filepath.Join(todo, "001-first.md"))
	touch(t, filepath.Join(todo, "003-third.md"))
	touch(t, filepath.Join(done, "007-seventh.md"))
	touch(t, filepath.Join(done, "notes.md"))       // no ID prefix
	touch(t, filepath.Join(done, "012-extra.txt"))  // not markdown

	if got := NextFileID(todo, done); got != 8 {
		t.Errorf("NextFileID() = %d, want 8 (max across all dirs)", got)
	}
}

func TestNextFileIDSurvivesDeletion(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "005-keep.md"))
	touch(t, filepath.Join(tmp, "009-gone.md"))

	if err := os.Remove(filepath.Join(tmp, "009-gone.md")); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	// Deleting the highest entry does let 9 be reallocated; the contract is
	// only that IDs never duplicate *existing* entries, since the filesystem
	// is the counter.
	if got := NextFileID(tmp); got != 6 {
		t.Errorf("NextFileID() = %d, want 6", got)
	}
}

func TestNextDirID(t *testing.T) {
	tmp := t.TempDir()
	if got := NextDirID(tmp); got != 1 {
		t.Errorf("NextDirID() on empty dir = %d, want 1", got)
	}

	for _, name := range []string{"001-one", "004-four", "stray"} {
		if err := os.MkdirAll(filepath.Join(tmp, name), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	touch(t, filepath.Join(tmp, "009-file-not-dir.md"))

	if got := NextDirID(tmp); got != 5 {
		t.Errorf("NextDirID() = %d, want 5", got)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "001"},
		{42, "042"},
		{123, "123"},
		{9999, "9999"},
	}
	for _, tt := range tests {
		if got := Pad(tt.id); got != tt.want {
			t.Errorf("Pad(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Fix login bug", want: "fix-login-bug"},
		{name: "punctuation stripped", in: "What's up?!", want: "whats-up"},
		{name: "underscores collapse", in: "snake_case_name", want: "snake-case-name"},
		{name: "hyphen runs collapse", in: "a -- b", want: "a-b"},
		{name: "edges trimmed", in: "  -hello-  ", want: "hello"},
		{name: "empty result", in: "???", want: ""},
		{name: "mixed case", in: "Release Checklist", want: "release-checklist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
