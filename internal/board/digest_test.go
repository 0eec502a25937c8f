package board

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// bumpMtime forces a distinct modification time on a task file so digest
// tests do not depend on filesystem timestamp granularity.
func bumpMtime(t *testing.T, path string, offset time.Duration) {
	t.Helper()
	ts := time.Now().Add(offset)
	if err := os.Chtimes(path, ts, ts); err != nil {
		t.Fatalf("Failed to set mtime on %s: %v", path, err)
	}
}

func TestDigestStableWithoutChanges(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, CreateRequest{Title: "one"})
	mustCreate(t, s, CreateRequest{Title: "two", Column: "todo"})

	first := s.Digest()
	second := s.Digest()
	if first != second {
		t.Errorf("Digest() unstable: %s != %s", first, second)
	}
}

func TestDigestSensitivity(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, CreateRequest{Title: "tracked", Column: "todo"})
	path := filepath.Join(s.Root(), "todo", task.Filename)
	bumpMtime(t, path, 0)
	base := s.Digest()

	t.Run("create", func(t *testing.T) {
		other := mustCreate(t, s, CreateRequest{Title: "new", Column: "todo"})
		if s.Digest() == base {
			t.Error("digest unchanged after create")
		}
		if ok, err := s.Delete("todo", other.Filename); err != nil || !ok {
			t.Fatalf("cleanup Delete() = %v, %v", ok, err)
		}
	})

	t.Run("update", func(t *testing.T) {
		body := "edited"
		if _, err := s.Update("todo", task.Filename, Patch{Body: &body}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		bumpMtime(t, path, time.Second)
		after := s.Digest()
		if after == base {
			t.Error("digest unchanged after update")
		}
		base = after
	})

	t.Run("move", func(t *testing.T) {
		if ok, err := s.Move(task.Filename, "todo", "done"); err != nil || !ok {
			t.Fatalf("Move() = %v, %v", ok, err)
		}
		after := s.Digest()
		if after == base {
			t.Error("digest unchanged after move, even though name and mtime survive")
		}
		base = after
	})

	t.Run("delete", func(t *testing.T) {
		if ok, err := s.Delete("done", task.Filename); err != nil || !ok {
			t.Fatalf("Delete() = %v, %v", ok, err)
		}
		if s.Digest() == base {
			t.Error("digest unchanged after delete")
		}
	})
}
