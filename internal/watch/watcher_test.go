package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupDataDir creates a minimal mdboard data tree.
func setupDataDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	for _, dir := range []string{
		filepath.Join(tmp, "tasks", "todo"),
		filepath.Join(tmp, "prompts"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return tmp
}

// waitForEvent blocks until an event with the given relative path arrives.
func waitForEvent(t *testing.T, w *Watcher, rel string, op EventOp) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				t.Fatal("event channel closed before expected event")
			}
			if ev.Rel == rel && ev.Op == op {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event on %s", op, rel)
		}
	}
}

func TestWatcherStartStop(t *testing.T) {
	w, err := New(setupDataDir(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if w.IsRunning() {
		t.Error("new watcher should not be running")
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !w.IsRunning() {
		t.Error("watcher should be running after Start()")
	}

	if err := w.Start(); err == nil {
		t.Error("second Start() should fail while running")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if w.IsRunning() {
		t.Error("watcher should not be running after Stop()")
	}
}

func TestWatcherTaskFileCreated(t *testing.T) {
	dataDir := setupDataDir(t)
	w, err := New(dataDir)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	path := filepath.Join(dataDir, "tasks", "todo", "001-test.md")
	if err := os.WriteFile(path, []byte("---\nid: 1\n---\nbody"), 0644); err != nil {
		t.Fatalf("Failed to write task file: %v", err)
	}

	waitForEvent(t, w, filepath.Join("tasks", "todo", "001-test.md"), OpCreate)
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	dataDir := setupDataDir(t)
	w, err := New(dataDir)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	ignored := filepath.Join(dataDir, "port.json")
	if err := os.WriteFile(ignored, []byte(`{"port":1}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	watched := filepath.Join(dataDir, "tasks", "todo", "002-after.md")
	if err := os.WriteFile(watched, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write task file: %v", err)
	}

	// The markdown event must arrive without a port.json event before it.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if filepath.Base(ev.Path) == "port.json" {
				t.Fatal("received event for non-markdown file")
			}
			if ev.Rel == filepath.Join("tasks", "todo", "002-after.md") {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for markdown event")
		}
	}
}

func TestWatcherNewDirectoryTracked(t *testing.T) {
	dataDir := setupDataDir(t)
	w, err := New(dataDir)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// A new resource directory appears after the watch started.
	resDir := filepath.Join(dataDir, "prompts", "001-new-prompt")
	if err := os.MkdirAll(resDir, 0755); err != nil {
		t.Fatalf("Failed to create resource dir: %v", err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(resDir, "current.md")
	if err := os.WriteFile(path, []byte("---\nid: 1\n---\n"), 0644); err != nil {
		t.Fatalf("Failed to write current.md: %v", err)
	}

	waitForEvent(t, w, filepath.Join("prompts", "001-new-prompt", "current.md"), OpCreate)
}
