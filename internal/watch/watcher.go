// Package watch provides file system observation of the mdboard data tree.
//
// The watcher is purely observational: clients detect changes by polling the
// store digests, and the stores read authoritative state from disk on every
// operation. Watching exists so the server can log external edits (a human
// moving a task file by hand, an agent appending notes) as they happen.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventOp represents the type of file system operation.
type EventOp int

const (
	// OpCreate indicates a new file was created.
	OpCreate EventOp = iota
	// OpModify indicates an existing file was modified.
	OpModify
	// OpDelete indicates a file was deleted or renamed away.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Event is one observed change to a markdown file in the data tree.
type Event struct {
	// Path is the path of the file that changed.
	Path string
	// Rel is the path relative to the data directory, e.g.
	// "tasks/todo/003-fix.md" or "prompts/001-review/current.md".
	Rel string
	// Op is the operation that occurred.
	Op EventOp
}

// Watcher observes the mdboard data directory tree for markdown file
// changes. Directories created while watching (new columns, new resources,
// new comment threads) are added to the watch set automatically.
type Watcher struct {
	dataDir string
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New creates a watcher for the given data directory. The watcher must be
// started with Start() before it emits events.
func New(dataDir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		dataDir: dataDir,
		watcher: fw,
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start walks the data directory, registers every subdirectory, and begins
// emitting events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	err := filepath.WalkDir(w.dataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are skipped, not fatal
		}
		if d.IsDir() {
			if addErr := w.watcher.Add(path); addErr != nil {
				return fmt.Errorf("failed to watch %s: %w", path, addErr)
			}
		}
		return nil
	})
	if err != nil {
		w.watcher.Close()
		return err
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops watching and closes the event channels. It blocks until the
// event processing goroutine has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel emitting change notifications. Closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel emitting watch errors. Closed by Stop.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// processEvents converts fsnotify events into Events and tracks new
// directories.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				// New column, resource, revisions, or comment directory:
				// start watching it too.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
					continue
				}
			}
			if ev, ok := w.convertEvent(event); ok {
				select {
				case w.events <- ev:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convertEvent maps an fsnotify event onto an Event, ignoring everything
// that is not a markdown or config file change.
func (w *Watcher) convertEvent(event fsnotify.Event) (Event, bool) {
	base := filepath.Base(event.Name)
	if !strings.HasSuffix(base, ".md") && base != "config.yaml" {
		return Event{}, false
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		// The new name triggers its own create event.
		op = OpDelete
	default:
		return Event{}, false
	}

	rel, err := filepath.Rel(w.dataDir, event.Name)
	if err != nil {
		rel = event.Name
	}
	return Event{Path: event.Name, Rel: rel, Op: op}, true
}
