package board

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/steveyegge/mdboard/internal/frontmatter"
	"github.com/steveyegge/mdboard/internal/ident"
)

// Store is the kanban task store rooted at a tasks directory.
type Store struct {
	root string
	cfg  *Config
}

// Task is one parsed task file.
type Task struct {
	Filename string               `json:"filename"`
	Column   string               `json:"column"`
	Meta     *frontmatter.Mapping `json:"meta"`
	Body     string               `json:"body"`
}

// ColumnTasks pairs a configured column with its parsed task list.
type ColumnTasks struct {
	Column
	Tasks []Task `json:"tasks"`
}

// CreateRequest carries the caller-supplied fields for a new task. Title
// defaults to "Untitled"; Column defaults to the configured default column.
type CreateRequest struct {
	Title       string   `json:"title"`
	Column      string   `json:"column"`
	Assignee    string   `json:"assignee"`
	Scopes      []string `json:"scopes"`
	Tags        []string `json:"tags"`
	Due         string   `json:"due"`
	Branch      string   `json:"branch"`
	Description string   `json:"description"`
}

// Patch describes a task update. When Content is set the file is replaced
// verbatim and every other field is ignored. Otherwise only the whitelisted
// metadata fields and the body are merged into the existing document;
// arbitrary new keys cannot be introduced through this path.
type Patch struct {
	Content   *string   `json:"content"`
	Title     *string   `json:"title"`
	Assignee  *string   `json:"assignee"`
	Scopes    *[]string `json:"scopes"`
	Tags      *[]string `json:"tags"`
	Due       *string   `json:"due"`
	Branch    *string   `json:"branch"`
	Completed *string   `json:"completed"`
	Body      *string   `json:"body"`
}

// New opens a task store at root, loading config.yaml (or the built-in
// default) and creating the configured column directories.
func New(root string) (*Store, error) {
	return NewWithConfig(root, LoadConfig(root))
}

// NewWithConfig opens a task store with an explicit configuration, bypassing
// config.yaml. Useful for running multiple boards with different
// configurations in one process.
func NewWithConfig(root string, cfg *Config) (*Store, error) {
	s := &Store{root: root, cfg: cfg}
	for _, name := range cfg.ColumnNames() {
		if err := os.MkdirAll(filepath.Join(root, name), 0755); err != nil {
			return nil, fmt.Errorf("failed to create column directory %s: %w", name, err)
		}
	}
	return s, nil
}

// Root returns the board root directory.
func (s *Store) Root() string {
	return s.root
}

// Config returns the board configuration loaded at construction.
func (s *Store) Config() *Config {
	return s.cfg
}

// List reads every task in every configured column, sorted by filename
// within each column (hence by ID, given the zero-padding convention).
// Missing column directories yield empty lists, not errors.
func (s *Store) List() []ColumnTasks {
	out := make([]ColumnTasks, 0, len(s.cfg.Columns))
	for _, col := range s.cfg.Columns {
		ct := ColumnTasks{Column: col, Tasks: []Task{}}
		for _, name := range listMarkdown(filepath.Join(s.root, col.Name)) {
			task, err := s.readTask(col.Name, name)
			if err != nil {
				continue
			}
			ct.Tasks = append(ct.Tasks, *task)
		}
		out = append(out, ct)
	}
	return out
}

// Get reads one task by column and filename. Absence is a normal outcome:
// the task is nil and the error is nil.
func (s *Store) Get(column, filename string) (*Task, error) {
	path := filepath.Join(s.root, column, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat task %s: %w", path, err)
	}
	return s.readTask(column, filename)
}

// Create allocates the next global ID, builds the canonical filename, and
// writes a new task document with the fixed scaffold body. The target column
// directory is created if absent.
func (s *Store) Create(req CreateRequest) (*Task, error) {
	col := req.Column
	if col == "" {
		col = s.cfg.Settings.DefaultColumn
		if col == "" {
			col = "backlog"
		}
	}
	if !s.cfg.HasColumn(col) {
		if names := s.cfg.ColumnNames(); len(names) > 0 {
			col = names[0]
		} else {
			col = "backlog"
		}
	}
	colDir := filepath.Join(s.root, col)
	if err := os.MkdirAll(colDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create column directory %s: %w", col, err)
	}

	id := s.nextID()
	title := req.Title
	if title == "" {
		title = "Untitled"
	}
	filename := fmt.Sprintf("%s-%s.md", ident.Pad(id), ident.Slugify(title))

	meta := frontmatter.NewMapping()
	meta.Set("id", frontmatter.Int(id))
	meta.Set("title", frontmatter.String(title))
	meta.Set("assignee", frontmatter.String(req.Assignee))
	meta.Set("scopes", frontmatter.List(req.Scopes...))
	if len(req.Tags) > 0 {
		meta.Set("tags", frontmatter.List(req.Tags...))
	}
	meta.Set("created", frontmatter.String(today()))
	if req.Due != "" {
		meta.Set("due", frontmatter.String(req.Due))
	}
	if req.Branch != "" {
		meta.Set("branch", frontmatter.String(req.Branch))
	}

	body := fmt.Sprintf("\n## Description\n%s\n\n## Acceptance Criteria\n\n\n## Notes\n", req.Description)

	content := frontmatter.SerializeDocument(meta, body)
	path := filepath.Join(colDir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write task file %s: %w", path, err)
	}
	return &Task{Filename: filename, Column: col, Meta: meta, Body: body}, nil
}

// Update applies a patch to an existing task and rewrites the file. A nil
// task with nil error means the target does not exist.
func (s *Store) Update(column, filename string, patch Patch) (*Task, error) {
	path := filepath.Join(s.root, column, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat task %s: %w", path, err)
	}

	// Raw replacement: caller owns formatting.
	if patch.Content != nil {
		if err := os.WriteFile(path, []byte(*patch.Content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write task file %s: %w", path, err)
		}
		meta, body := frontmatter.ParseDocument(*patch.Content)
		return &Task{Filename: filename, Column: column, Meta: meta, Body: body}, nil
	}

	task, err := s.readTask(column, filename)
	if err != nil {
		return nil, err
	}
	setString := func(key string, p *string) {
		if p != nil {
			task.Meta.Set(key, frontmatter.String(*p))
		}
	}
	setString("title", patch.Title)
	setString("assignee", patch.Assignee)
	if patch.Scopes != nil {
		task.Meta.Set("scopes", frontmatter.List(*patch.Scopes...))
	}
	if patch.Tags != nil {
		task.Meta.Set("tags", frontmatter.List(*patch.Tags...))
	}
	setString("due", patch.Due)
	setString("branch", patch.Branch)
	setString("completed", patch.Completed)
	if patch.Body != nil {
		task.Body = *patch.Body
	}

	content := frontmatter.SerializeDocument(task.Meta, task.Body)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write task file %s: %w", path, err)
	}
	return task, nil
}

// Move physically relocates a task file between columns, preserving its
// filename and therefore its ID. Returns false when the source does not
// exist. The destination column directory is created if absent.
func (s *Store) Move(filename, fromColumn, toColumn string) (bool, error) {
	src := filepath.Join(s.root, fromColumn, filename)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat task %s: %w", src, err)
	}
	dstDir := filepath.Join(s.root, toColumn)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return false, fmt.Errorf("failed to create column directory %s: %w", toColumn, err)
	}
	if err := os.Rename(src, filepath.Join(dstDir, filename)); err != nil {
		return false, fmt.Errorf("failed to move task %s: %w", filename, err)
	}
	return true, nil
}

// Delete removes a task file. Returns false when it does not exist.
func (s *Store) Delete(column, filename string) (bool, error) {
	path := filepath.Join(s.root, column, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat task %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete task %s: %w", path, err)
	}
	return true, nil
}

// Count returns the total number of task files across all columns.
func (s *Store) Count() int {
	total := 0
	for _, name := range s.cfg.ColumnNames() {
		total += len(listMarkdown(filepath.Join(s.root, name)))
	}
	return total
}

// nextID scans every configured column for the highest existing task ID.
func (s *Store) nextID() int {
	dirs := make([]string, 0, len(s.cfg.Columns))
	for _, name := range s.cfg.ColumnNames() {
		dirs = append(dirs, filepath.Join(s.root, name))
	}
	return ident.NextFileID(dirs...)
}

// readTask reads and parses one task file.
func (s *Store) readTask(column, filename string) (*Task, error) {
	path := filepath.Join(s.root, column, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file %s: %w", path, err)
	}
	meta, body := frontmatter.ParseDocument(string(data))
	return &Task{Filename: filename, Column: column, Meta: meta, Body: body}, nil
}

// listMarkdown returns the sorted .md filenames directly inside dir, or nil
// when the directory is missing.
func listMarkdown(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// today formats the current date the way frontmatter stores dates.
func today() string {
	return time.Now().Format("2006-01-02")
}
