package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/steveyegge/mdboard/internal/frontmatter"
	"github.com/steveyegge/mdboard/internal/ident"
)

// commentsDirName holds per-task comment directories under the board root.
const commentsDirName = "comments"

// Comment is one parsed comment file. Comments are append-only: once written
// they are never updated, only deleted.
type Comment struct {
	Filename string               `json:"filename"`
	Meta     *frontmatter.Mapping `json:"meta"`
	Body     string               `json:"body"`
}

// commentsDir returns the directory holding a task's comments.
func (s *Store) commentsDir(taskID int) string {
	return filepath.Join(s.root, commentsDirName, strconv.Itoa(taskID))
}

// Comments lists a task's comments in chronological order. Filenames are
// timestamp-prefixed, so lexical sort is chronological sort. A task with no
// comment directory has no comments.
func (s *Store) Comments(taskID int) []Comment {
	dir := s.commentsDir(taskID)
	out := []Comment{}
	for _, name := range listMarkdown(dir) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		meta, body := frontmatter.ParseDocument(string(data))
		out = append(out, Comment{Filename: name, Meta: meta, Body: body})
	}
	return out
}

// AddComment appends a comment to a task, creating the comment directory if
// absent. The filename is "YYYYMMDD-HHMMSS-<author slug>.md".
func (s *Store) AddComment(taskID int, author, body string) (*Comment, error) {
	if author == "" {
		author = "anonymous"
	}
	dir := s.commentsDir(taskID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create comments directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s-%s.md", now.Format("20060102-150405"), ident.Slugify(author))

	meta := frontmatter.NewMapping()
	meta.Set("author", frontmatter.String(author))
	meta.Set("created", frontmatter.String(now.Format("2006-01-02 15:04")))

	content := frontmatter.SerializeDocument(meta, body+"\n")
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write comment file %s: %w", path, err)
	}
	return &Comment{Filename: filename, Meta: meta, Body: body}, nil
}

// DeleteComment removes one comment file. Returns false when it does not
// exist.
func (s *Store) DeleteComment(taskID int, filename string) (bool, error) {
	path := filepath.Join(s.commentsDir(taskID), filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat comment %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete comment %s: %w", path, err)
	}
	return true, nil
}
