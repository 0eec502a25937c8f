package server

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/steveyegge/mdboard/internal/resource"
)

// ActivityEntry is one row of the recent-changes feed: a task or resource
// ordered by modification time, newest first.
type ActivityEntry struct {
	Type     string  `json:"type"` // task, prompt, document
	Title    string  `json:"title"`
	ID       int     `json:"id"`
	Column   string  `json:"column,omitempty"`
	DirName  string  `json:"dir_name,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Revision int     `json:"revision,omitempty"`
	Mtime    float64 `json:"mtime"`
}

// activity collects recent file changes across tasks, prompts, and
// documents, capped at limit entries.
func (s *Server) activity(limit int) []ActivityEntry {
	entries := []ActivityEntry{}

	for _, ct := range s.board.List() {
		for _, task := range ct.Tasks {
			info, err := os.Stat(filepath.Join(s.board.Root(), ct.Name, task.Filename))
			if err != nil {
				continue
			}
			title := task.Meta.GetString("title")
			if title == "" {
				title = task.Filename
			}
			entries = append(entries, ActivityEntry{
				Type:     "task",
				Title:    title,
				ID:       task.Meta.GetInt("id", 0),
				Column:   ct.Name,
				Filename: task.Filename,
				Mtime:    float64(info.ModTime().UnixNano()) / 1e9,
			})
		}
	}

	for kind, store := range map[string]*resource.Store{
		"prompt":   s.prompts,
		"document": s.documents,
	} {
		for _, res := range store.List() {
			info, err := os.Stat(filepath.Join(store.Root(), res.DirName, "current.md"))
			if err != nil {
				continue
			}
			title := res.Meta.GetString("title")
			if title == "" {
				title = res.DirName
			}
			entries = append(entries, ActivityEntry{
				Type:     kind,
				Title:    title,
				ID:       res.Meta.GetInt("id", 0),
				DirName:  res.DirName,
				Revision: res.Meta.GetInt("revision", 1),
				Mtime:    float64(info.ModTime().UnixNano()) / 1e9,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Mtime > entries[j].Mtime
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
