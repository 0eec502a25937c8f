package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/steveyegge/mdboard/internal/board"
	"github.com/steveyegge/mdboard/internal/resource"
)

//go:embed index.html
var indexHTML []byte

// writeJSON sends a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Failed to encode response: %v", err)
	}
}

// writeError sends a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readBody decodes the request body into v. An empty body is allowed.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"columns": s.board.List()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"board":     s.board.Digest(),
		"prompts":   s.prompts.Digest(),
		"documents": s.documents.Digest(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.board.Config().Raw)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.activity(50))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req board.CreateRequest
	if !s.readBody(w, r, &req) {
		return
	}
	task, err := s.board.Create(req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

type moveRequest struct {
	Filename   string `json:"filename"`
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.readBody(w, r, &req) {
		return
	}
	ok, err := s.board.Move(req.Filename, req.FromColumn, req.ToColumn)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.board.Get(r.PathValue("column"), r.PathValue("filename"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch board.Patch
	if !s.readBody(w, r, &patch) {
		return
	}
	task, err := s.board.Update(r.PathValue("column"), r.PathValue("filename"), patch)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ok, err := s.board.Delete(r.PathValue("column"), r.PathValue("filename"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// taskID parses the {taskID} path segment; a non-numeric ID is a 404, since
// comment directories are keyed by numeric task ID.
func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("taskID"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.board.Comments(id))
}

type commentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if !s.readBody(w, r, &req) {
		return
	}
	comment, err := s.board.AddComment(id, req.Author, req.Body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	deleted, err := s.board.DeleteComment(id, r.PathValue("filename"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListResources(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, store.List())
	}
}

func (s *Server) handleCreateResource(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields resource.Fields
		if !s.readBody(w, r, &fields) {
			return
		}
		res, err := store.Create(fields)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, res)
	}
}

func (s *Server) handleGetResource(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.Get(r.PathValue("dir"))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if res == nil {
			s.writeError(w, http.StatusNotFound, "Resource not found")
			return
		}
		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleUpdateResource(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields resource.Fields
		if !s.readBody(w, r, &fields) {
			return
		}
		res, err := store.Update(r.PathValue("dir"), fields)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if res == nil {
			s.writeError(w, http.StatusNotFound, "Resource not found")
			return
		}
		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDeleteResource(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := store.Delete(r.PathValue("dir"))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			s.writeError(w, http.StatusNotFound, "Resource not found")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (s *Server) handleListRevisions(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, store.Revisions(r.PathValue("dir")))
	}
}

func (s *Server) handleGetRevision(store *resource.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rev, err := store.Revision(r.PathValue("dir"), r.PathValue("rev"))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if rev == nil {
			s.writeError(w, http.StatusNotFound, "Revision not found")
			return
		}
		s.writeJSON(w, http.StatusOK, rev)
	}
}
