// Package server provides the HTTP surface over the mdboard stores.
//
// The server is thin I/O plumbing: every request runs one synchronous store
// operation against the filesystem and returns JSON. Clients detect changes
// by polling /api/poll, which returns the per-store state digests; there is
// no push channel.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/steveyegge/mdboard/internal/board"
	"github.com/steveyegge/mdboard/internal/resource"
)

// Config holds server configuration.
type Config struct {
	// Port to listen on. 0 means auto-assign from the scan range.
	Port int

	// DataDir is the mdboard data directory (holds tasks/, prompts/,
	// documents/, and the runtime port.json).
	DataDir string

	// Logger for server activity (default: stderr logger).
	Logger *log.Logger
}

// Server serves the board, comment, and resource APIs over HTTP.
type Server struct {
	cfg       Config
	board     *board.Store
	prompts   *resource.Store
	documents *resource.Store

	listener net.Listener
	server   *http.Server
	wg       sync.WaitGroup
	logger   *log.Logger
}

// New creates a server over the given stores.
func New(cfg Config, b *board.Store, prompts, documents *resource.Store) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:       cfg,
		board:     b,
		prompts:   prompts,
		documents: documents,
		logger:    logger,
	}
}

// Start binds a listener (auto-assigning a port when none was configured),
// writes port.json into the data directory, and begins serving.
func (s *Server) Start() error {
	ln, port, err := listen(s.cfg.Port)
	if err != nil {
		return err
	}
	s.listener = ln

	if err := writePortFile(s.cfg.DataDir, port); err != nil {
		ln.Close()
		return err
	}

	s.server = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Listening on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down and removes port.json.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.wg.Wait()
	removePortFile(s.cfg.DataDir)
	return nil
}

// Port returns the port the server is listening on, valid after Start.
func (s *Server) Port() int {
	if s.listener == nil {
		return s.cfg.Port
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// routes builds the request mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/board", s.handleBoard)
	mux.HandleFunc("GET /api/poll", s.handlePoll)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/activity", s.handleActivity)

	mux.HandleFunc("POST /api/task", s.handleCreateTask)
	mux.HandleFunc("PATCH /api/task/move", s.handleMoveTask)
	mux.HandleFunc("GET /api/task/{column}/{filename}", s.handleGetTask)
	mux.HandleFunc("PUT /api/task/{column}/{filename}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/task/{column}/{filename}", s.handleDeleteTask)

	mux.HandleFunc("GET /api/comments/{taskID}", s.handleListComments)
	mux.HandleFunc("POST /api/comments/{taskID}", s.handleAddComment)
	mux.HandleFunc("DELETE /api/comments/{taskID}/{filename}", s.handleDeleteComment)

	s.registerResourceRoutes(mux, "prompts", s.prompts)
	s.registerResourceRoutes(mux, "documents", s.documents)

	return mux
}

// registerResourceRoutes wires one resource store under /api/<kind>.
func (s *Server) registerResourceRoutes(mux *http.ServeMux, kind string, store *resource.Store) {
	prefix := "/api/" + kind
	mux.HandleFunc("GET "+prefix, s.handleListResources(store))
	mux.HandleFunc("POST "+prefix, s.handleCreateResource(store))
	mux.HandleFunc("GET "+prefix+"/{dir}", s.handleGetResource(store))
	mux.HandleFunc("PUT "+prefix+"/{dir}", s.handleUpdateResource(store))
	mux.HandleFunc("DELETE "+prefix+"/{dir}", s.handleDeleteResource(store))
	mux.HandleFunc("GET "+prefix+"/{dir}/revisions", s.handleListRevisions(store))
	mux.HandleFunc("GET "+prefix+"/{dir}/revisions/{rev}", s.handleGetRevision(store))
}
