package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /info", s.handleInfo)

	// Tasks. Paths match the remote store the board talks to.
	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("POST /task", s.handleCreateTask)
	mux.HandleFunc("GET /task/{id}", s.handleGetTask)
	mux.HandleFunc("PUT /task/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /task/{id}", s.handleDeleteTask)

	return mux
}
