package server

import (
	"context"
	"fmt"
	"net/http"

	"changos/internal/api"
	"changos/internal/store"
)

type infoSource interface {
	StoreInfo(ctx context.Context) (*store.StoreInfo, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.writeStoreError(w, r, fmt.Errorf("database unreachable: %w", err))
			return
		}
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	src, ok := s.store.(infoSource)
	if !ok {
		s.writeStoreError(w, r, fmt.Errorf("store does not report info"))
		return
	}
	info, err := src.StoreInfo(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		DBPath:        s.dbPath,
		SchemaVersion: info.SchemaVersion,
		TotalTasks:    info.TotalTasks,
		DoneTasks:     info.DoneTasks,
		TasksByDev:    info.TasksByDev,
	})
}
