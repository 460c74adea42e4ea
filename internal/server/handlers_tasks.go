package server

import (
	"errors"
	"fmt"
	"net/http"

	"changos/internal/api"
	"changos/internal/models"
	"changos/internal/store"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if !s.decodeJSONReq(w, r, &task) {
		return
	}
	// Ids are always assigned here.
	task.ID = ""

	if err := s.store.CreateTask(r.Context(), &task); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.log().Debug("task created", "id", task.ID, "ticket", task.Ticket, "dev", task.Dev)
	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeTaskError(w, r, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	var patch api.TaskPatch
	if !s.decodeJSONReq(w, r, &patch) {
		return
	}

	update := updateFromPatch(patch)
	var (
		task *models.Task
		err  error
	)
	if update.Empty() {
		task, err = s.store.GetTask(r.Context(), id)
	} else {
		task, err = s.store.UpdateTask(r.Context(), id, update)
	}
	if err != nil {
		s.writeTaskError(w, r, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	task, err := s.store.DeleteTask(r.Context(), id)
	if err != nil {
		s.writeTaskError(w, r, id, err)
		return
	}
	s.log().Debug("task deleted", "id", id)
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) writeTaskError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, store.ErrTaskNotFound) {
		s.writeServiceError(w, r, notFound(fmt.Errorf("task %s not found", id)))
		return
	}
	s.writeStoreError(w, r, err)
}

func updateFromPatch(p api.TaskPatch) store.TaskUpdate {
	return store.TaskUpdate{
		Ticket:      p.Ticket,
		Type:        enumPtr(p.Type),
		Description: p.Description,
		Done:        p.Done,
		Environment: enumPtr(p.Environment),
		Dev:         p.Dev,
		Jira:        p.Jira,
		JiraState:   enumPtr(p.JiraState),
		Sprint:      p.Sprint,
		App:         enumPtr(p.App),
	}
}

func enumPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
