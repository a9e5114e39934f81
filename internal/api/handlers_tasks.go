package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	// Estimated duration arrives either as plain minutes or in the legacy
	// epoch-clock-time encoding; minutes win when both are present.
	EstimatedMinutes int        `json:"estimated_minutes"`
	LegacyEstimate   *time.Time `json:"estimated_duration,omitempty"`
}

type taskListResponse struct {
	Tasks []model.Task `json:"tasks"`
	Total int          `json:"total"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "title is required")
		return
	}

	estimate := req.EstimatedMinutes
	if estimate == 0 && req.LegacyEstimate != nil {
		estimate = model.DecodeLegacyEstimate(*req.LegacyEstimate)
	}

	task, err := s.store.CreateTask(r.Context(), store.TaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Status:           model.ParseStatus(req.Status),
		Priority:         model.ParsePriority(req.Priority),
		EstimatedMinutes: estimate,
	})
	if err != nil {
		s.logger.Error("create task", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	skip, _ := strconv.Atoi(q.Get("skip"))

	var priority model.Priority
	if p := strings.TrimSpace(q.Get("priority")); p != "" {
		priority = model.ParsePriority(p)
	}

	tasks, total, err := s.store.QueryTasks(r.Context(), store.Query{
		Limit:    limit,
		Skip:     skip,
		Priority: priority,
	})
	if err != nil {
		s.logger.Error("list tasks", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Total: total})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not_found", "task not found")
		return
	}
	if err != nil {
		s.logger.Error("get task", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	err := s.store.SetStatus(r.Context(), chi.URLParam(r, "taskID"), model.ParseStatus(req.Status))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not_found", "task not found")
		return
	}
	if err != nil {
		s.logger.Error("set status", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	err := s.store.StartTimer(r.Context(), chi.URLParam(r, "taskID"), time.Now())
	switch {
	case errors.Is(err, store.ErrTimerActive):
		writeError(w, http.StatusConflict, "timer_active", err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "not_found", "task not found")
	case err != nil:
		s.logger.Error("start timer", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to start timer")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"state": "running"})
	}
}

func (s *Server) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	minutes, err := s.store.StopTimer(r.Context(), chi.URLParam(r, "taskID"), time.Now())
	switch {
	case errors.Is(err, store.ErrNoActiveTimer):
		writeError(w, http.StatusConflict, "no_active_timer", err.Error())
	case err != nil:
		s.logger.Error("stop timer", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to stop timer")
	default:
		writeJSON(w, http.StatusOK, map[string]int{"minutes": minutes})
	}
}

func (s *Server) handleAddReminder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID   string    `json:"task_id"`
		Message  string    `json:"message"`
		RemindAt time.Time `json:"remind_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if req.TaskID == "" || req.RemindAt.IsZero() {
		writeError(w, http.StatusBadRequest, "invalid_input", "task_id and remind_at are required")
		return
	}

	reminder, err := s.store.AddReminder(r.Context(), req.TaskID, req.Message, req.RemindAt)
	if err != nil {
		s.logger.Error("add reminder", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to add reminder")
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}
