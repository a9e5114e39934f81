package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/model"
	"taskdeck/internal/report"
)

// ErrTimerActive is returned when starting a timer on a task that already
// has a running entry.
var ErrTimerActive = errors.New("task already has an active timer")

// ErrNoActiveTimer is returned when stopping a task with no running entry.
var ErrNoActiveTimer = errors.New("task has no active timer")

// TaskInput is the caller-facing shape for creating a task.
type TaskInput struct {
	Title            string
	Description      string
	Status           model.Status
	Priority         model.Priority
	EstimatedMinutes int
}

// Query filters the non-windowed, skip/limit style task listing used by the
// infinite-scroll browser.
type Query struct {
	Limit    int
	Skip     int
	Priority model.Priority
}

// WindowResult is one page of window-scoped tasks plus aggregate counts
// computed over the full scope, not just the page.
type WindowResult struct {
	Tasks       []model.Task
	Counts      report.Counts
	CurrentPage int
	TotalPages  int
	Total       int
	HasMore     bool
}

// CreateTask inserts a task and returns it.
func (s *Store) CreateTask(ctx context.Context, input TaskInput) (model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return model.Task{}, errors.New("title is required")
	}
	if input.Status == "" {
		input.Status = model.StatusPending
	}
	if input.Priority == "" {
		input.Priority = model.PriorityNormal
	}

	now := time.Now()
	task := model.Task{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		Status:           input.Status,
		Priority:         input.Priority,
		EstimatedMinutes: input.EstimatedMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, estimated_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.EstimatedMinutes, formatTime(now), formatTime(now))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// SetStatus updates a task's status.
func (s *Store) SetStatus(ctx context.Context, taskID string, status model.Status) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), formatTime(time.Now()), taskID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetTask loads one task with its time entries.
func (s *Store) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, title, description, status, priority, estimated_minutes, created_at, updated_at
		FROM tasks WHERE id = ?
	`, taskID)
	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, err
	}
	entries, err := s.loadEntries(ctx, []string{task.ID})
	if err != nil {
		return model.Task{}, err
	}
	task.TimeEntries = entries[task.ID]
	return task, nil
}

// StartTimer opens a time entry for the task at the given moment. At most
// one entry per task may be running.
func (s *Store) StartTimer(ctx context.Context, taskID string, at time.Time) error {
	var n int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM time_entries WHERE task_id = ? AND ended_at IS NULL
	`, taskID).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrTimerActive
	}

	var exists int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE id = ?`, taskID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return sql.ErrNoRows
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO time_entries (task_id, started_at) VALUES (?, ?)
	`, taskID, formatTime(at))
	return err
}

// StopTimer closes the task's running entry and returns its length in
// minutes.
func (s *Store) StopTimer(ctx context.Context, taskID string, at time.Time) (int, error) {
	var id int64
	var startedAt string
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, started_at FROM time_entries
		WHERE task_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1
	`, taskID).Scan(&id, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoActiveTimer
	}
	if err != nil {
		return 0, err
	}

	start, err := parseTime(startedAt)
	if err != nil {
		return 0, fmt.Errorf("bad start time in DB: %w", err)
	}
	if at.Before(start) {
		at = start
	}

	if _, err := s.DB.ExecContext(ctx, `
		UPDATE time_entries SET ended_at = ? WHERE id = ?
	`, formatTime(at), id); err != nil {
		return 0, err
	}

	entry := model.TimeEntry{StartedAt: start, EndedAt: &at}
	return entry.Minutes(), nil
}

// QueryTasksByWindow returns one page of the tasks in scope for a reporting
// window, together with status counts over the whole scope. Scope: tasks
// created inside the window or with a timer started inside it; everything
// when the window is nil.
func (s *Store) QueryTasksByWindow(ctx context.Context, w *report.Window, page, size int) (WindowResult, error) {
	if size <= 0 {
		size = 20
	}
	if page < 1 {
		page = 1
	}

	where, args := windowScope(w)

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return WindowResult{}, fmt.Errorf("count window tasks: %w", err)
	}

	counts, err := s.windowCounts(ctx, where, args)
	if err != nil {
		return WindowResult{}, err
	}

	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * size

	listArgs := append(append([]any{}, args...), size, offset)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, description, status, priority, estimated_minutes, created_at, updated_at
		FROM tasks `+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, listArgs...)
	if err != nil {
		return WindowResult{}, fmt.Errorf("query window tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return WindowResult{}, err
	}
	if err := s.attachEntries(ctx, tasks); err != nil {
		return WindowResult{}, err
	}

	return WindowResult{
		Tasks:       tasks,
		Counts:      counts,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasMore:     page < totalPages,
	}, nil
}

// QueryTasks lists tasks with limit/skip pagination and an optional
// priority filter, newest first.
func (s *Store) QueryTasks(ctx context.Context, q Query) ([]model.Task, int, error) {
	if q.Limit <= 0 || q.Limit > 1000 {
		q.Limit = 50
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	where := ""
	args := []any{}
	if q.Priority != "" {
		where = "WHERE priority = ?"
		args = append(args, string(q.Priority))
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]any{}, args...), q.Limit, q.Skip)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, description, status, priority, estimated_minutes, created_at, updated_at
		FROM tasks `+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachEntries(ctx, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// TasksInWindow loads the full window scope without pagination. Exports use
// this so a partially loaded page never truncates the output.
func (s *Store) TasksInWindow(ctx context.Context, w *report.Window) ([]model.Task, error) {
	where, args := windowScope(w)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, description, status, priority, estimated_minutes, created_at, updated_at
		FROM tasks `+where+`
		ORDER BY created_at DESC, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query window tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachEntries(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func windowScope(w *report.Window) (string, []any) {
	if w == nil {
		return "", nil
	}
	start := formatTime(w.Start)
	end := formatTime(w.End)
	where := `WHERE (created_at >= ? AND created_at < ?)
		OR id IN (SELECT task_id FROM time_entries WHERE started_at >= ? AND started_at < ?)`
	return where, []any{start, end, start, end}
}

func (s *Store) windowCounts(ctx context.Context, where string, args []any) (report.Counts, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM tasks `+where+` GROUP BY status
	`, args...)
	if err != nil {
		return report.Counts{}, fmt.Errorf("count statuses: %w", err)
	}
	defer rows.Close()

	var c report.Counts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return report.Counts{}, err
		}
		c.Total += n
		switch model.Status(status) {
		case model.StatusDone:
			c.Done += n
		case model.StatusInProgress:
			c.InProgress += n
		case model.StatusTodo:
			c.Todo += n
		default:
			c.Pending += n
		}
	}
	return c, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var status, priority, createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority,
		&t.EstimatedMinutes, &createdAt, &updatedAt); err != nil {
		return model.Task{}, err
	}
	t.Status = model.Status(status)
	t.Priority = model.Priority(priority)
	if ts, err := parseTime(createdAt); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := parseTime(updatedAt); err == nil {
		t.UpdatedAt = ts
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	defer rows.Close()
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// attachEntries loads time entries for the given tasks in one query,
// preserving insertion (chronological) order per task.
func (s *Store) attachEntries(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]any, len(tasks))
	placeholders := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		placeholders[i] = "?"
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT task_id, started_at, ended_at FROM time_entries
		WHERE task_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY id
	`, ids...)
	if err != nil {
		return fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	byTask := make(map[string][]model.TimeEntry)
	for rows.Next() {
		var taskID, startedAt string
		var endedAt sql.NullString
		if err := rows.Scan(&taskID, &startedAt, &endedAt); err != nil {
			return err
		}
		entry := model.TimeEntry{}
		if ts, err := parseTime(startedAt); err == nil {
			entry.StartedAt = ts
		}
		if endedAt.Valid {
			if ts, err := parseTime(endedAt.String); err == nil {
				entry.EndedAt = &ts
			}
		}
		byTask[taskID] = append(byTask[taskID], entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		tasks[i].TimeEntries = byTask[tasks[i].ID]
	}
	return nil
}

func (s *Store) loadEntries(ctx context.Context, ids []string) (map[string][]model.TimeEntry, error) {
	tasks := make([]model.Task, len(ids))
	for i, id := range ids {
		tasks[i] = model.Task{ID: id}
	}
	if err := s.attachEntries(ctx, tasks); err != nil {
		return nil, err
	}
	out := make(map[string][]model.TimeEntry, len(tasks))
	for _, t := range tasks {
		out[t.ID] = t.TimeEntries
	}
	return out, nil
}
