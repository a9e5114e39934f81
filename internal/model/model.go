package model

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusTodo       Status = "to-do"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// TimeEntry is one start/stop interval of work logged against a task.
// A nil EndedAt means the timer is still running.
type TimeEntry struct {
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Running reports whether the entry has no end time yet.
func (e TimeEntry) Running() bool {
	return e.EndedAt == nil
}

// Completed reports whether the entry is a measurable interval: both
// timestamps present and EndedAt not before StartedAt.
func (e TimeEntry) Completed() bool {
	return !e.StartedAt.IsZero() && e.EndedAt != nil && !e.EndedAt.Before(e.StartedAt)
}

// Minutes returns the entry duration rounded to whole minutes.
// Zero for running or malformed entries.
func (e TimeEntry) Minutes() int {
	if !e.Completed() {
		return 0
	}
	return int(e.EndedAt.Sub(e.StartedAt).Round(time.Minute) / time.Minute)
}

// Task is a unit of work tracked by the dashboard. Time entries are kept in
// insertion order, which matches the chronological order of timer starts.
type Task struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Status           Status      `json:"status"`
	Priority         Priority    `json:"priority"`
	EstimatedMinutes int         `json:"estimated_minutes,omitempty"`
	TimeEntries      []TimeEntry `json:"time_entries,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ActiveEntry returns the currently running time entry, or nil. The timer
// state machine allows at most one.
func (t *Task) ActiveEntry() *TimeEntry {
	for i := range t.TimeEntries {
		if t.TimeEntries[i].Running() {
			return &t.TimeEntries[i]
		}
	}
	return nil
}

// Reminder is a scheduled notification attached to a task.
type Reminder struct {
	ID       int64     `json:"id"`
	TaskID   string    `json:"task_id"`
	Message  string    `json:"message"`
	RemindAt time.Time `json:"remind_at"`
	Fired    bool      `json:"fired"`
}

// ParseStatus normalizes free-form status input. Unknown values fall back
// to pending.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to-do", "todo":
		return StatusTodo
	case "in-progress", "inprogress", "doing":
		return StatusInProgress
	case "done", "completed":
		return StatusDone
	default:
		return StatusPending
	}
}

// ParsePriority normalizes free-form priority input. Unknown values fall
// back to normal.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "urgent":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}
