package store

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/model"
)

// DueReminder is a reminder joined with its task title for notification
// display.
type DueReminder struct {
	model.Reminder
	TaskTitle string
}

// AddReminder schedules a notification for a task.
func (s *Store) AddReminder(ctx context.Context, taskID, message string, at time.Time) (model.Reminder, error) {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO reminders (task_id, message, remind_at) VALUES (?, ?, ?)
	`, taskID, message, formatTime(at))
	if err != nil {
		return model.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	id, _ := res.LastInsertId()
	return model.Reminder{ID: id, TaskID: taskID, Message: message, RemindAt: at}, nil
}

// DueReminders returns unfired reminders whose time has passed, oldest
// first.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]DueReminder, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, r.task_id, r.message, r.remind_at, t.title
		FROM reminders r JOIN tasks t ON t.id = r.task_id
		WHERE r.fired = 0 AND r.remind_at <= ?
		ORDER BY r.remind_at
	`, formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var due []DueReminder
	for rows.Next() {
		var d DueReminder
		var remindAt string
		if err := rows.Scan(&d.ID, &d.TaskID, &d.Message, &remindAt, &d.TaskTitle); err != nil {
			return nil, err
		}
		if ts, err := parseTime(remindAt); err == nil {
			d.RemindAt = ts
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// MarkFired records that a reminder's notification was delivered.
func (s *Store) MarkFired(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE reminders SET fired = 1 WHERE id = ?`, id)
	return err
}

// ReminderTimes returns every scheduled reminder time, the input for the
// hour-of-day histogram.
func (s *Store) ReminderTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT remind_at FROM reminders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if ts, err := parseTime(raw); err == nil {
			times = append(times, ts)
		}
	}
	return times, rows.Err()
}
