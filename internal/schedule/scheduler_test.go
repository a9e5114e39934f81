package schedule

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

type fakeSource struct {
	due     []store.DueReminder
	fired   []int64
	dueErr  error
	markErr error
}

func (f *fakeSource) DueReminders(ctx context.Context, now time.Time) ([]store.DueReminder, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	var out []store.DueReminder
	for _, r := range f.due {
		if !r.RemindAt.After(now) && !r.Fired {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) MarkFired(ctx context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.fired = append(f.fired, id)
	for i := range f.due {
		if f.due[i].ID == id {
			f.due[i].Fired = true
		}
	}
	return nil
}

func reminder(id int64, title string, at time.Time) store.DueReminder {
	return store.DueReminder{
		Reminder:  model.Reminder{ID: id, TaskID: "t", Message: "m", RemindAt: at},
		TaskTitle: title,
	}
}

func TestSweepFiresDueReminders(t *testing.T) {
	now := time.Date(2025, time.June, 9, 17, 0, 0, 0, time.UTC)
	src := &fakeSource{due: []store.DueReminder{
		reminder(1, "Pay rent", now.Add(-time.Minute)),
		reminder(2, "Later", now.Add(time.Hour)),
	}}

	var sent []string
	d := NewDispatcher(src, slog.Default(), time.UTC, func(title, message string) error {
		sent = append(sent, title)
		return nil
	})

	d.Sweep(context.Background(), now)

	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if sent[0] != "Reminder: Pay rent" {
		t.Fatalf("unexpected notification title: %s", sent[0])
	}
	if len(src.fired) != 1 || src.fired[0] != 1 {
		t.Fatalf("expected reminder 1 marked fired, got %v", src.fired)
	}

	// Second sweep has nothing left to deliver.
	d.Sweep(context.Background(), now)
	if len(sent) != 1 {
		t.Fatalf("fired reminder must not be re-delivered")
	}
}

func TestSweepKeepsReminderOnSendFailure(t *testing.T) {
	now := time.Date(2025, time.June, 9, 17, 0, 0, 0, time.UTC)
	src := &fakeSource{due: []store.DueReminder{reminder(1, "Flaky", now)}}

	attempts := 0
	d := NewDispatcher(src, slog.Default(), time.UTC, func(title, message string) error {
		attempts++
		if attempts == 1 {
			return errors.New("toast failed")
		}
		return nil
	})

	d.Sweep(context.Background(), now)
	if len(src.fired) != 0 {
		t.Fatalf("failed delivery must leave the reminder unfired")
	}

	d.Sweep(context.Background(), now)
	if len(src.fired) != 1 {
		t.Fatalf("expected delivery on retry sweep, fired=%v", src.fired)
	}
}
