// Package schedule dispatches due task reminders as desktop notifications.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"taskdeck/internal/notify"
	"taskdeck/internal/store"
)

// ReminderSource abstracts the persistence layer the dispatcher sweeps.
type ReminderSource interface {
	DueReminders(ctx context.Context, now time.Time) ([]store.DueReminder, error)
	MarkFired(ctx context.Context, id int64) error
}

// Notifier delivers one notification. The default sends a desktop toast.
type Notifier func(title, message string) error

// Dispatcher runs a minutely sweep for due reminders and fires
// notifications for them.
type Dispatcher struct {
	source ReminderSource
	logger *slog.Logger
	send   Notifier
	cron   *cron.Cron

	ctx context.Context
}

// NewDispatcher constructs a dispatcher. A nil send falls back to desktop
// notifications.
func NewDispatcher(source ReminderSource, logger *slog.Logger, loc *time.Location, send Notifier) *Dispatcher {
	if loc == nil {
		loc = time.Local
	}
	if send == nil {
		send = notify.Info
	}
	return &Dispatcher{
		source: source,
		logger: logger,
		send:   send,
		cron:   cron.New(cron.WithLocation(loc)),
	}
}

// Start begins the minutely sweep. ctx bounds the store calls made by each
// sweep.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.ctx = ctx
	if _, err := d.cron.AddFunc("* * * * *", func() { d.Sweep(d.ctx, time.Now()) }); err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

// Stop halts the sweep loop; the returned context is done once in-flight
// jobs finish.
func (d *Dispatcher) Stop() context.Context {
	return d.cron.Stop()
}

// Sweep fires every reminder due at now. A notification failure is logged
// and the reminder stays unfired for the next sweep; a mark failure is
// logged but does not re-deliver within this sweep.
func (d *Dispatcher) Sweep(ctx context.Context, now time.Time) {
	due, err := d.source.DueReminders(ctx, now)
	if err != nil {
		d.logger.Error("load due reminders", "err", err)
		return
	}
	for _, r := range due {
		title, message := notify.FormatReminder(r.TaskTitle, r.Message)
		if err := d.send(title, message); err != nil {
			d.logger.Error("send reminder", "reminder_id", r.ID, "err", err)
			continue
		}
		if err := d.source.MarkFired(ctx, r.ID); err != nil {
			d.logger.Error("mark reminder fired", "reminder_id", r.ID, "err", err)
		}
	}
}
