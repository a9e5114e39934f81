package report

import (
	"time"

	"taskdeck/internal/model"
)

const dayKeyFormat = "2006-01-02"

// BucketEntry is one completed time entry attributed to a calendar day,
// carrying enough of its task to render and export without a second lookup.
type BucketEntry struct {
	TaskID      string
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	StartedAt   time.Time
	EndedAt     time.Time
	Minutes     int
}

// DayBucket collects every completed entry whose start falls on one
// calendar day.
type DayBucket struct {
	Day          string // dayKeyFormat
	Date         time.Time
	Entries      []BucketEntry
	TotalMinutes int
}

// BucketSet is the result of bucketing a task list into calendar days.
// TotalMinutes always equals the sum over all buckets, which in turn equals
// the sum of minutes of every included entry. Skipped counts malformed
// entries (zero start, or end before start) left out of the sums.
type BucketSet struct {
	Buckets      map[string]*DayBucket
	TotalMinutes int
	Skipped      int
	Location     *time.Location
}

// BucketByDay distributes each completed time entry of tasks into the
// calendar day its start falls on, keyed in loc. Running entries are
// ignored. When w is bounded, every day of the window is pre-seeded with an
// empty bucket so zero-activity days still show up in series output, and
// entries starting outside the window are dropped; when w is nil everything
// is included. Entries crossing midnight stay whole under their start day.
func BucketByDay(tasks []model.Task, w *Window, loc *time.Location) BucketSet {
	if loc == nil {
		loc = time.Local
	}
	set := BucketSet{
		Buckets:  make(map[string]*DayBucket),
		Location: loc,
	}

	if w != nil {
		for day := w.Start.In(loc); day.Before(w.End.In(loc)); day = day.AddDate(0, 0, 1) {
			key := day.Format(dayKeyFormat)
			set.Buckets[key] = &DayBucket{Day: key, Date: day}
		}
	}

	for _, task := range tasks {
		for _, entry := range task.TimeEntries {
			if entry.Running() {
				continue
			}
			if !entry.Completed() {
				set.Skipped++
				continue
			}
			if !w.Contains(entry.StartedAt) {
				continue
			}

			started := entry.StartedAt.In(loc)
			key := started.Format(dayKeyFormat)
			bucket, ok := set.Buckets[key]
			if !ok {
				bucket = &DayBucket{
					Day:  key,
					Date: time.Date(started.Year(), started.Month(), started.Day(), 0, 0, 0, 0, loc),
				}
				set.Buckets[key] = bucket
			}

			minutes := entry.Minutes()
			bucket.Entries = append(bucket.Entries, BucketEntry{
				TaskID:      task.ID,
				Title:       task.Title,
				Description: task.Description,
				Status:      task.Status,
				Priority:    task.Priority,
				StartedAt:   entry.StartedAt,
				EndedAt:     *entry.EndedAt,
				Minutes:     minutes,
			})
			bucket.TotalMinutes += minutes
			set.TotalMinutes += minutes
		}
	}

	return set
}

// EntryCount returns the number of bucketed entries across all days.
func (s BucketSet) EntryCount() int {
	n := 0
	for _, b := range s.Buckets {
		n += len(b.Entries)
	}
	return n
}
