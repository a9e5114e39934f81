package report

import (
	"math"
	"sort"
	"time"

	"taskdeck/internal/model"
)

// DailyPoint is one day of the daily series: hours worked and how many
// timer intervals touched the day.
type DailyPoint struct {
	Day         string  `json:"day"`
	DayName     string  `json:"day_name"`
	Hours       float64 `json:"hours"`
	TaskTouches int     `json:"task_touches"`
}

// Summary bundles every derived view a report consumer needs.
type Summary struct {
	Daily           []DailyPoint               `json:"daily"`
	ByPriority      map[model.Priority]float64 `json:"by_priority"`
	StatusCounts    Counts                     `json:"status_counts"`
	TotalMinutes    int                        `json:"total_minutes"`
	EntryCount      int                        `json:"entry_count"`
	SkippedEntries  int                        `json:"skipped_entries,omitempty"`
	HourlyHistogram [24]int                    `json:"hourly_histogram"`
}

// Aggregate derives the summary from a bucket set and the raw task list it
// was built from. Pure: same inputs, same output. HourlyHistogram needs
// scheduled reminder times, which the bucket set does not carry; callers
// fill it via HourlyHistogram.
func Aggregate(set BucketSet, tasks []model.Task) Summary {
	return Summary{
		Daily:          DailySeries(set),
		ByPriority:     DurationByPriority(set),
		StatusCounts:   StatusDistribution(tasks),
		TotalMinutes:   set.TotalMinutes,
		EntryCount:     set.EntryCount(),
		SkippedEntries: set.Skipped,
	}
}

// DailySeries flattens a bucket set into a date-sorted series of
// {day, hours, touches} points. Hours are rounded to one decimal.
func DailySeries(set BucketSet) []DailyPoint {
	points := make([]DailyPoint, 0, len(set.Buckets))
	for _, bucket := range set.Buckets {
		points = append(points, DailyPoint{
			Day:         bucket.Day,
			DayName:     bucket.Date.Weekday().String(),
			Hours:       roundHours(bucket.TotalMinutes),
			TaskTouches: len(bucket.Entries),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}

// DurationByPriority sums entry durations grouped by task priority,
// in hours rounded to one decimal.
func DurationByPriority(set BucketSet) map[model.Priority]float64 {
	minutes := make(map[model.Priority]int)
	for _, bucket := range set.Buckets {
		for _, e := range bucket.Entries {
			minutes[e.Priority] += e.Minutes
		}
	}
	hours := make(map[model.Priority]float64, len(minutes))
	for p, m := range minutes {
		hours[p] = roundHours(m)
	}
	return hours
}

// StatusDistribution counts tasks by status. Tasks with no time entries
// still count.
func StatusDistribution(tasks []model.Task) Counts {
	var c Counts
	for _, t := range tasks {
		c.Total++
		switch t.Status {
		case model.StatusDone:
			c.Done++
		case model.StatusInProgress:
			c.InProgress++
		case model.StatusTodo:
			c.Todo++
		default:
			c.Pending++
		}
	}
	return c
}

// HourlyHistogram buckets scheduled timestamps (reminder times, not timer
// starts) by their hour of day in loc.
func HourlyHistogram(times []time.Time, loc *time.Location) [24]int {
	if loc == nil {
		loc = time.Local
	}
	var hist [24]int
	for _, t := range times {
		hist[t.In(loc).Hour()]++
	}
	return hist
}

func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
