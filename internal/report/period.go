package report

import (
	"fmt"
	"time"
)

// Timeframe is a symbolic reporting granularity.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeAll   Timeframe = "all"
)

// Window is a concrete half-open reporting range [Start, End). A nil
// *Window means unbounded (all-time).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the number of calendar days covered by the window.
func (w *Window) Days() int {
	if w == nil {
		return 0
	}
	return int(w.End.Sub(w.Start).Hours() / 24)
}

func (w *Window) String() string {
	if w == nil {
		return "all time"
	}
	last := w.End.AddDate(0, 0, -1)
	return fmt.Sprintf("%s to %s", w.Start.Format("2006-01-02"), last.Format("2006-01-02"))
}

// Resolve converts a timeframe plus a reference date into a concrete
// window in loc. Weeks start on Monday; a Sunday reference belongs to the
// week that began the previous Monday. TimeframeAll resolves to nil.
// Malformed reference dates are not validated here.
func Resolve(tf Timeframe, ref time.Time, loc *time.Location) *Window {
	if loc == nil {
		loc = time.Local
	}
	ref = ref.In(loc)

	switch tf {
	case TimeframeWeek:
		offset := 1 - int(ref.Weekday())
		if ref.Weekday() == time.Sunday {
			offset = -6
		}
		day := ref.AddDate(0, 0, offset)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		return &Window{Start: start, End: start.AddDate(0, 0, 7)}
	case TimeframeMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return &Window{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		return nil
	}
}

// Custom builds an explicit window covering the calendar days of start
// through end inclusive. An explicit range always overrides a
// timeframe-derived one at the call sites that accept both.
func Custom(start, end time.Time, loc *time.Location) *Window {
	if loc == nil {
		loc = time.Local
	}
	start = start.In(loc)
	end = end.In(loc)
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return &Window{Start: s, End: e}
}
