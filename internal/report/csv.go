package report

import (
	"fmt"
	"sort"
	"strings"
)

// Column selects one exported CSV field.
type Column string

const (
	ColDate        Column = "Date"
	ColTitle       Column = "Task Title"
	ColDescription Column = "Description"
	ColStart       Column = "Start Time"
	ColEnd         Column = "End Time"
	ColDuration    Column = "Duration"
	ColStatus      Column = "Status"
	ColPriority    Column = "Priority"
)

// DefaultColumns is the full export header, in order.
var DefaultColumns = []Column{
	ColDate, ColTitle, ColDescription, ColStart, ColEnd,
	ColDuration, ColStatus, ColPriority,
}

// ToCSV serializes a bucket set as RFC-4180 CSV: header row first, then one
// row per (day, entry) pair ordered by day and start time. Days with no
// entries produce no rows. Passing nil cols exports every column.
func ToCSV(set BucketSet, cols []Column) string {
	if len(cols) == 0 {
		cols = DefaultColumns
	}

	days := make([]string, 0, len(set.Buckets))
	for day := range set.Buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(string(col)))
	}
	b.WriteByte('\n')

	for _, day := range days {
		bucket := set.Buckets[day]
		entries := make([]BucketEntry, len(bucket.Entries))
		copy(entries, bucket.Entries)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].StartedAt.Before(entries[j].StartedAt)
		})

		for _, e := range entries {
			for i, col := range cols {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(escapeCSV(fieldFor(col, day, e, set)))
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// ExportFilename derives the export file name from the timeframe label and
// the window start. Unbounded exports carry no date suffix.
func ExportFilename(label string, w *Window) string {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" {
		label = "custom"
	}
	if w == nil {
		return fmt.Sprintf("timesheet-%s.csv", label)
	}
	return fmt.Sprintf("timesheet-%s-%s.csv", label, w.Start.Format("2006-01-02"))
}

func fieldFor(col Column, day string, e BucketEntry, set BucketSet) string {
	loc := set.Location
	switch col {
	case ColDate:
		return day
	case ColTitle:
		return e.Title
	case ColDescription:
		return e.Description
	case ColStart:
		return e.StartedAt.In(loc).Format("15:04")
	case ColEnd:
		return e.EndedAt.In(loc).Format("15:04")
	case ColDuration:
		return fmt.Sprintf("%dm", e.Minutes)
	case ColStatus:
		return string(e.Status)
	case ColPriority:
		return string(e.Priority)
	default:
		return ""
	}
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
