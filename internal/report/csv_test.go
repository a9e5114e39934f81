package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/model"
)

func TestToCSVRowCountMatchesCompletedEntries(t *testing.T) {
	loc := time.UTC
	mon := time.Date(2025, time.June, 9, 9, 0, 0, 0, loc)
	w := Resolve(TimeframeWeek, mon, loc)
	tasks := []model.Task{
		{ID: "a", Title: "A", TimeEntries: []model.TimeEntry{
			entry(mon, 30),
			entry(mon.AddDate(0, 0, 2), 60),
			{StartedAt: mon.Add(time.Hour)}, // running, no row
		}},
		{ID: "b", Title: "B"}, // no entries, no rows
	}

	out := ToCSV(BucketByDay(tasks, w, loc), nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "Date,Task Title,Description,Start Time,End Time,Duration,Status,Priority" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
}

func TestToCSVQuotingRoundTrips(t *testing.T) {
	loc := time.UTC
	mon := time.Date(2025, time.June, 9, 9, 0, 0, 0, loc)
	title := `He said "hi", ok`
	tasks := []model.Task{{
		ID:          "a",
		Title:       title,
		Description: "line one\nline two",
		Status:      model.StatusDone,
		Priority:    model.PriorityHigh,
		TimeEntries: []model.TimeEntry{entry(mon, 45)},
	}}

	out := ToCSV(BucketByDay(tasks, nil, loc), nil)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV failed to parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d records", len(records))
	}
	row := records[1]
	if len(row) != len(DefaultColumns) {
		t.Fatalf("quoting broke column alignment: %d fields", len(row))
	}
	if row[1] != title {
		t.Fatalf("title did not round-trip: %q", row[1])
	}
	if row[2] != "line one\nline two" {
		t.Fatalf("description did not round-trip: %q", row[2])
	}
}

func TestToCSVColumnSelection(t *testing.T) {
	loc := time.UTC
	mon := time.Date(2025, time.June, 9, 9, 0, 0, 0, loc)
	tasks := []model.Task{{ID: "a", Title: "A", TimeEntries: []model.TimeEntry{entry(mon, 30)}}}

	out := ToCSV(BucketByDay(tasks, nil, loc), []Column{ColDate, ColDuration})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Date,Duration" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2025-06-09,30m" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestToCSVRowsOrderedByDayAndStart(t *testing.T) {
	loc := time.UTC
	mon := time.Date(2025, time.June, 9, 0, 0, 0, 0, loc)
	tasks := []model.Task{{ID: "a", Title: "A", TimeEntries: []model.TimeEntry{
		entry(mon.AddDate(0, 0, 1).Add(9*time.Hour), 10),
		entry(mon.Add(15*time.Hour), 10),
		entry(mon.Add(8*time.Hour), 10),
	}}}

	out := ToCSV(BucketByDay(tasks, nil, loc), []Column{ColDate, ColStart})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := []string{"Date,Start Time", "2025-06-09,08:00", "2025-06-09,15:00", "2025-06-10,09:00"}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}

func TestExportFilename(t *testing.T) {
	loc := time.UTC
	w := Resolve(TimeframeWeek, time.Date(2025, time.June, 11, 0, 0, 0, 0, loc), loc)
	if got := ExportFilename("week", w); got != "timesheet-week-2025-06-09.csv" {
		t.Fatalf("unexpected filename: %s", got)
	}
	if got := ExportFilename("all", nil); got != "timesheet-all.csv" {
		t.Fatalf("unexpected all-time filename: %s", got)
	}
}
