package render

import (
	"strings"
	"testing"
	"time"

	"taskdeck/internal/report"
)

func TestSummaryStatusLine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Color = false
	cfg.Location = time.UTC

	sum := report.Summary{
		StatusCounts: report.Counts{Total: 3, Done: 2, InProgress: 1},
		TotalMinutes: 90,
		EntryCount:   2,
	}
	out, err := New(cfg).Summary("Weekly report", nil, sum, report.Compute(sum.StatusCounts))
	if err != nil {
		t.Fatalf("render summary: %v", err)
	}

	if !strings.Contains(out, "Tasks: 3 total | 2 done, 1 in progress, 0 to-do, 0 pending") {
		t.Fatalf("unexpected status line:\n%s", out)
	}
	if strings.ContainsRune(out, '—') {
		t.Fatalf("status line should use plain separators:\n%s", out)
	}
	if !strings.Contains(out, "Completion: 67%") {
		t.Fatalf("missing completion rate:\n%s", out)
	}
}
