package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdeck/internal/logging"
	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

func newTestServer(t *testing.T, opts Options) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if opts.Addr == "" {
		opts.Addr = ":0"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return NewServer(opts, st, logging.New("error")), st
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestCreateAndListTasks(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{
		"title":    "Write report",
		"priority": "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[model.Task](t, rec)
	if created.ID == "" {
		t.Fatal("created task has no id")
	}
	if created.Priority != model.PriorityHigh {
		t.Fatalf("priority = %q, want high", created.Priority)
	}
	if created.Status != model.StatusPending {
		t.Fatalf("status = %q, want pending default", created.Status)
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/tasks/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decodeBody[taskListResponse](t, rec)
	if list.Total != 1 || len(list.Tasks) != 1 {
		t.Fatalf("list = %d tasks total %d, want 1/1", len(list.Tasks), list.Total)
	}
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{"title": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTaskDecodesLegacyEstimate(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{
		"title":              "Migrate old client",
		"estimated_duration": "1970-01-01T02:30:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[model.Task](t, rec)
	if created.EstimatedMinutes != 150 {
		t.Fatalf("estimated minutes = %d, want 150", created.EstimatedMinutes)
	}
}

func TestPlainMinutesWinOverLegacyEstimate(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{
		"title":              "Both fields",
		"estimated_minutes":  45,
		"estimated_duration": "1970-01-01T02:30:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	created := decodeBody[model.Task](t, rec)
	if created.EstimatedMinutes != 45 {
		t.Fatalf("estimated minutes = %d, want 45", created.EstimatedMinutes)
	}
}

func TestTimerConflicts(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{"title": "Timed work"})
	created := decodeBody[model.Task](t, rec)

	base := "/v1/tasks/" + created.ID

	if rec = doJSON(t, s, http.MethodPost, base+"/timer/stop", nil); rec.Code != http.StatusConflict {
		t.Fatalf("stop without timer status = %d, want 409", rec.Code)
	}
	if rec = doJSON(t, s, http.MethodPost, base+"/timer/start", nil); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	if rec = doJSON(t, s, http.MethodPost, base+"/timer/start", nil); rec.Code != http.StatusConflict {
		t.Fatalf("second start status = %d, want 409", rec.Code)
	}
	if rec = doJSON(t, s, http.MethodPost, base+"/timer/stop", nil); rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d", rec.Code)
	}
}

func TestTimerStartUnknownTask(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/no-such-task/timer/start", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSetStatusAndFetch(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{"title": "Flip me"})
	created := decodeBody[model.Task](t, rec)

	rec = doJSON(t, s, http.MethodPatch, "/v1/tasks/"+created.ID+"/status", map[string]any{"status": "done"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/tasks/"+created.ID+"/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := decodeBody[model.Task](t, rec)
	if got.Status != model.StatusDone {
		t.Fatalf("status = %q, want done", got.Status)
	}

	rec = doJSON(t, s, http.MethodPatch, "/v1/tasks/missing/status", map[string]any{"status": "done"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("patch missing status = %d, want 404", rec.Code)
	}
}

func TestReportSummaryValidation(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodGet, "/v1/reports/summary?timeframe=fortnight", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad timeframe status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/reports/summary?timeframe=week&date=2025-06-11", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rec.Code, rec.Body.String())
	}
	sum := decodeBody[summaryResponse](t, rec)
	if sum.Timeframe != "week" {
		t.Fatalf("timeframe = %q, want week", sum.Timeframe)
	}
	// 2025-06-11 is a Wednesday; the Monday week runs 06-09 through 06-15.
	if sum.Window != "2025-06-09 to 2025-06-15" {
		t.Fatalf("window = %q", sum.Window)
	}
	if len(sum.Summary.Daily) != 7 {
		t.Fatalf("daily points = %d, want 7 seeded days", len(sum.Summary.Daily))
	}
}

func TestReportSummaryCountsFullScope(t *testing.T) {
	s, _ := newTestServer(t, Options{PageSize: 1})

	for i := 0; i < 3; i++ {
		status := "done"
		if i == 0 {
			status = "in-progress"
		}
		rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{
			"title":  fmt.Sprintf("task %d", i),
			"status": status,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d status = %d", i, rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/v1/reports/summary?timeframe=all&limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	sum := decodeBody[summaryResponse](t, rec)

	if len(sum.Tasks) != 1 {
		t.Fatalf("page size = %d tasks, want 1", len(sum.Tasks))
	}
	// Counts and stats cover all three tasks, not the single visible one.
	if sum.Summary.StatusCounts.Total != 3 || sum.Summary.StatusCounts.Done != 2 {
		t.Fatalf("counts = %+v, want total 3 done 2", sum.Summary.StatusCounts)
	}
	if sum.Stats.CompletionRate != 67 {
		t.Fatalf("completion rate = %d, want 67", sum.Stats.CompletionRate)
	}
	if !sum.Pagination.HasMore || sum.Pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v", sum.Pagination)
	}
}

func TestExportDisposition(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodGet, "/v1/export?timeframe=week&date=2025-06-11", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	want := `attachment; filename="timesheet-week-2025-06-09.csv"`
	if cd := rec.Header().Get("Content-Disposition"); cd != want {
		t.Fatalf("content disposition = %q, want %q", cd, want)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s, _ := newTestServer(t, Options{AuthToken: "sekrit"})

	rec := doJSON(t, s, http.MethodGet, "/v1/tasks/", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks/", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("bearer token status = %d, want 200", rr.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/tasks/?token=sekrit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("query token status = %d, want 200", rec.Code)
	}
}

func TestAddReminderEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{"title": "Call dentist"})
	created := decodeBody[model.Task](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/v1/reminders", map[string]any{
		"task_id":   created.ID,
		"message":   "book the appointment",
		"remind_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add reminder status = %d, body %s", rec.Code, rec.Body.String())
	}
	reminder := decodeBody[model.Reminder](t, rec)
	if reminder.TaskID != created.ID || reminder.Fired {
		t.Fatalf("reminder = %+v", reminder)
	}

	rec = doJSON(t, s, http.MethodPost, "/v1/reminders", map[string]any{"message": "no task"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields status = %d, want 400", rec.Code)
	}
}

func TestReportSummaryIncludesReminderHistogram(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := doJSON(t, s, http.MethodPost, "/v1/tasks/", map[string]any{"title": "Standup prep"})
	created := decodeBody[model.Task](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/v1/reminders", map[string]any{
		"task_id":   created.ID,
		"message":   "post the agenda",
		"remind_at": "2025-06-09T09:30:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add reminder status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/reports/summary?timeframe=all", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	sum := decodeBody[summaryResponse](t, rec)
	if sum.Summary.HourlyHistogram[9] != 1 {
		t.Fatalf("hour 09 count = %d, want 1", sum.Summary.HourlyHistogram[9])
	}
}
