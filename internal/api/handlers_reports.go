package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/report"
)

type summaryResponse struct {
	Window     string         `json:"window"`
	Timeframe  string         `json:"timeframe"`
	Stats      report.Stats   `json:"stats"`
	Summary    report.Summary `json:"summary"`
	Tasks      []model.Task   `json:"tasks"`
	Pagination pagination     `json:"pagination"`
}

type pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	Total       int  `json:"total"`
	HasMore     bool `json:"has_more"`
}

// resolveWindow derives the reporting window from query parameters. An
// explicit start+end pair overrides the timeframe.
func (s *Server) resolveWindow(r *http.Request) (*report.Window, string, error) {
	q := r.URL.Query()

	startStr := strings.TrimSpace(q.Get("start"))
	endStr := strings.TrimSpace(q.Get("end"))
	if startStr != "" && endStr != "" {
		start, err := time.ParseInLocation("2006-01-02", startStr, s.location)
		if err != nil {
			return nil, "", fmt.Errorf("invalid start date %q", startStr)
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, s.location)
		if err != nil {
			return nil, "", fmt.Errorf("invalid end date %q", endStr)
		}
		return report.Custom(start, end, s.location), "custom", nil
	}

	tf := report.Timeframe(strings.TrimSpace(q.Get("timeframe")))
	if tf == "" {
		tf = report.TimeframeWeek
	}
	switch tf {
	case report.TimeframeWeek, report.TimeframeMonth, report.TimeframeAll:
	default:
		return nil, "", fmt.Errorf("timeframe must be week, month or all")
	}

	ref := time.Now()
	if dateStr := strings.TrimSpace(q.Get("date")); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, s.location)
		if err != nil {
			return nil, "", fmt.Errorf("invalid reference date %q", dateStr)
		}
		ref = parsed
	}

	return report.Resolve(tf, ref, s.location), string(tf), nil
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	window, timeframe, err := s.resolveWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if size <= 0 {
		size = s.pageSize
	}

	res, err := s.store.QueryTasksByWindow(r.Context(), window, page, size)
	if err != nil {
		s.logger.Error("query window", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to query tasks")
		return
	}

	// Aggregates run over the full scope so a paginated view never skews
	// the series.
	scope, err := s.store.TasksInWindow(r.Context(), window)
	if err != nil {
		s.logger.Error("load window scope", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load window")
		return
	}

	set := report.BucketByDay(scope, window, s.dayKeyLoc)
	sum := report.Aggregate(set, scope)

	times, err := s.store.ReminderTimes(r.Context())
	if err != nil {
		s.logger.Error("load reminder times", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load reminders")
		return
	}
	sum.HourlyHistogram = report.HourlyHistogram(times, s.location)

	writeJSON(w, http.StatusOK, summaryResponse{
		Window:    window.String(),
		Timeframe: timeframe,
		Stats:     report.Compute(res.Counts),
		Summary:   sum,
		Tasks:     res.Tasks,
		Pagination: pagination{
			CurrentPage: res.CurrentPage,
			TotalPages:  res.TotalPages,
			Total:       res.Total,
			HasMore:     res.HasMore,
		},
	})
}

func (s *Server) handleReportSchedule(w http.ResponseWriter, r *http.Request) {
	times, err := s.store.ReminderTimes(r.Context())
	if err != nil {
		s.logger.Error("load reminder times", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load reminders")
		return
	}

	hist := report.HourlyHistogram(times, s.location)
	writeJSON(w, http.StatusOK, map[string]any{
		"hourly_histogram": hist,
		"total":            len(times),
	})
}

// handleExport streams the full window as CSV. The window comes from the
// request, never from any previously paginated state, so the export is
// always complete.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	window, timeframe, err := s.resolveWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	tasks, err := s.store.TasksInWindow(r.Context(), window)
	if err != nil {
		s.logger.Error("load export window", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load tasks")
		return
	}

	var cols []report.Column
	if colParam := strings.TrimSpace(r.URL.Query().Get("columns")); colParam != "" {
		for _, c := range strings.Split(colParam, ",") {
			cols = append(cols, report.Column(strings.TrimSpace(c)))
		}
	}

	set := report.BucketByDay(tasks, window, s.dayKeyLoc)
	csvData := report.ToCSV(set, cols)
	filename := report.ExportFilename(timeframe, window)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csvData))
}
