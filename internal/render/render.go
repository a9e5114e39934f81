// Package render formats report summaries and task lists for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/model"
	"taskdeck/internal/report"
)

// Format selects the output format for CLI commands.
type Format string

const (
	FormatDefault Format = "default"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
)

// Config controls rendering.
type Config struct {
	Format   Format
	Color    bool
	Width    int
	Location *time.Location
}

func DefaultConfig() *Config {
	return &Config{
		Format:   FormatDefault,
		Color:    true,
		Width:    100,
		Location: time.Local,
	}
}

// Styles contains lipgloss styles for the different elements.
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	Day       lipgloss.Style
	Value     lipgloss.Style
	Bar       lipgloss.Style
	Warning   lipgloss.Style
}

// Renderer handles output formatting.
type Renderer struct {
	config *Config
	styles *Styles
}

func New(config *Config) *Renderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Renderer{config: config, styles: initStyles(config.Color)}
}

func initStyles(color bool) *Styles {
	styles := &Styles{}
	if color {
		styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
		styles.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
		styles.Meta = lipgloss.NewStyle().Faint(true)
		styles.Day = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
		styles.Value = lipgloss.NewStyle().Bold(true)
		styles.Bar = lipgloss.NewStyle().Foreground(lipgloss.Color("#94E2D5"))
		styles.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387"))
	} else {
		styles.Title = lipgloss.NewStyle().Bold(true)
		styles.Separator = lipgloss.NewStyle()
		styles.Meta = lipgloss.NewStyle()
		styles.Day = lipgloss.NewStyle()
		styles.Value = lipgloss.NewStyle().Bold(true)
		styles.Bar = lipgloss.NewStyle()
		styles.Warning = lipgloss.NewStyle()
	}
	return styles
}

// Summary renders an aggregated report for one window.
func (r *Renderer) Summary(title string, w *report.Window, sum report.Summary, stats report.Stats) (string, error) {
	if r.config.Format == FormatJSON {
		return marshalJSON(struct {
			Window string         `json:"window"`
			report.Summary
			Stats report.Stats `json:"stats"`
		}{w.String(), sum, stats})
	}

	var b strings.Builder
	sep := r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))

	b.WriteString(r.styles.Title.Render(title))
	b.WriteString("  ")
	b.WriteString(r.styles.Meta.Render(w.String()))
	b.WriteString("\n")
	b.WriteString(sep)
	b.WriteString("\n")

	for _, point := range sum.Daily {
		if point.TaskTouches == 0 && len(sum.Daily) > 14 {
			continue // keep long all-time reports readable
		}
		bar := strings.Repeat("▇", barWidth(point.Hours))
		b.WriteString(fmt.Sprintf("%s %s  %s %s %s\n",
			r.styles.Day.Render(fmt.Sprintf("%-9s", point.DayName)),
			r.styles.Meta.Render(point.Day),
			r.styles.Value.Render(fmt.Sprintf("%5.1fh", point.Hours)),
			r.styles.Bar.Render(bar),
			r.styles.Meta.Render(fmt.Sprintf("(%d entries)", point.TaskTouches)),
		))
	}

	b.WriteString(sep)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s across %d entries\n",
		r.styles.Value.Render(formatMinutes(sum.TotalMinutes)), sum.EntryCount))

	c := sum.StatusCounts
	b.WriteString(fmt.Sprintf("Tasks: %d total | %d done, %d in progress, %d to-do, %d pending\n",
		c.Total, c.Done, c.InProgress, c.Todo, c.Pending))
	b.WriteString(fmt.Sprintf("Completion: %s  In progress: %d%%  Open: %d%%\n",
		r.styles.Value.Render(fmt.Sprintf("%d%%", stats.CompletionRate)),
		stats.InProgressRate, stats.OpenRate))

	if len(sum.ByPriority) > 0 {
		parts := make([]string, 0, len(sum.ByPriority))
		for _, p := range []model.Priority{model.PriorityHigh, model.PriorityNormal, model.PriorityLow} {
			if h, ok := sum.ByPriority[p]; ok {
				parts = append(parts, fmt.Sprintf("%s %.1fh", p, h))
			}
		}
		b.WriteString("By priority: ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	if sum.SkippedEntries > 0 {
		b.WriteString(r.styles.Warning.Render(
			fmt.Sprintf("Skipped %d malformed time entries", sum.SkippedEntries)))
		b.WriteString("\n")
	}

	return b.String(), nil
}

// TaskList renders one page of tasks with pagination metadata.
func (r *Renderer) TaskList(tasks []model.Task, page, totalPages, total int) (string, error) {
	if r.config.Format == FormatJSON {
		return marshalJSON(struct {
			Tasks      []model.Task `json:"tasks"`
			Page       int          `json:"page"`
			TotalPages int          `json:"total_pages"`
			Total      int          `json:"total"`
		}{tasks, page, totalPages, total})
	}

	var b strings.Builder
	for _, t := range tasks {
		marker := " "
		if t.ActiveEntry() != nil {
			marker = r.styles.Bar.Render("●")
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			marker,
			r.styles.Meta.Render(fmt.Sprintf("[%-11s]", t.Status)),
			r.styles.Value.Render(t.Title),
			r.styles.Meta.Render(fmt.Sprintf("(%s)", t.Priority)),
		))
	}

	if total == 0 {
		b.WriteString(r.styles.Meta.Render("No tasks"))
		b.WriteString("\n")
	} else if totalPages > 1 {
		b.WriteString(r.styles.Meta.Render(
			fmt.Sprintf("Page %d of %d | %d tasks total", page, totalPages, total)))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Histogram renders the hour-of-day reminder histogram.
func (r *Renderer) Histogram(hist [24]int) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Reminders by hour"))
	b.WriteString("\n")
	for hour, n := range hist {
		if n == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			r.styles.Day.Render(fmt.Sprintf("%02d:00", hour)),
			r.styles.Bar.Render(strings.Repeat("▇", n)),
			r.styles.Meta.Render(fmt.Sprintf("%d", n)),
		))
	}
	return b.String()
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func barWidth(hours float64) int {
	n := int(hours * 2)
	if n > 40 {
		n = 40
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
