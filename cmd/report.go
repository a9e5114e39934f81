package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/render"
	"taskdeck/internal/report"
)

var (
	reportTimeframe string
	reportDate      string
	reportStart     string
	reportEnd       string
	reportFormat    string
	reportNoColor   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Timesheet and status report for a period",
	Long: `Examples:
	taskdeck report                               # this week
	taskdeck report --timeframe month             # this month
	taskdeck report --timeframe all               # everything
	taskdeck report --date 2025-03-10             # the week containing a date
	taskdeck report --start 2025-03-01 --end 2025-03-15
	taskdeck report --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		loc := cfg.Location()

		window, label, err := windowFromFlags(reportTimeframe, reportDate, reportStart, reportEnd, loc)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tasks, err := st.TasksInWindow(cmd.Context(), window)
		if err != nil {
			return err
		}

		set := report.BucketByDay(tasks, window, cfg.DayKeyLocation())
		if render.Format(reportFormat) == render.FormatCSV {
			fmt.Print(report.ToCSV(set, nil))
			return nil
		}
		sum := report.Aggregate(set, tasks)
		stats := report.Compute(sum.StatusCounts)

		renderCfg := render.DefaultConfig()
		renderCfg.Location = loc
		if reportNoColor {
			renderCfg.Color = false
		}
		if reportFormat != "" {
			renderCfg.Format = render.Format(reportFormat)
		}

		out, err := render.New(renderCfg).Summary(reportTitle(label), window, sum, stats)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func reportTitle(label string) string {
	switch label {
	case "week":
		return "Weekly report"
	case "month":
		return "Monthly report"
	case "all":
		return "All-time report"
	default:
		return "Report"
	}
}

// windowFromFlags resolves the reporting window. An explicit start+end
// range overrides the timeframe.
func windowFromFlags(timeframe, date, start, end string, loc *time.Location) (*report.Window, string, error) {
	if start != "" && end != "" {
		s, err := time.ParseInLocation("2006-01-02", start, loc)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --start date %q: %w", start, err)
		}
		e, err := time.ParseInLocation("2006-01-02", end, loc)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --end date %q: %w", end, err)
		}
		return report.Custom(s, e, loc), "custom", nil
	}
	if start != "" || end != "" {
		return nil, "", fmt.Errorf("--start and --end must be used together")
	}

	tf := report.Timeframe(strings.TrimSpace(timeframe))
	switch tf {
	case "", report.TimeframeWeek:
		tf = report.TimeframeWeek
	case report.TimeframeMonth, report.TimeframeAll:
	default:
		return nil, "", fmt.Errorf("timeframe must be week, month or all")
	}

	ref := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --date %q: %w", date, err)
		}
		ref = parsed
	}
	return report.Resolve(tf, ref, loc), string(tf), nil
}

func init() {
	reportCmd.Flags().StringVarP(&reportTimeframe, "timeframe", "t", "week", "Reporting period: week, month, all")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Reference date inside the period (2006-01-02)")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Custom range start (overrides --timeframe)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "Custom range end (overrides --timeframe)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "default", "Output format: default, json, csv")
	reportCmd.Flags().BoolVar(&reportNoColor, "no-color", false, "Disable colored output")
}
