package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"taskdeck/internal/report"
)

var (
	exportTimeframe string
	exportDate      string
	exportStart     string
	exportEnd       string
	exportColumns   string
	exportDir       string
)

// exportCmd serializes a full reporting window to CSV. It always fetches
// the complete qualifying task set for the requested window; the export
// never depends on what any other view currently has loaded.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a timesheet as CSV",
	Long: `Examples:
	taskdeck export                               # this week
	taskdeck export --timeframe month
	taskdeck export --start 2025-03-01 --end 2025-03-15
	taskdeck export --columns "Date,Task Title,Duration"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		loc := cfg.Location()

		window, label, err := windowFromFlags(exportTimeframe, exportDate, exportStart, exportEnd, loc)
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

		var cols []report.Column
		if exportColumns != "" {
			for _, c := range strings.Split(exportColumns, ",") {
				cols = append(cols, report.Column(strings.TrimSpace(c)))
			}
		}

		set := report.BucketByDay(tasks, window, cfg.DayKeyLocation())
		csvData := report.ToCSV(set, cols)

		path := filepath.Join(exportDir, report.ExportFilename(label, window))
		if err := os.WriteFile(path, []byte(csvData), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}

		fmt.Printf("Exported %d entries to %s\n", set.EntryCount(), path)
		if set.Skipped > 0 {
			fmt.Printf("Skipped %d malformed time entries\n", set.Skipped)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportTimeframe, "timeframe", "t", "week", "Reporting period: week, month, all")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Reference date inside the period (2006-01-02)")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Custom range start (overrides --timeframe)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Custom range end (overrides --timeframe)")
	exportCmd.Flags().StringVar(&exportColumns, "columns", "", "Comma separated column subset")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "Output directory")
}
