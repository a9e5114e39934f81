package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskdeck/internal/render"
	"taskdeck/internal/report"
)

var scheduleNoColor bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show reminders bucketed by hour of day",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		times, err := st.ReminderTimes(cmd.Context())
		if err != nil {
			return err
		}
		if len(times) == 0 {
			fmt.Println("No reminders scheduled")
			return nil
		}

		hist := report.HourlyHistogram(times, cfg.Location())

		renderCfg := render.DefaultConfig()
		renderCfg.Location = cfg.Location()
		if scheduleNoColor {
			renderCfg.Color = false
		}
		fmt.Print(render.New(renderCfg).Histogram(hist))
		return nil
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleNoColor, "no-color", false, "Disable colored output")
}
