package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var remindAt string

var remindCmd = &cobra.Command{
	Use:   "remind [task-id] [message]",
	Short: "Schedule a reminder for a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		loc := cfg.Location()

		at, err := parseRemindAt(remindAt, loc)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		taskID, err := resolveTaskID(cmd, st, args[0])
		if err != nil {
			return err
		}

		message := strings.Join(args[1:], " ")
		reminder, err := st.AddReminder(cmd.Context(), taskID, message, at)
		if err != nil {
			return err
		}
		fmt.Printf("Reminder #%d set for %s\n", reminder.ID, at.In(loc).Format("2006-01-02 15:04"))
		return nil
	},
}

func parseRemindAt(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("--at is required")
	}

	// Bare time means today.
	if t, err := time.ParseInLocation("15:04", input, loc); err == nil {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse --at %q (want 15:04 or 2006-01-02 15:04)", input)
}

func init() {
	remindCmd.Flags().StringVar(&remindAt, "at", "", "When to remind: 15:04 (today) or 2006-01-02 15:04")
	_ = remindCmd.MarkFlagRequired("at")
}
