package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start a timer on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		taskID, err := resolveTaskID(cmd, st, args[0])
		if err != nil {
			return err
		}

		if err := st.StartTimer(cmd.Context(), taskID, time.Now()); err != nil {
			return err
		}
		fmt.Printf("Timer started on %s at %s\n", shortID(taskID), time.Now().Format(time.Kitchen))
		return nil
	},
}
