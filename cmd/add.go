package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

var (
	addDescription string
	addStatus      string
	addPriority    string
	addEstimate    int
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		task, err := st.CreateTask(cmd.Context(), store.TaskInput{
			Title:            strings.Join(args, " "),
			Description:      addDescription,
			Status:           model.ParseStatus(addStatus),
			Priority:         model.ParsePriority(addPriority),
			EstimatedMinutes: addEstimate,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added task %s: %s\n", shortID(task.ID), task.Title)
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addStatus, "status", "s", "pending", "Status: pending, to-do, in-progress, done")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "normal", "Priority: high, normal, low")
	addCmd.Flags().IntVar(&addEstimate, "estimate", 0, "Estimated minutes")
}
