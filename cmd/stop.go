package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/notify"
	"taskdeck/internal/store"
)

var stopCmd = &cobra.Command{
	Use:   "stop [task-id]",
	Short: "Stop a task's running timer",
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

		minutes, err := st.StopTimer(cmd.Context(), taskID, time.Now())
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Timer on %s stopped: %d minutes", shortID(taskID), minutes)
		fmt.Println(msg)
		_ = notify.Done(msg)
		return nil
	},
}

// resolveTaskID accepts a full task id or an unambiguous prefix.
func resolveTaskID(cmd *cobra.Command, st *store.Store, arg string) (string, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tasks, _, err := st.QueryTasks(ctx, store.Query{Limit: 1000})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matches %q", arg)
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}
