package cmd

import (
	"github.com/spf13/cobra"

	"taskdeck/internal/config"
	"taskdeck/internal/store"
	"taskdeck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "taskdeck",
	Short:   "Task & reminder dashboard",
	Version: version.GetVersion(),
}

func Execute() error { return rootCmd.Execute() }

var dbPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (defaults to the user data dir)")

	// Add commands; other files define these vars
	rootCmd.AddCommand(reportCmd, tasksCmd, exportCmd, addCmd, startCmd, stopCmd, remindCmd, scheduleCmd, serveCmd)
}

func loadConfig() config.Config {
	cfg, _ := config.Load()
	return cfg
}

func openStore() (*store.Store, error) {
	return store.Open(dbPath)
}
