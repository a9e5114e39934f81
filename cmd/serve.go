package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"taskdeck/internal/api"
	"taskdeck/internal/logging"
	"taskdeck/internal/schedule"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg := loadConfig()
		if v := os.Getenv("TASKDECK_ADDR"); v != "" {
			cfg.Server.Addr = v
		}
		if v := os.Getenv("TASKDECK_AUTH_TOKEN"); v != "" {
			cfg.Server.AuthToken = v
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		logger := logging.New(cfg.Server.LogLevel)

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var dispatcher *schedule.Dispatcher
		if cfg.Reminder.Enabled {
			dispatcher = schedule.NewDispatcher(st, logger, cfg.Location(), nil)
			if err := dispatcher.Start(ctx); err != nil {
				return err
			}
			logger.Info("reminder dispatcher started")
		}

		srv := api.NewServer(api.Options{
			Addr:      cfg.Server.Addr,
			AuthToken: cfg.Server.AuthToken,
			Location:  cfg.Location(),
			DayKeyLoc: cfg.DayKeyLocation(),
			PageSize:  cfg.PageSize,
		}, st, logger)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "err", err)
		}
		if dispatcher != nil {
			select {
			case <-dispatcher.Stop().Done():
			case <-shutdownCtx.Done():
			}
		}
		logger.Info("goodbye")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config and TASKDECK_ADDR)")
}
