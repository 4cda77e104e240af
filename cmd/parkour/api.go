package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/api"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

var (
	flagAPIAddr  string
	flagMaxRuns  int
	flagWatchFPS int
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Serve levels and headless races over HTTP.

Routes:
  GET  /health
  GET  /levels/{n}            generated level as JSON
  POST /levels/{n}/simulate   {"runs": 5, "seed": 42, "bots": 3}
  GET  /levels/{n}/watch      websocket stream of a live autopilot race
  GET  /profile               coins and unlocks
  GET  /results?level=n       recorded races

Examples:
  parkour api
  parkour api --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address")
	apiCmd.Flags().IntVar(&flagMaxRuns, "max-runs", 50, "Most races one simulate request may run")
	apiCmd.Flags().IntVar(&flagWatchFPS, "watch-fps", 20, "Frames per second streamed by /watch")
}

func runAPI(_ *cobra.Command, _ []string) error {
	apiLog := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "parkour-api",
		Level:           logger.GetLevel(),
	})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		apiLog.Warn("could not open progress database, /profile and /results are disabled", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	srv := &http.Server{
		Addr: flagAPIAddr,
		Handler: api.NewServer(api.Config{
			Settings: settings,
			Store:    store,
			Logger:   apiLog,
			MaxRuns:  flagMaxRuns,
			WatchFPS: flagWatchFPS,
		}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		apiLog.Info("starting HTTP API", "address", flagAPIAddr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	apiLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
