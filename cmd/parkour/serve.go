package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/platform/tui"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the parkour SSH server",
	Long: `Start an SSH server that lets users connect and race.

Each SSH connection gets its own session with a level picker.
Progress is stored per server (all users share one profile and history).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.parkour/host_key

Examples:
  parkour serve                           # Listen on :23234 with auto-generated key
  parkour serve --ssh :2222               # Listen on port 2222
  parkour serve --host-key ./my_host_key  # Use specific host key
  parkour serve --db ./parkour.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	sshLog := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "parkour-ssh",
		Level:           logger.GetLevel(),
	})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		sshLog.Warn("could not open progress database, races will not be recorded", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Logger = sshLog
	cfg.Session = tui.SessionConfig{
		Settings:   settings,
		FPS:        runnerCfg.Render.TickRate,
		CellWidth:  runnerCfg.Render.CellWidth,
		CellHeight: runnerCfg.Render.CellHeight,
		Seed:       flagSeed,
	}

	server, err := tui.NewSSHServer(cfg, store)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting parkour SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx)
}
