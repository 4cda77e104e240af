package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-parkour/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string        // host:port, e.g. ":23234"
	HostKeyPath string        // generated on first start; empty means ~/.parkour/host_key
	IdleTimeout time.Duration // disconnect sessions idle this long
	Session     SessionConfig // races started by each session; size comes from the PTY
	Logger      *log.Logger   // nil discards
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer hosts one race session per SSH connection. All sessions share
// the store, so every user sees the same profile and history.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	log    *log.Logger
	active atomic.Int64
}

// NewSSHServer creates the server. store may be nil, in which case races
// are not recorded.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{config: cfg, store: store, log: cfg.Logger}

	// Middlewares run last to first: log, require a PTY, then the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.sessionModel),
			activeterm.Middleware(),
			s.trackSessions,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	s.server = server
	return s, nil
}

// hostKeyPath resolves the key location and makes sure its directory
// exists.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".parkour", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// sessionModel builds the picker/race session sized to the client's PTY.
func (s *SSHServer) sessionModel(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	cfg := s.config.Session
	cfg.Width = pty.Window.Width
	cfg.Height = pty.Window.Height

	return NewSessionModel(s.store, cfg, s.log, sess.User()), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.log.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"active", s.active.Add(1),
		)
		next(sess)
		s.log.Info("session ended",
			"user", sess.User(),
			"duration", time.Since(start).Round(time.Second),
			"active", s.active.Add(-1),
		)
	}
}

// Serve accepts connections until ctx is done, then shuts down and waits
// up to ten seconds for open sessions.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.log.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down...", "active", s.active.Load())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// ActiveSessions reports how many SSH sessions are connected.
func (s *SSHServer) ActiveSessions() int64 { return s.active.Load() }

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string { return s.config.Address }
