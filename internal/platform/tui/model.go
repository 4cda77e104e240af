package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/random"
	"github.com/vovakirdan/tui-parkour/internal/registry"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

// RaceOptions configures a terminal race.
type RaceOptions struct {
	Level      int
	Outfit     string
	Settings   race.Settings
	FPS        int
	CellWidth  float64
	CellHeight float64
	Width      int
	Height     int
	Seed       int64          // bot noise seed; 0 seeds from the clock
	Store      *storage.Store // nil disables persistence
	Logger     *log.Logger
}

// RaceModel is the Bubble Tea model for one race. Each frame message feeds
// wall time to the engine, which renders into the model's screen buffer.
type RaceModel struct {
	opts     RaceOptions
	engine   *race.Engine
	screen   *core.Screen
	view     *RaceView
	keys     RaceKeyMap
	help     help.Model
	held     *HeldKeys
	result   *race.Result
	err      error
	quitting bool
	back     bool
	recorded bool
}

// NewRaceModel creates a race model. It fails when the engine cannot be
// built.
func NewRaceModel(opts RaceOptions) (*RaceModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}

	m := &RaceModel{
		opts:   opts,
		screen: core.NewScreen(opts.Width, opts.Height-1),
		keys:   DefaultRaceKeyMap(),
		help:   help.New(),
		held:   NewHeldKeys(DefaultHoldWindow, nil),
	}
	m.view = NewRaceView(m.screen, opts.CellWidth, opts.CellHeight)
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// reset builds a fresh engine for the configured level.
func (m *RaceModel) reset() error {
	if m.engine != nil {
		m.engine.Destroy()
	}
	settings := m.opts.Settings
	var rng random.Source
	if m.opts.Seed != 0 {
		rng = random.NewSource(m.opts.Seed)
	}
	engine, err := race.New(race.Options{
		Renderer:   m.view,
		Level:      m.opts.Level,
		Appearance: registry.Appearance(m.opts.Outfit),
		Input:      m.held,
		Settings:   &settings,
		Rand:       rng,
		Logger:     m.opts.Logger,
		Callbacks: race.Callbacks{
			OnRaceComplete: func(r race.Result) { m.result = &r },
		},
	})
	if err != nil {
		return err
	}
	m.engine = engine
	m.result = nil
	m.recorded = false
	m.held.Release()
	return nil
}

// Init starts the frame loop.
func (m *RaceModel) Init() tea.Cmd {
	m.engine.Start(time.Now())
	return frameCmd(m.opts.FPS)
}

// Update handles messages and updates the model state.
func (m *RaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width, m.opts.Height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}
	return m, nil
}

func (m *RaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	phase := m.engine.Phase()

	switch action {
	case core.ActionQuit:
		m.quitting = true
		m.engine.Destroy()
		return m, tea.Quit

	case core.ActionJump, core.ActionSlide, core.ActionClimb:
		m.held.Press(action)

	case core.ActionPause:
		m.engine.TogglePause(time.Now())
		m.held.Release()

	case core.ActionBack:
		if phase == race.Paused || phase == race.Finished {
			m.back = true
			m.engine.Destroy()
			return m, tea.Quit
		}

	case core.ActionRestart:
		if phase == race.Finished {
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			return m, m.Init()
		}
	}
	return m, nil
}

// handleFrame runs one engine frame. The loop stops at the finish; the
// last frame, with the results overlay, stays on screen.
func (m *RaceModel) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.engine.Destroyed() {
		return m, nil
	}
	if !m.engine.Frame(now) {
		m.record()
		return m, nil
	}
	return m, frameCmd(m.opts.FPS)
}

// record stores the result once. Storage failures are logged and do not
// interrupt the session.
func (m *RaceModel) record() {
	if m.recorded || m.result == nil {
		return
	}
	m.recorded = true
	if m.opts.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := m.opts.Store.RecordRace(ctx, *m.result); err != nil {
		m.opts.Logger.Warn("could not save race result", "error", err)
	}
}

// View renders the current frame.
func (m *RaceModel) View() string {
	if m.quitting || m.back {
		return ""
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Result returns the race result once the race has finished.
func (m *RaceModel) Result() (race.Result, bool) {
	if m.result == nil {
		return race.Result{}, false
	}
	return *m.result, true
}

// Err returns the error that ended the model, if any.
func (m *RaceModel) Err() error { return m.err }

// IsQuitting returns true if user requested to quit entirely.
func (m *RaceModel) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to the level picker.
func (m *RaceModel) BackToMenu() bool { return m.back }

// RunRace runs a single race in the terminal.
func RunRace(opts RaceOptions) (*RaceModel, error) {
	model, err := NewRaceModel(opts)
	if err != nil {
		return nil, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return model, err
	}
	return model, model.Err()
}
