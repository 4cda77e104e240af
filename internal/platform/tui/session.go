package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

type sessionScreen int

const (
	screenPicker sessionScreen = iota
	screenRace
	screenResults
)

// SessionConfig carries what a session needs to start races.
type SessionConfig struct {
	Settings   race.Settings
	FPS        int
	CellWidth  float64
	CellHeight float64
	Width      int
	Height     int
	Seed       int64
}

// SessionModel manages the full session flow: picker -> race -> picker,
// with the results board one key away. It is the top-level model for SSH
// sessions and for `parkour play` without a level.
type SessionModel struct {
	store    *storage.Store
	config   SessionConfig
	logger   *log.Logger
	username string
	screen   sessionScreen
	picker   PickerModel
	race     *RaceModel
	results  ResultsModel
	quitting bool
	err      error
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg SessionConfig, logger *log.Logger, username string) SessionModel {
	if logger != nil && username != "" {
		logger = logger.With("user", username)
	}
	return SessionModel{
		store:    store,
		config:   cfg,
		logger:   logger,
		username: username,
		picker:   NewPickerModel(store, cfg.Width, cfg.Height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.Width = wsm.Width
		m.config.Height = wsm.Height
	}

	switch m.screen {
	case screenRace:
		return m.updateRace(msg)
	case screenResults:
		return m.updateResults(msg)
	default:
		return m.updatePicker(msg)
	}
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.picker.Update(msg)
	if pm, ok := next.(PickerModel); ok {
		m.picker = pm
	}

	res := m.picker.Result()
	switch {
	case m.picker.WantsResults():
		m.screen = screenResults
		m.results = NewResultsModel(m.store, m.config.Width, m.config.Height)
		return m, m.results.Init()

	case m.picker.Selected() != nil:
		rm, err := NewRaceModel(RaceOptions{
			Level:      res.Level,
			Outfit:     res.Outfit,
			Settings:   m.config.Settings,
			FPS:        m.config.FPS,
			CellWidth:  m.config.CellWidth,
			CellHeight: m.config.CellHeight,
			Width:      m.config.Width,
			Height:     m.config.Height,
			Seed:       m.config.Seed,
			Store:      m.store,
			Logger:     m.logger,
		})
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		m.race = rm
		m.screen = screenRace
		return m, m.race.Init()

	case m.picker.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateRace(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.race.Update(msg)

	switch {
	case m.race.BackToMenu():
		m.backToPicker()
		return m, m.picker.Init()
	case m.race.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.race.Err() != nil:
		m.err = m.race.Err()
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.results.Update(msg)
	if rm, ok := next.(ResultsModel); ok {
		m.results = rm
	}

	switch {
	case m.results.IsGoingBack():
		m.backToPicker()
		return m, m.picker.Init()
	case m.results.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// backToPicker reloads the picker so fresh progress and coins show up.
func (m *SessionModel) backToPicker() {
	m.race = nil
	m.screen = screenPicker
	m.picker = NewPickerModel(m.store, m.config.Width, m.config.Height)
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenRace:
		return m.race.View()
	case screenResults:
		return m.results.View()
	default:
		return m.picker.View()
	}
}

// Err returns the error that ended the session, if any.
func (m SessionModel) Err() error { return m.err }

// RunSession runs a full local session.
func RunSession(store *storage.Store, cfg SessionConfig, logger *log.Logger) error {
	p := tea.NewProgram(NewSessionModel(store, cfg, logger, ""), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(SessionModel); ok {
		return m.Err()
	}
	return nil
}
