package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-parkour/internal/core"
)

// DefaultHoldWindow is how long a key press counts as held. Terminals only
// report presses and auto-repeat, so a key is considered down until this
// long after its last repeat.
const DefaultHoldWindow = 150 * time.Millisecond

// RaceKeyMap defines the key bindings used during a race.
type RaceKeyMap struct {
	Jump    key.Binding
	Slide   key.Binding
	Climb   key.Binding
	Pause   key.Binding
	Back    key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RaceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Slide, k.Climb, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RaceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Slide, k.Climb},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultRaceKeyMap returns default race bindings.
func DefaultRaceKeyMap() RaceKeyMap {
	return RaceKeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space/w", "jump"),
		),
		Slide: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("down/s", "slide"),
		),
		Climb: key.NewBinding(
			key.WithKeys("c", "e", "shift+up"),
			key.WithHelp("c/e", "climb"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "levels"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "race again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action maps a key message to a semantic action.
func (k RaceKeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Slide):
		return core.ActionSlide
	case key.Matches(msg, k.Climb):
		return core.ActionClimb
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Back):
		return core.ActionBack
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	return core.ActionNone
}

// HeldKeys turns discrete key presses into the per-tick control triple.
// It implements core.InputSource and is polled by the race engine.
type HeldKeys struct {
	window time.Duration
	now    func() time.Time
	jump   time.Time
	slide  time.Time
	climb  time.Time
}

// NewHeldKeys creates a tracker with the given hold window. A nil clock
// uses time.Now.
func NewHeldKeys(window time.Duration, now func() time.Time) *HeldKeys {
	if now == nil {
		now = time.Now
	}
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HeldKeys{window: window, now: now}
}

// Press records a press of a control action. Other actions are ignored.
func (h *HeldKeys) Press(a core.Action) {
	t := h.now()
	switch a {
	case core.ActionJump:
		h.jump = t
	case core.ActionSlide:
		h.slide = t
	case core.ActionClimb:
		h.climb = t
	}
}

// Release forgets every held key.
func (h *HeldKeys) Release() {
	h.jump, h.slide, h.climb = time.Time{}, time.Time{}, time.Time{}
}

// Input implements core.InputSource.
func (h *HeldKeys) Input() core.InputState {
	t := h.now()
	return core.InputState{
		Jump:  h.held(h.jump, t),
		Slide: h.held(h.slide, t),
		Climb: h.held(h.climb, t),
	}
}

func (h *HeldKeys) held(pressed, now time.Time) bool {
	return !pressed.IsZero() && now.Sub(pressed) < h.window
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionResults
	MenuActionBuy
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionResults
	case "u":
		return MenuActionBuy
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
