package core

// Action represents a semantic control action, abstracted from physical key
// presses so the race can be driven by keyboard, SSH sessions or the AI.
type Action int

const (
	ActionNone    Action = iota
	ActionJump           // Space, W, Up - jump, or push off a wall while climbing
	ActionSlide          // S, Down - slide under vents
	ActionClimb          // C, E - grab an adjacent wall
	ActionPause          // P, Escape - pause/unpause the race
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B - go back to menu
	ActionRestart        // R - replay the same level after the race
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionSlide:
		return "Slide"
	case ActionClimb:
		return "Climb"
	case ActionPause:
		return "Pause"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputState is the resolved per-tick control triple consumed by the player.
// Raw device events never reach the simulation.
type InputState struct {
	Jump  bool
	Slide bool
	Climb bool
}

// Any reports whether any flag is set.
func (s InputState) Any() bool {
	return s.Jump || s.Slide || s.Climb
}

// InputSource is polled once per fixed tick for the player's controls.
type InputSource interface {
	Input() InputState
}

// InputFunc adapts a plain function to InputSource.
type InputFunc func() InputState

// Input implements InputSource.
func (f InputFunc) Input() InputState {
	return f()
}

// NoInput is an InputSource that never presses anything.
var NoInput InputSource = InputFunc(func() InputState { return InputState{} })
