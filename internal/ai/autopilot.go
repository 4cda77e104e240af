package ai

import (
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
)

// Autopilot drives a player body from the decision engine so a race can
// run without a human. It never makes mistakes and re-decides every tick.
type Autopilot struct {
	engine   *Engine
	position func() core.Vec2
	level    *level.Level
	decision Decision
}

// NewAutopilot creates an autopilot. position reports the player's
// current top-left corner.
func NewAutopilot(engine *Engine, lvl *level.Level, position func() core.Vec2) *Autopilot {
	return &Autopilot{engine: engine, level: lvl, position: position, decision: Idle}
}

// Input implements core.InputSource. It is polled once per tick.
func (a *Autopilot) Input() core.InputState {
	a.decision = a.engine.Decide(a.position(), a.level.Obstacles, Personality{Type: Balanced})

	switch a.decision.Action {
	case Jump:
		return core.InputState{Jump: true}
	case Slide:
		return core.InputState{Slide: true}
	case Climb:
		return core.InputState{Climb: true}
	default:
		return core.InputState{}
	}
}

// Decision returns the last decision taken.
func (a *Autopilot) Decision() Decision {
	return a.decision
}
