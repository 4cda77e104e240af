// Package ai decides what a bot should do next from the obstacles ahead
// of it. Decisions are windowed on distance: an action only fires when the
// bot is inside a narrow band in front of an obstacle.
package ai

import (
	"sort"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

// Action is a bot intention.
type Action string

const (
	Run   Action = "run"
	Jump  Action = "jump"
	Slide Action = "slide"
	Climb Action = "climb"
)

// Decision is an action with a confidence in [0, 1].
type Decision struct {
	Action     Action
	Confidence float64
}

// Idle is the decision a bot starts with before its first evaluation.
var Idle = Decision{Action: Run, Confidence: 1}

// Params tunes the decision engine.
type Params struct {
	Lookahead float64 // px ahead of the bot that are considered
	Interval  float64 // seconds between decisions
}

// DefaultParams returns the standard lookahead and cadence.
func DefaultParams() Params {
	return Params{Lookahead: 300, Interval: 0.1}
}

// Engine evaluates obstacles for bots. The random source only feeds the
// mistake roll.
type Engine struct {
	params Params
	rng    random.Source
}

// NewEngine creates a decision engine.
func NewEngine(p Params, rng random.Source) *Engine {
	return &Engine{params: p, rng: rng}
}

// Params returns the engine tuning.
func (e *Engine) Params() Params {
	return e.params
}

// Upcoming returns the obstacles strictly ahead of pos within the
// lookahead, nearest first. Ground platforms are terrain, not obstacles,
// and are skipped.
func (e *Engine) Upcoming(pos core.Vec2, obstacles []*level.Obstacle) []*level.Obstacle {
	var ahead []*level.Obstacle
	for _, o := range obstacles {
		if o.IsGround() {
			continue
		}
		if o.X > pos.X && o.X-pos.X < e.params.Lookahead {
			ahead = append(ahead, o)
		}
	}
	sort.SliceStable(ahead, func(i, j int) bool {
		return ahead[i].X < ahead[j].X
	})
	return ahead
}

// Decide picks the action for a bot at pos.
func (e *Engine) Decide(pos core.Vec2, obstacles []*level.Obstacle, p Personality) Decision {
	ahead := e.Upcoming(pos, obstacles)
	if len(ahead) == 0 {
		return Decision{Action: Run, Confidence: 1}
	}

	next := ahead[0]
	distance := next.X - pos.X

	if p.MistakeChance > 0 && e.rng.Float64() < p.MistakeChance {
		return Decision{Action: Run, Confidence: 0.3}
	}

	return Evaluate(next, distance, p)
}

// Evaluate applies the per-type timing window for an obstacle at distance.
// It is deterministic.
func Evaluate(o *level.Obstacle, distance float64, p Personality) Decision {
	switch o.Type {
	case level.Gap:
		return evaluateGap(distance, p)
	case level.Wall:
		return evaluateWall(o, distance)
	case level.LowBarrier:
		return windowed(distance, 60, Jump, 0.88)
	case level.Vent:
		return windowed(distance, 80, Slide, 0.88)
	default:
		return Decision{Action: Run, Confidence: 0.5}
	}
}

func evaluateGap(distance float64, p Personality) Decision {
	const optimal, window = 80.0, 20.0

	switch {
	case distance < optimal-window:
		return Decision{Action: Run, Confidence: 0.9}
	case distance <= optimal+window:
		if p.Type == Aggressive {
			return Decision{Action: Jump, Confidence: 0.95}
		}
		return Decision{Action: Jump, Confidence: 0.85}
	default:
		return Decision{Action: Run, Confidence: 0.7}
	}
}

// evaluateWall climbs tall walls once close and jumps short ones.
func evaluateWall(wall *level.Obstacle, distance float64) Decision {
	if wall.H > 100 {
		if distance < 30 {
			return Decision{Action: Climb, Confidence: 0.9}
		}
	} else if distance > 30 && distance < 60 {
		return Decision{Action: Jump, Confidence: 0.85}
	}
	return Decision{Action: Run, Confidence: 0.8}
}

// windowed fires action inside the open interval optimal±20.
func windowed(distance, optimal float64, action Action, confidence float64) Decision {
	if distance > optimal-20 && distance < optimal+20 {
		return Decision{Action: action, Confidence: confidence}
	}
	return Decision{Action: Run, Confidence: 0.75}
}
