package entity

import (
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
)

// PlayerName labels the human racer in standings.
const PlayerName = "YOU"

// Player is the human-controlled racer.
type Player struct {
	Entity
}

// NewPlayer creates a player at start wearing look.
func NewPlayer(start core.Vec2, m Movement, look core.Appearance) *Player {
	return &Player{Entity: newEntity(start, m, look)}
}

// Update advances the player one tick using the polled input.
func (p *Player) Update(dt float64, obstacles []*level.Obstacle, in core.InputState) {
	p.step(dt, obstacles, in, 1)
}
