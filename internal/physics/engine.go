// Package physics implements gravity, ground contact and AABB push-out for
// racers moving through a level.
package physics

import (
	"math"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
)

// Engine holds the world constants. It is stateless between calls.
type Engine struct {
	Gravity          float64 // px/s^2, positive is down
	TerminalVelocity float64 // max downward speed from gravity
}

// NewEngine creates an engine with the given gravity and fall cap.
func NewEngine(gravity, terminal float64) *Engine {
	return &Engine{Gravity: gravity, TerminalVelocity: terminal}
}

// DefaultEngine returns an engine with standard world constants.
func DefaultEngine() *Engine {
	return NewEngine(980, 600)
}

// ApplyGravity accelerates an airborne body downward. Gravity never pushes
// the speed past the terminal velocity, but a body already falling faster
// (for example after an external impulse) keeps its speed.
func (e *Engine) ApplyGravity(b *Body, dt float64) {
	if b.Grounded {
		return
	}
	vy := b.Velocity.Y
	next := vy + e.Gravity*dt
	if next > e.TerminalVelocity {
		next = math.Max(e.TerminalVelocity, vy)
	}
	b.Velocity.Y = next
}

// CheckGroundCollision lands the body on a ground obstacle when it is
// moving down, overlaps the platform horizontally and has its feet inside
// the platform's vertical span. When several platforms qualify the highest
// top wins. It updates and returns the grounded flag.
func (e *Engine) CheckGroundCollision(b *Body, obstacles []*level.Obstacle) bool {
	if b.Velocity.Y < 0 {
		b.Grounded = false
		return false
	}

	bounds := b.Bounds()
	bottom := bounds.Bottom()
	found := false
	top := math.Inf(1)

	for _, o := range obstacles {
		if !o.IsGround() {
			continue
		}
		if bounds.X >= o.Right() || bounds.Right() <= o.X {
			continue
		}
		if bottom < o.Y || bottom > o.Bottom() {
			continue
		}
		if o.Y < top {
			top = o.Y
			found = true
		}
	}

	if found {
		b.Position.Y = top - b.Size.Y
		b.Velocity.Y = 0
	}
	b.Grounded = found
	return found
}

// ResolveCollision pushes the body out of solid along the axis of smaller
// penetration and zeroes the velocity on that axis. Landing on top marks
// the body grounded. It reports whether the boxes overlapped.
func (e *Engine) ResolveCollision(b *Body, solid core.Rect) bool {
	bounds := b.Bounds()
	n := Normal(bounds, solid)
	if n == (core.Vec2{}) {
		return false
	}

	switch {
	case n.X < 0:
		b.Position.X = solid.X - b.Size.X
		b.Velocity.X = 0
	case n.X > 0:
		b.Position.X = solid.Right()
		b.Velocity.X = 0
	case n.Y < 0:
		b.Position.Y = solid.Y - b.Size.Y
		b.Velocity.Y = 0
		b.Grounded = true
	default:
		b.Position.Y = solid.Bottom()
		b.Velocity.Y = 0
	}
	return true
}

// Step applies gravity then ground contact, the per-tick pass every racer
// goes through after its own update.
func (e *Engine) Step(b *Body, obstacles []*level.Obstacle, dt float64) {
	e.ApplyGravity(b, dt)
	e.CheckGroundCollision(b, obstacles)
}
