// Package entity models the racers. Player and Bot share one state machine
// and differ only in where their per-tick control signal comes from.
package entity

import (
	"math"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/physics"
)

// State is the racer's movement mode. Exactly one is active at a time.
type State string

const (
	Running  State = "running"
	Jumping  State = "jumping"
	Climbing State = "climbing"
	Sliding  State = "sliding"
	Falling  State = "falling"
)

const (
	climbReach    = 10.0 // px a wall may be away and still be grabbed
	adjacentReach = 20.0 // px a wall may be away to count as nearby
	pushOffFactor = 0.8  // jump force share when leaping off a wall
)

// Movement holds the fixed movement constants of a racer.
type Movement struct {
	RunSpeed    float64 // px/s
	JumpForce   float64 // initial vertical velocity, negative is up
	ClimbSpeed  float64 // px/s upward
	SlideSpeed  float64 // px/s
	Width       float64
	Height      float64
	SlideHeight float64
}

// DefaultMovement returns the standard racer constants.
func DefaultMovement() Movement {
	return Movement{
		RunSpeed:    200,
		JumpForce:   -400,
		ClimbSpeed:  150,
		SlideSpeed:  250,
		Width:       20,
		Height:      40,
		SlideHeight: 20,
	}
}

// Entity is the state shared by every racer.
type Entity struct {
	physics.Body
	State    State
	Distance float64 // total horizontal distance covered
	Move     Movement
	Look     core.Appearance

	// Lookups recomputed every tick, never owned.
	nearbyWall *level.Obstacle
	climbing   *level.Obstacle
	cleared    *level.Obstacle // last wall topped; not grabbed again until out of reach
}

func newEntity(start core.Vec2, m Movement, look core.Appearance) Entity {
	return Entity{
		Body:  physics.NewBody(start, core.V(m.Width, m.Height)),
		State: Running,
		Move:  m,
		Look:  look,
	}
}

// CanJump reports whether a jump may start: on the ground or on a wall.
func (e *Entity) CanJump() bool {
	return e.Grounded || e.State == Climbing
}

// CanClimb reports whether wall is climbable and within reach. A wall the
// racer has just topped cannot be grabbed again.
func (e *Entity) CanClimb(wall *level.Obstacle) bool {
	if wall == nil || !wall.IsClimbable() || wall == e.cleared {
		return false
	}
	b := e.Bounds()
	return b.HorizontalGap(wall.Rect, climbReach) && b.VerticallyOverlaps(wall.Rect)
}

// CanSlide reports whether a slide may start.
func (e *Entity) CanSlide() bool {
	return e.Grounded && e.State != Sliding
}

// IsAdjacentTo reports whether o is within 20px horizontally and shares
// vertical extent with the racer.
func (e *Entity) IsAdjacentTo(o *level.Obstacle) bool {
	b := e.Bounds()
	return b.HorizontalGap(o.Rect, adjacentReach) && b.VerticallyOverlaps(o.Rect)
}

// NearbyWall returns the wall found during the current tick, if any.
func (e *Entity) NearbyWall() *level.Obstacle {
	return e.nearbyWall
}

// Progress returns how far along the course the racer is, in percent.
func (e *Entity) Progress(levelLength float64) float64 {
	if levelLength <= 0 {
		return 100
	}
	return math.Min(e.Position.X/levelLength*100, 100)
}

// step runs one tick of the shared state machine for the given control
// signal. jumpScale multiplies jump impulses.
func (e *Entity) step(dt float64, obstacles []*level.Obstacle, ctl core.InputState, jumpScale float64) {
	e.updateNearbyWall(obstacles)
	e.control(ctl, jumpScale)
	e.updateState()
	e.Integrate(dt)
	e.Distance += math.Abs(e.Velocity.X * dt)
}

func (e *Entity) updateNearbyWall(obstacles []*level.Obstacle) {
	if e.cleared != nil && !e.IsAdjacentTo(e.cleared) {
		e.cleared = nil
	}
	e.nearbyWall = nil
	for _, o := range obstacles {
		if o.Type == level.Wall && e.IsAdjacentTo(o) {
			e.nearbyWall = o
			return
		}
	}
}

func (e *Entity) control(ctl core.InputState, jumpScale float64) {
	switch e.State {
	case Sliding:
		if ctl.Slide {
			e.Velocity.X = e.Move.SlideSpeed
			return
		}
		// Standing up takes the whole tick; sliding only exits to running.
		e.stand()
		e.State = Running
		e.Velocity.X = e.Move.RunSpeed
		return

	case Climbing:
		if ctl.Jump {
			e.Velocity = core.V(e.Move.RunSpeed, e.Move.JumpForce*pushOffFactor*jumpScale)
			e.State = Jumping
			e.Grounded = false
			e.climbing = nil
			return
		}
		e.Velocity = core.V(0, -e.Move.ClimbSpeed)
		return
	}

	switch {
	case ctl.Slide && e.CanSlide():
		e.startSlide()
		return
	case ctl.Climb && e.CanClimb(e.nearbyWall):
		e.startClimbing(e.nearbyWall)
		return
	case ctl.Jump && e.CanJump():
		e.Velocity.Y = e.Move.JumpForce * jumpScale
		e.State = Jumping
		e.Grounded = false
	}
	e.Velocity.X = e.Move.RunSpeed
}

// startSlide shrinks the racer keeping its feet in place.
func (e *Entity) startSlide() {
	e.State = Sliding
	e.Position.Y += e.Size.Y - e.Move.SlideHeight
	e.Size.Y = e.Move.SlideHeight
	e.Velocity.X = e.Move.SlideSpeed
}

func (e *Entity) stand() {
	e.Position.Y -= e.Move.Height - e.Size.Y
	e.Size.Y = e.Move.Height
}

// startClimbing grabs wall and snaps to the edge the racer came from.
func (e *Entity) startClimbing(wall *level.Obstacle) {
	e.State = Climbing
	e.climbing = wall
	e.Velocity = core.Vec2{}
	if e.Position.X < wall.X {
		e.Position.X = wall.X - e.Size.X
	} else {
		e.Position.X = wall.Right()
	}
}

func (e *Entity) updateState() {
	switch e.State {
	case Climbing:
		// Done once the head clears the wall top.
		if e.climbing == nil || e.Position.Y < e.climbing.Y {
			e.State = Running
			e.Velocity.X = e.Move.RunSpeed
			e.cleared = e.climbing
			e.climbing = nil
		}
	case Sliding:
	default:
		switch {
		case !e.Grounded && e.Velocity.Y > 0:
			e.State = Falling
		case !e.Grounded && e.Velocity.Y < 0:
			e.State = Jumping
		case e.Grounded:
			e.State = Running
		}
	}
}
