package level

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/tui-parkour/internal/core"
)

// ObstacleType identifies what an obstacle is and how entities treat it.
type ObstacleType string

const (
	Platform        ObstacleType = "platform"
	Gap             ObstacleType = "gap"
	Wall            ObstacleType = "wall"
	LowBarrier      ObstacleType = "lowBarrier"
	Vent            ObstacleType = "vent"
	MovingPlatform  ObstacleType = "movingPlatform"
	FallingPlatform ObstacleType = "fallingPlatform"
	Spring          ObstacleType = "spring"
	DashPad         ObstacleType = "dashPad"
	Spike           ObstacleType = "spike"
)

// Defaults for properties the generator leaves unset.
const (
	DefaultSpringForce = -600.0
	DefaultDashSpeed   = 400.0
)

// Properties is the sparse bag of type-specific obstacle fields.
// Zero values mean "not set".
type Properties struct {
	Climbable     *bool   `json:"climbable,omitempty"`
	MovementSpeed float64 `json:"movementSpeed,omitempty"` // px/s
	MovementRange float64 `json:"movementRange,omitempty"` // px
	FallDelay     float64 `json:"fallDelay,omitempty"`     // seconds
	SpringForce   float64 `json:"springForce,omitempty"`
	DashSpeed     float64 `json:"dashSpeed,omitempty"`
	Dangerous     bool    `json:"dangerous,omitempty"`
}

// Obstacle is a typed rectangle in world space. Only moving platforms
// change after generation, and only through Update.
type Obstacle struct {
	Type ObstacleType `json:"type"`
	core.Rect
	Props Properties `json:"properties"`

	motion *gween.Sequence
}

// NewObstacle creates an obstacle of the given type and bounds.
func NewObstacle(t ObstacleType, x, y, w, h float64) *Obstacle {
	return &Obstacle{Type: t, Rect: core.NewRect(x, y, w, h)}
}

// NewWall creates a wall; climbable walls can be grabbed by runners.
func NewWall(x, y, w, h float64, climbable bool) *Obstacle {
	o := NewObstacle(Wall, x, y, w, h)
	o.Props.Climbable = &climbable
	return o
}

// NewSpring creates a spring pad with the given vertical impulse.
func NewSpring(x, y, w, h, force float64) *Obstacle {
	o := NewObstacle(Spring, x, y, w, h)
	o.Props.SpringForce = force
	return o
}

// NewDashPad creates a dash pad with the given boost speed.
func NewDashPad(x, y, w, h, speed float64) *Obstacle {
	o := NewObstacle(DashPad, x, y, w, h)
	o.Props.DashSpeed = speed
	return o
}

// NewMovingPlatform creates a platform that travels between x and
// x+movementRange at speed px/s and back again.
func NewMovingPlatform(x, y, w, h, speed, movementRange float64) *Obstacle {
	o := NewObstacle(MovingPlatform, x, y, w, h)
	o.Props.MovementSpeed = speed
	o.Props.MovementRange = movementRange
	return o
}

// Bounds returns the obstacle rectangle.
func (o *Obstacle) Bounds() core.Rect {
	return o.Rect
}

// IsGround reports whether entities can land on the obstacle.
func (o *Obstacle) IsGround() bool {
	return o.Type == Platform || o.Type == MovingPlatform
}

// IsClimbable reports whether the obstacle is a wall that has not been
// marked as unclimbable.
func (o *Obstacle) IsClimbable() bool {
	return o.Type == Wall && (o.Props.Climbable == nil || *o.Props.Climbable)
}

// IsSpring reports whether the obstacle launches racers upward.
func (o *Obstacle) IsSpring() bool { return o.Type == Spring }

// IsDashPad reports whether the obstacle boosts racers forward.
func (o *Obstacle) IsDashPad() bool { return o.Type == DashPad }

// IsDangerous reports whether touching the obstacle hurts.
func (o *Obstacle) IsDangerous() bool {
	return o.Type == Spike || o.Props.Dangerous
}

// SpringForce returns the vertical impulse of a spring.
func (o *Obstacle) SpringForce() float64 {
	if o.Props.SpringForce == 0 {
		return DefaultSpringForce
	}
	return o.Props.SpringForce
}

// DashSpeed returns the horizontal boost of a dash pad.
func (o *Obstacle) DashSpeed() float64 {
	if o.Props.DashSpeed == 0 {
		return DefaultDashSpeed
	}
	return o.Props.DashSpeed
}

// Update advances a moving platform by dt seconds. Other obstacle types
// are static.
func (o *Obstacle) Update(dt float64) {
	if o.Type != MovingPlatform || o.Props.MovementSpeed <= 0 || o.Props.MovementRange <= 0 {
		return
	}
	if o.motion == nil {
		// Ping-pong between the starting x and the far end of the range.
		leg := float32(o.Props.MovementRange / o.Props.MovementSpeed)
		from, to := float32(o.X), float32(o.X+o.Props.MovementRange)
		o.motion = gween.NewSequence()
		o.motion.Add(
			gween.New(from, to, leg, ease.Linear),
			gween.New(to, from, leg, ease.Linear),
		)
		o.motion.SetLoop(-1)
	}
	x, _, _ := o.motion.Update(float32(dt))
	o.X = float64(x)
}
