package physics

import "github.com/vovakirdan/tui-parkour/internal/core"

// Body is the physical state shared by every racer: top-left position,
// velocity in px/s, size in px and whether it stands on ground.
type Body struct {
	Position core.Vec2
	Velocity core.Vec2
	Size     core.Vec2
	Grounded bool

	lastFinite core.Vec2
}

// NewBody creates a body at position with the given size.
func NewBody(position, size core.Vec2) Body {
	return Body{Position: position, Size: size, lastFinite: position}
}

// Bounds returns the body's bounding box.
func (b *Body) Bounds() core.Rect {
	return core.NewRect(b.Position.X, b.Position.Y, b.Size.X, b.Size.Y)
}

// Bottom returns the y of the body's feet.
func (b *Body) Bottom() float64 {
	return b.Position.Y + b.Size.Y
}

// Integrate moves the body by velocity*dt. A non-finite result puts the
// body back at its last finite position and stops it.
func (b *Body) Integrate(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Sanitize()
}

// Sanitize restores the last finite position if the body drifted into
// NaN or infinity, and records the current one otherwise.
func (b *Body) Sanitize() {
	if b.Position.IsFinite() && b.Velocity.IsFinite() {
		b.lastFinite = b.Position
		return
	}
	b.Position = b.lastFinite
	b.Velocity = core.Vec2{}
}
