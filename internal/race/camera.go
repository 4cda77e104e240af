package race

import (
	"github.com/vovakirdan/tui-parkour/internal/core"
)

// Camera follows the player through the course in world coordinates.
type Camera struct {
	Position    core.Vec2
	Viewport    core.Vec2
	LevelLength float64
	Smoothing   float64 // share of the distance to the target covered per tick
	Margin      float64 // extra world px considered visible around the viewport
}

// NewCamera creates a camera at the course start.
func NewCamera(viewport core.Vec2, levelLength, smoothing, margin float64) *Camera {
	return &Camera{Viewport: viewport, LevelLength: levelLength, Smoothing: smoothing, Margin: margin}
}

// Follow eases toward keeping target a third in from the left edge and
// vertically centered, clamped to the course.
func (c *Camera) Follow(target core.Vec2) {
	goalX := target.X - c.Viewport.X/3
	goalY := target.Y - c.Viewport.Y/2

	c.Position.X = core.Lerp(c.Position.X, goalX, c.Smoothing)
	c.Position.Y = core.Lerp(c.Position.Y, goalY, c.Smoothing)

	c.Position.X = core.Clamp(c.Position.X, 0, max(c.LevelLength-c.Viewport.X, 0))
	c.Position.Y = core.Clamp(c.Position.Y, -200, 200)
}

// WorldToScreen converts a world point to viewport coordinates.
func (c *Camera) WorldToScreen(p core.Vec2) core.Vec2 {
	return p.Sub(c.Position)
}

// ScreenToWorld converts a viewport point to world coordinates.
func (c *Camera) ScreenToWorld(p core.Vec2) core.Vec2 {
	return p.Add(c.Position)
}

// IsVisible reports whether r touches the viewport grown by the margin.
func (c *Camera) IsVisible(r core.Rect) bool {
	view := core.NewRect(
		c.Position.X-c.Margin,
		c.Position.Y-c.Margin,
		c.Viewport.X+2*c.Margin,
		c.Viewport.Y+2*c.Margin,
	)
	return r.Intersects(view)
}
