// Package core provides fundamental types and utilities shared by the
// simulation packages. It contains no external dependencies (especially no
// Bubble Tea) to keep level, physics and AI logic pure and testable.
package core

import "math"

// Vec2 is a plain 2D coordinate or velocity in world pixels.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Rect represents an axis-aligned bounding box used for collision detection.
// Y grows downward, so Bottom is the larger coordinate.
type Rect struct {
	X float64 `json:"x"` // Top-left corner position
	Y float64 `json:"y"`
	W float64 `json:"width"` // Width and height, never negative
	H float64 `json:"height"`
}

// NewRect creates a new rectangle. Negative sizes are clamped to zero.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: math.Max(w, 0), H: math.Max(h, 0)}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Bottom() &&
		r.Bottom() > other.Y
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Overlap returns the penetration on each axis:
// min(r.right-o.left, o.right-r.left) and the vertical analogue.
// Values are only meaningful when the rectangles intersect.
func (r Rect) Overlap(o Rect) (x, y float64) {
	x = math.Min(r.Right()-o.X, o.Right()-r.X)
	y = math.Min(r.Bottom()-o.Y, o.Bottom()-r.Y)
	return x, y
}

// VerticallyOverlaps reports whether the two spans on the y axis share
// interior points.
func (r Rect) VerticallyOverlaps(o Rect) bool {
	return r.Y < o.Bottom() && r.Bottom() > o.Y
}

// HorizontalGap reports whether r lies within gap pixels of o horizontally
// (overlapping boxes satisfy it for any gap >= 0).
func (r Rect) HorizontalGap(o Rect, gap float64) bool {
	return r.Right() >= o.X-gap && r.X <= o.Right()+gap
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampInt restricts an integer value to be within [min, max].
func ClampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Lerp interpolates from a toward b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// SanitizeDelta turns a frame or tick duration (seconds) into a usable one:
// NaN and negative values become 0, values above max are capped.
func SanitizeDelta(dt, max float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > max {
		return max
	}
	return dt
}
