package physics

import "github.com/vovakirdan/tui-parkour/internal/core"

// Intersects reports whether two boxes overlap. Touching edges do not count.
func Intersects(a, b core.Rect) bool {
	return a.Intersects(b)
}

// Depth returns the penetration of a into b on each axis.
func Depth(a, b core.Rect) core.Vec2 {
	x, y := a.Overlap(b)
	return core.V(x, y)
}

// Normal returns the unit direction in which a must move to leave b, along
// the axis of smaller penetration. Equal penetration resolves vertically.
// It returns the zero vector when the boxes do not overlap.
func Normal(a, b core.Rect) core.Vec2 {
	if !a.Intersects(b) {
		return core.Vec2{}
	}
	left := a.Right() - b.X  // push a left by this much
	right := b.Right() - a.X // push a right by this much
	up := a.Bottom() - b.Y
	down := b.Bottom() - a.Y

	if min(left, right) < min(up, down) {
		if left <= right {
			return core.V(-1, 0)
		}
		return core.V(1, 0)
	}
	if up <= down {
		return core.V(0, -1)
	}
	return core.V(0, 1)
}
