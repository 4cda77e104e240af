package level

import "github.com/vovakirdan/tui-parkour/internal/core"

// SegmentType names the composition of a course slice.
type SegmentType string

const (
	StraightRun    SegmentType = "straightRun"
	GapJump        SegmentType = "gapJump"
	WallClimb      SegmentType = "wallClimb"
	SlideSection   SegmentType = "slideSection"
	ComplexParkour SegmentType = "complexParkour"
)

// Segment is a contiguous horizontal slice of the course. Its rectangle is
// the ground platform; Obstacles are embedded features.
type Segment struct {
	Type SegmentType `json:"type"`
	core.Rect
	Obstacles []*Obstacle `json:"obstacles"`
}

// Platform returns the ground platform spanning the segment.
func (s Segment) Platform() *Obstacle {
	return NewObstacle(Platform, s.X, s.Y, s.W, s.H)
}
