package level

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/vovakirdan/tui-parkour/internal/core"
)

// Level is a generated course. Obstacles is the flattened list: one
// platform per segment followed by that segment's obstacles, in segment
// order. The race reads it for its whole lifetime.
type Level struct {
	Number        int         `json:"levelNumber"`
	Seed          int64       `json:"seed"`
	Length        float64     `json:"length"`
	Difficulty    float64     `json:"difficulty"`
	Segments      []Segment   `json:"segments"`
	Obstacles     []*Obstacle `json:"obstacles"`
	StartPosition core.Vec2   `json:"startPosition"`
	FinishLine    core.Vec2   `json:"finishLine"`
}

// Update advances moving obstacles. It must run between ticks, never while
// entities are reading the obstacle list.
func (l *Level) Update(dt float64) {
	for _, o := range l.Obstacles {
		o.Update(dt)
	}
}

// Width returns the right edge of the last segment.
func (l *Level) Width() float64 {
	if len(l.Segments) == 0 {
		return 0
	}
	return l.Segments[len(l.Segments)-1].Right()
}

// Counts returns how many obstacles of each type the level holds.
func (l *Level) Counts() map[ObstacleType]int {
	counts := make(map[ObstacleType]int)
	for _, o := range l.Obstacles {
		counts[o.Type]++
	}
	return counts
}

// Between returns obstacles whose horizontal extent touches [minX, maxX].
func (l *Level) Between(minX, maxX float64) []*Obstacle {
	var out []*Obstacle
	for _, o := range l.Obstacles {
		if o.Right() >= minX && o.X <= maxX {
			out = append(out, o)
		}
	}
	return out
}

// Fingerprint hashes the course layout. Two levels with the same
// fingerprint have the same segments and obstacles.
func (l *Level) Fingerprint() uint64 {
	var buf []byte

	putFloat := func(v float64) {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	putRect := func(r core.Rect) {
		putFloat(r.X)
		putFloat(r.Y)
		putFloat(r.W)
		putFloat(r.H)
	}

	buf = binary.LittleEndian.AppendUint64(buf, uint64(l.Number))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(l.Seed))
	putFloat(l.Length)
	putFloat(l.Difficulty)
	for _, s := range l.Segments {
		buf = append(buf, s.Type...)
		putRect(s.Rect)
	}
	for _, o := range l.Obstacles {
		buf = append(buf, o.Type...)
		putRect(o.Rect)
	}
	putFloat(l.FinishLine.X)

	return xxh3.Hash(buf)
}
