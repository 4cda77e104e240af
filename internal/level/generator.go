// Package level builds deterministic obstacle courses from a level number.
// A level is a left-to-right run of segments, each carrying a ground
// platform and zero or more obstacles.
package level

import (
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

const (
	startWidth   = 200.0
	finishWidth  = 300.0
	finishOffset = 100.0
	straightLen  = 200.0
	gapDepth     = 600.0

	movingSalt   = 0x6d6f76696e67 // keys the moving-platform stream apart from the course stream
	movingWidth  = 80.0
	movingHeight = 15.0
	movingLift   = 90.0 // px between the ground top and the platform top
)

// Params configures course geometry.
type Params struct {
	BaseLength     float64 // Course length of levels 1..9
	LengthStep     float64 // Extra length per ten levels
	GroundY        float64 // Top of the ground platforms
	PlatformHeight float64 // Thickness of the ground platforms
	SpawnX         float64 // Runner start x
	SpawnHeight    float64 // Runner height used to place the start position

	// MovingPlatforms adds floating platforms that shuttle across some
	// straight runs. They never replace ground, so the course stays
	// finishable without them.
	MovingPlatforms bool
}

// DefaultParams returns the standard course geometry.
func DefaultParams() Params {
	return Params{
		BaseLength:     3000,
		LengthStep:     100,
		GroundY:        500,
		PlatformHeight: 50,
		SpawnX:         50,
		SpawnHeight:    40,
	}
}

// Generator builds levels. It holds no state between calls; every level
// gets a fresh random stream keyed by its seed.
type Generator struct {
	params Params
	newRNG func(seed int64) random.Generator
}

// NewGenerator creates a generator using xorshift streams.
func NewGenerator(p Params) *Generator {
	return &Generator{
		params: p,
		newRNG: func(seed int64) random.Generator { return random.NewStream(seed) },
	}
}

// WithRNG replaces the stream constructor, for tests that need scripted
// draws.
func (g *Generator) WithRNG(f func(seed int64) random.Generator) *Generator {
	g.newRNG = f
	return g
}

// Params returns the generator geometry.
func (g *Generator) Params() Params {
	return g.params
}

// Generate builds the level with the default parameters.
func Generate(levelNumber int) *Level {
	return NewGenerator(DefaultParams()).Generate(levelNumber)
}

// Generate builds the course for levelNumber. Numbers below 1 are treated
// as level 1. The result depends only on the level number and params.
func (g *Generator) Generate(levelNumber int) *Level {
	levelNumber = Normalize(levelNumber)
	seed := Seed(levelNumber)
	b := &builder{
		p:          g.params,
		rng:        g.newRNG(seed),
		difficulty: Difficulty(levelNumber),
	}
	length := g.params.Length(levelNumber)

	segments := b.segments(length)
	if g.params.MovingPlatforms {
		b.addMovingPlatforms(segments, g.newRNG(seed^movingSalt))
	}

	var obstacles []*Obstacle
	for _, seg := range segments {
		obstacles = append(obstacles, seg.Platform())
		obstacles = append(obstacles, seg.Obstacles...)
	}

	return &Level{
		Number:        levelNumber,
		Seed:          seed,
		Length:        length,
		Difficulty:    b.difficulty,
		Segments:      segments,
		Obstacles:     obstacles,
		StartPosition: core.V(g.params.SpawnX, g.params.GroundY-g.params.SpawnHeight),
		FinishLine:    core.V(length-finishOffset, g.params.GroundY),
	}
}

// builder carries the per-level state of one Generate call.
type builder struct {
	p          Params
	rng        random.Generator
	difficulty float64
}

func (b *builder) segments(length float64) []Segment {
	segments := []Segment{b.segment(StraightRun, 0, startWidth, nil)}
	x := startWidth

	for x < length-finishWidth {
		seg := b.next(x)
		segments = append(segments, seg)
		x += seg.W
	}

	return append(segments, b.segment(StraightRun, x, finishWidth, nil))
}

func (b *builder) segment(t SegmentType, x, w float64, obstacles []*Obstacle) Segment {
	return Segment{
		Type:      t,
		Rect:      core.NewRect(x, b.p.GroundY, w, b.p.PlatformHeight),
		Obstacles: obstacles,
	}
}

// addMovingPlatforms puts a shuttling platform above some inner straight
// runs. It draws from its own stream so the rest of the course is the same
// whether or not the pass runs.
func (b *builder) addMovingPlatforms(segments []Segment, rng random.Generator) {
	chance := 0.3 + 0.4*b.difficulty
	for i := 1; i < len(segments)-1; i++ {
		seg := &segments[i]
		if seg.Type != StraightRun || rng.Next() >= chance {
			continue
		}
		span := seg.W - movingWidth
		if span <= 0 {
			continue
		}
		speed := 60 + 90*b.difficulty
		seg.Obstacles = append(seg.Obstacles, NewMovingPlatform(
			seg.X, b.p.GroundY-movingLift, movingWidth, movingHeight, speed, span))
	}
}

// next rolls the segment type. Straight runs get rarer as difficulty rises.
func (b *builder) next(x float64) Segment {
	roll := b.rng.Next()
	switch {
	case roll < 0.3-0.1*b.difficulty:
		return b.segment(StraightRun, x, straightLen, nil)
	case roll < 0.5:
		return b.gapJump(x)
	case roll < 0.7:
		return b.wallClimb(x)
	case roll < 0.85:
		return b.slideSection(x)
	default:
		return b.complexParkour(x)
	}
}

func (b *builder) gapJump(x float64) Segment {
	gapWidth := 50 + b.difficulty*100 + b.rng.Next()*50
	landing := 150 + b.rng.Next()*100

	gap := NewObstacle(Gap, x, b.p.GroundY, gapWidth, gapDepth)
	return b.segment(GapJump, x, gapWidth+landing, []*Obstacle{gap})
}

func (b *builder) wallClimb(x float64) Segment {
	height := 80 + b.difficulty*100 + b.rng.Next()*50
	after := 150 + b.rng.Next()*100

	wall := NewWall(x+50, b.p.GroundY-height, 30, height, true)
	return b.segment(WallClimb, x, after+80, []*Obstacle{wall})
}

func (b *builder) slideSection(x float64) Segment {
	ventWidth := 60 + b.rng.Next()*40
	after := 150 + b.rng.Next()*100

	vent := NewObstacle(Vent, x+50, b.p.GroundY-40, ventWidth, 30)
	return b.segment(SlideSection, x, after+110, []*Obstacle{vent})
}

var complexPieces = []ObstacleType{LowBarrier, Gap, Wall, Vent, Spring, DashPad}

// complexParkour chains two or three pieces, each placed after the
// previous one's footprint.
func (b *builder) complexParkour(x float64) Segment {
	gy := b.p.GroundY
	offset := 100.0
	count := b.rng.NextInt(2, 3)
	obstacles := make([]*Obstacle, 0, count)

	for i := 0; i < count; i++ {
		switch random.Choice(b.rng, complexPieces) {
		case LowBarrier:
			obstacles = append(obstacles, NewObstacle(LowBarrier, x+offset, gy-30, 40, 30))
			offset += 100
		case Gap:
			w := 40 + b.rng.Next()*40
			obstacles = append(obstacles, NewObstacle(Gap, x+offset, gy, w, gapDepth))
			offset += w + 50
		case Wall:
			obstacles = append(obstacles, NewWall(x+offset, gy-80, 30, 80, true))
			offset += 100
		case Vent:
			obstacles = append(obstacles, NewObstacle(Vent, x+offset, gy-35, 50, 25))
			offset += 100
		case Spring:
			obstacles = append(obstacles, NewSpring(x+offset, gy-15, 30, 15, DefaultSpringForce))
			offset += 80
		case DashPad:
			obstacles = append(obstacles, NewDashPad(x+offset, gy-5, 60, 5, DefaultDashSpeed))
			offset += 100
		}
	}

	return b.segment(ComplexParkour, x, offset+100, obstacles)
}
