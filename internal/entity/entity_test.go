package entity

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/physics"
)

const dt = 0.1

func ground() []*level.Obstacle {
	return []*level.Obstacle{level.NewObstacle(level.Platform, 0, 500, 1000, 50)}
}

func standing() *Player {
	p := NewPlayer(core.V(50, 460), DefaultMovement(), core.Appearance{})
	p.Grounded = true
	return p
}

func TestPlayerRuns(t *testing.T) {
	p := standing()
	p.Update(dt, ground(), core.InputState{})

	if p.State != Running || p.Velocity.X != 200 {
		t.Errorf("state %s, vx %v", p.State, p.Velocity.X)
	}
	if math.Abs(p.Position.X-70) > 1e-9 || math.Abs(p.Distance-20) > 1e-9 {
		t.Errorf("x %v, distance %v", p.Position.X, p.Distance)
	}
}

func TestPlayerJump(t *testing.T) {
	p := standing()
	p.Update(dt, ground(), core.InputState{Jump: true})

	if p.State != Jumping || p.Grounded {
		t.Errorf("state %s, grounded %v", p.State, p.Grounded)
	}
	if p.Velocity.Y != -400 || math.Abs(p.Position.Y-420) > 1e-9 {
		t.Errorf("vy %v, y %v", p.Velocity.Y, p.Position.Y)
	}

	// Airborne: no double jump.
	p.Velocity.Y = -100
	p.Update(dt, ground(), core.InputState{Jump: true})
	if p.Velocity.Y != -100 {
		t.Errorf("airborne jump changed vy to %v", p.Velocity.Y)
	}
}

func TestDerivedStates(t *testing.T) {
	tests := []struct {
		name     string
		grounded bool
		vy       float64
		expected State
	}{
		{"falling", false, 50, Falling},
		{"rising", false, -50, Jumping},
		{"landed", true, 0, Running},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := standing()
			p.State = Jumping
			p.Grounded = tt.grounded
			p.Velocity.Y = tt.vy
			p.Update(dt, ground(), core.InputState{})
			if p.State != tt.expected {
				t.Errorf("state %s, expected %s", p.State, tt.expected)
			}
		})
	}
}

func TestPlayerSlide(t *testing.T) {
	p := standing()
	p.Update(dt, ground(), core.InputState{Slide: true})

	if p.State != Sliding || p.Size.Y != 20 || p.Velocity.X != 250 {
		t.Fatalf("state %s, height %v, vx %v", p.State, p.Size.Y, p.Velocity.X)
	}
	if p.Bottom() != 500 {
		t.Errorf("slide should keep feet on the ground, bottom %v", p.Bottom())
	}

	p.Update(dt, ground(), core.InputState{Slide: true})
	if p.State != Sliding {
		t.Errorf("holding slide should keep sliding, got %s", p.State)
	}

	p.Update(dt, ground(), core.InputState{})
	if p.State != Running || p.Size.Y != 40 || p.Bottom() != 500 || p.Velocity.X != 200 {
		t.Errorf("after release: state %s, height %v, bottom %v, vx %v", p.State, p.Size.Y, p.Bottom(), p.Velocity.X)
	}
}

func TestSlideRequiresGround(t *testing.T) {
	p := standing()
	p.Grounded = false
	p.Velocity.Y = 10
	p.Update(dt, ground(), core.InputState{Slide: true})
	if p.State == Sliding {
		t.Error("airborne player must not slide")
	}
}

func wallAt(x, top float64) *level.Obstacle {
	return level.NewWall(x, top, 30, 500-top, true)
}

func TestPlayerClimb(t *testing.T) {
	wall := wallAt(75, 380)
	obstacles := append(ground(), wall)

	p := standing()
	p.Update(dt, obstacles, core.InputState{Climb: true})

	if p.State != Climbing {
		t.Fatalf("state %s, expected climbing", p.State)
	}
	if p.Position.X != 55 || p.Velocity != (core.Vec2{}) {
		t.Errorf("climb should snap to wall edge and stop: x %v, v %+v", p.Position.X, p.Velocity)
	}
	if p.NearbyWall() != wall {
		t.Error("nearby wall not recorded")
	}

	p.Update(dt, obstacles, core.InputState{})
	if p.Velocity.X != 0 || p.Velocity.Y != -150 || math.Abs(p.Position.Y-445) > 1e-9 {
		t.Errorf("climbing: v %+v, y %v", p.Velocity, p.Position.Y)
	}

	for i := 0; i < 20 && p.State == Climbing; i++ {
		p.Update(dt, obstacles, core.InputState{})
	}
	if p.State != Running || p.Velocity.X != 200 {
		t.Errorf("after topping the wall: state %s, vx %v", p.State, p.Velocity.X)
	}
	if p.Position.Y >= wall.Y {
		t.Errorf("head should be above the wall top, y %v", p.Position.Y)
	}
}

func TestClimbTallWallAndMoveOn(t *testing.T) {
	const step = 1.0 / 60
	world := physics.DefaultEngine()
	wall := wallAt(75, 300) // 200px tall
	obstacles := append(ground(), wall)

	p := standing()
	climbed, regrabbed := false, false
	for i := 0; i < 300; i++ {
		wasRunningAfterClimb := climbed && p.State != Climbing
		p.Update(step, obstacles, core.InputState{Climb: true})
		world.Step(&p.Body, obstacles, step)

		if p.State == Climbing {
			if wasRunningAfterClimb {
				regrabbed = true
			}
			climbed = true
		}
	}

	if !climbed {
		t.Fatal("never started climbing")
	}
	if regrabbed {
		t.Error("racer grabbed the wall again after topping it")
	}
	if p.Position.X <= wall.Right()+adjacentReach {
		t.Errorf("racer stuck at the wall, x %v", p.Position.X)
	}
	if !p.Grounded || p.State != Running {
		t.Errorf("expected running on the ground past the wall: state %s, grounded %v", p.State, p.Grounded)
	}
}

func TestClimbFromRightSide(t *testing.T) {
	wall := wallAt(20, 380)
	p := standing()
	p.Position.X = 55 // left edge 5px right of the wall
	p.Update(dt, append(ground(), wall), core.InputState{Climb: true})

	if p.State != Climbing || p.Position.X != 50 {
		t.Errorf("state %s, x %v", p.State, p.Position.X)
	}
}

func TestClimbNeedsReach(t *testing.T) {
	wall := wallAt(85, 380) // 15px away: adjacent but out of reach
	p := standing()
	p.Update(dt, append(ground(), wall), core.InputState{Climb: true})

	if p.NearbyWall() != wall {
		t.Error("wall within 20px should be nearby")
	}
	if p.State == Climbing {
		t.Error("wall 15px away must not be grabbed")
	}

	unclimbable := level.NewWall(75, 380, 30, 120, false)
	q := standing()
	q.Update(dt, append(ground(), unclimbable), core.InputState{Climb: true})
	if q.State == Climbing {
		t.Error("unclimbable wall grabbed")
	}
}

func TestPushOffWall(t *testing.T) {
	obstacles := append(ground(), wallAt(75, 380))
	p := standing()
	p.Update(dt, obstacles, core.InputState{Climb: true})
	p.Update(dt, obstacles, core.InputState{Jump: true})

	if p.State != Jumping || p.Grounded {
		t.Errorf("state %s, grounded %v", p.State, p.Grounded)
	}
	if p.Velocity.X != 200 || math.Abs(p.Velocity.Y-(-320)) > 1e-9 {
		t.Errorf("push-off velocity %+v", p.Velocity)
	}
}

func TestNoSlideToClimb(t *testing.T) {
	obstacles := append(ground(), wallAt(75, 380))
	p := standing()
	p.Update(dt, obstacles, core.InputState{Slide: true})
	p.Update(dt, obstacles, core.InputState{Climb: true})

	if p.State != Running {
		t.Errorf("leaving a slide must pass through running, got %s", p.State)
	}
}

func TestProgress(t *testing.T) {
	p := standing()
	p.Position.X = 1500
	if p.Progress(3000) != 50 {
		t.Errorf("progress %v", p.Progress(3000))
	}
	p.Position.X = 4000
	if p.Progress(3000) != 100 {
		t.Errorf("progress should cap at 100, got %v", p.Progress(3000))
	}
}
