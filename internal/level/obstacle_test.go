package level

import (
	"math"
	"testing"
)

func TestObstacleHelpers(t *testing.T) {
	notClimbable := NewWall(0, 0, 30, 80, false)
	if notClimbable.IsClimbable() {
		t.Error("wall marked unclimbable reports climbable")
	}
	if !(&Obstacle{Type: Wall}).IsClimbable() {
		t.Error("wall without climbable flag should be climbable")
	}
	if NewObstacle(Vent, 0, 0, 1, 1).IsClimbable() {
		t.Error("vent should not be climbable")
	}

	if s := NewObstacle(Spring, 0, 0, 1, 1); !s.IsSpring() || s.SpringForce() != -600 {
		t.Errorf("spring default force = %v", s.SpringForce())
	}
	if s := NewSpring(0, 0, 1, 1, -900); s.SpringForce() != -900 {
		t.Errorf("spring force = %v", s.SpringForce())
	}
	if d := NewObstacle(DashPad, 0, 0, 1, 1); !d.IsDashPad() || d.DashSpeed() != 400 {
		t.Errorf("dash speed = %v", d.DashSpeed())
	}

	if !NewObstacle(Spike, 0, 0, 1, 1).IsDangerous() {
		t.Error("spike should be dangerous")
	}
	b := NewObstacle(LowBarrier, 0, 0, 1, 1)
	b.Props.Dangerous = true
	if !b.IsDangerous() {
		t.Error("dangerous flag ignored")
	}

	if !NewObstacle(Platform, 0, 0, 1, 1).IsGround() || NewObstacle(Gap, 0, 0, 1, 1).IsGround() {
		t.Error("IsGround mismatch")
	}
}

func TestMovingPlatformPingPong(t *testing.T) {
	// 100 px range at 100 px/s: one second out, one second back.
	p := NewMovingPlatform(1000, 400, 80, 20, 100, 100)

	p.Update(0.5)
	if math.Abs(p.X-1050) > 0.01 {
		t.Errorf("after 0.5s x = %v, expected 1050", p.X)
	}

	p.Update(0.5)
	if math.Abs(p.X-1100) > 0.01 {
		t.Errorf("after 1s x = %v, expected 1100", p.X)
	}

	p.Update(0.5)
	if math.Abs(p.X-1050) > 0.01 {
		t.Errorf("after 1.5s x = %v, expected 1050", p.X)
	}

	for i := 0; i < 40; i++ {
		p.Update(0.1)
		if p.X < 999.99 || p.X > 1100.01 {
			t.Fatalf("platform left its range: x = %v", p.X)
		}
	}
}

func TestStaticObstacleUpdate(t *testing.T) {
	o := NewObstacle(Platform, 10, 20, 30, 40)
	o.Update(1)
	if o.X != 10 {
		t.Errorf("static obstacle moved to %v", o.X)
	}
	still := NewMovingPlatform(10, 0, 10, 10, 0, 100)
	still.Update(1)
	if still.X != 10 {
		t.Errorf("moving platform without speed moved to %v", still.X)
	}
}

func TestLevelUpdateMovesPlatforms(t *testing.T) {
	lvl := Generate(1)
	mp := NewMovingPlatform(500, 300, 60, 10, 50, 100)
	lvl.Obstacles = append(lvl.Obstacles, mp)

	lvl.Update(1)
	if math.Abs(mp.X-550) > 0.01 {
		t.Errorf("moving platform x = %v, expected 550", mp.X)
	}
}
