package race

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-parkour/internal/core"
)

func TestCameraFollow(t *testing.T) {
	c := NewCamera(core.V(1280, 720), 5000, 0.1, 100)

	c.Follow(core.V(2000, 460))
	// goal x = 2000 - 426.67, moved 10% of the way from 0
	if math.Abs(c.Position.X-157.3333) > 0.001 {
		t.Errorf("x = %v", c.Position.X)
	}
	// goal y = 460 - 360 = 100, 10% of it
	if math.Abs(c.Position.Y-10) > 1e-9 {
		t.Errorf("y = %v", c.Position.Y)
	}

	for i := 0; i < 500; i++ {
		c.Follow(core.V(4900, 1000))
	}
	if c.Position.X != 5000-1280 {
		t.Errorf("x should clamp to course end, got %v", c.Position.X)
	}
	if c.Position.Y != 200 {
		t.Errorf("y should clamp to 200, got %v", c.Position.Y)
	}

	c.Follow(core.V(-1000, -5000))
	if c.Position.X < 0 || c.Position.Y < -200 {
		t.Errorf("camera escaped lower bounds: %+v", c.Position)
	}
}

func TestCameraShortCourse(t *testing.T) {
	c := NewCamera(core.V(1280, 720), 1000, 1, 0)
	c.Follow(core.V(900, 360))
	if c.Position.X != 0 {
		t.Errorf("course shorter than the viewport should pin x to 0, got %v", c.Position.X)
	}
}

func TestCameraTransforms(t *testing.T) {
	c := NewCamera(core.V(100, 100), 5000, 0.1, 10)
	c.Position = core.V(300, 50)

	p := core.V(350, 80)
	s := c.WorldToScreen(p)
	if s != core.V(50, 30) {
		t.Errorf("WorldToScreen = %+v", s)
	}
	if c.ScreenToWorld(s) != p {
		t.Error("ScreenToWorld should invert WorldToScreen")
	}

	if !c.IsVisible(core.NewRect(395, 60, 10, 10)) {
		t.Error("rect inside the margin should be visible")
	}
	if c.IsVisible(core.NewRect(420, 60, 10, 10)) {
		t.Error("rect past the margin should not be visible")
	}
}
