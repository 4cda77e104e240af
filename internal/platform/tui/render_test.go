package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

func newViewEngine(t *testing.T, view *RaceView) *race.Engine {
	t.Helper()
	s := race.DefaultSettings()
	s.Bots = 2
	e, err := race.New(race.Options{Renderer: view, Level: 1, Settings: &s, Rand: random.Fixed(0.5)})
	if err != nil {
		t.Fatalf("race.New: %v", err)
	}
	return e
}

func screenText(s *core.Screen) string {
	var b strings.Builder
	for y := range s.Height() {
		b.WriteString(s.Row(y))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestRaceViewCountdown(t *testing.T) {
	screen := core.NewScreen(80, 23)
	view := NewRaceView(screen, 10, 20)
	e := newViewEngine(t, view)

	e.Frame(time.Unix(0, 0))
	text := screenText(screen)

	if !strings.Contains(text, "3") {
		t.Error("countdown digit should be drawn")
	}
	if !strings.Contains(screen.Row(0), "Level 1") {
		t.Errorf("HUD row = %q", screen.Row(0))
	}
	if !strings.Contains(text, "@") {
		t.Error("player glyph should be drawn")
	}
	if !strings.ContainsRune(text, '█') {
		t.Error("ground should be drawn")
	}
	if !strings.Contains(screen.Row(screen.Height()-1), "YOU") {
		t.Errorf("standings row = %q", screen.Row(screen.Height()-1))
	}
}

func TestRaceViewPausedAndFinished(t *testing.T) {
	screen := core.NewScreen(80, 23)
	view := NewRaceView(screen, 10, 20)
	e := newViewEngine(t, view)

	now := time.Unix(0, 0)
	e.Frame(now)
	for e.Phase() == race.Countdown {
		now = now.Add(50 * time.Millisecond)
		e.Frame(now)
	}
	if !strings.Contains(screenText(screen), "GO!") {
		t.Error("start banner should be drawn")
	}

	e.Pause()
	e.Frame(now.Add(time.Second))
	if !strings.Contains(screenText(screen), "PAUSED") {
		t.Error("pause overlay should be drawn")
	}

	e.Resume(now)
	e.Player().Position.X = e.Level().FinishLine.X
	e.Tick(e.Settings().FixedStep)
	e.Frame(now.Add(time.Millisecond))
	text := screenText(screen)
	if !strings.Contains(text, "RACE COMPLETE") || !strings.Contains(text, "Position: 1st") {
		t.Errorf("results overlay missing:\n%s", text)
	}
}

func TestRaceViewTinyScreen(t *testing.T) {
	screen := core.NewScreen(10, 2)
	view := NewRaceView(screen, 0, 0)
	e := newViewEngine(t, view)
	e.Frame(time.Unix(0, 0))
	if strings.TrimSpace(screenText(screen)) != "" {
		t.Error("a screen too small for the course should stay blank")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab", core.ColorHUD)
	s.DrawText(2, 0, "cd", core.ColorDefault)
	s.DrawText(0, 1, "xyz", "245")

	out := RenderScreen(s)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, want := range []string{"ab", "cd", "xyz"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd"}
	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %s, expected %s", n, got, want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(50, 10); got != "[=====     ]" {
		t.Errorf("progressBar(50) = %q", got)
	}
	if got := progressBar(150, 4); got != "[====]" {
		t.Errorf("progressBar(150) = %q", got)
	}
}
