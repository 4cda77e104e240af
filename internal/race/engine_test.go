package race

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-parkour/internal/ai"
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

var ai0 = ai.Personality{Type: ai.Balanced}

func soloSettings() *Settings {
	s := DefaultSettings()
	s.Bots = 0
	s.FixedStep = 1.0 / 60
	return &s
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Renderer == nil {
		opts.Renderer = Discard
	}
	if opts.Level == 0 {
		opts.Level = 1
	}
	if opts.Rand == nil {
		opts.Rand = random.Fixed(0.5)
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{Level: 1}); !errors.Is(err, ErrNoRenderTarget) {
		t.Errorf("missing renderer: err = %v", err)
	}
	if _, err := New(Options{Renderer: Discard, Level: 0}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("level 0: err = %v", err)
	}
	bad := DefaultSettings()
	bad.FixedStep = 0
	if _, err := New(Options{Renderer: Discard, Level: 1, Settings: &bad}); err == nil {
		t.Error("zero fixed step should fail")
	}
}

func TestNewPlacesRacers(t *testing.T) {
	e := newTestEngine(t, Options{Level: 3})

	if e.Phase() != Countdown {
		t.Errorf("initial phase %s", e.Phase())
	}
	if len(e.Bots()) != 5 {
		t.Fatalf("expected 5 bots, got %d", len(e.Bots()))
	}
	start := e.Level().StartPosition
	if e.Player().Position != start {
		t.Errorf("player at %+v, expected %+v", e.Player().Position, start)
	}
	for i, b := range e.Bots() {
		if b.Position != start || b.Index != i {
			t.Errorf("bot %d at %+v", i, b.Position)
		}
	}
}

func TestCountdownSequence(t *testing.T) {
	var seen []int
	e := newTestEngine(t, Options{Settings: soloSettings(), Callbacks: Callbacks{
		OnCountdown: func(s int) { seen = append(seen, s) },
	}})

	e.Start(time.Unix(0, 0))
	advanceBy(e, 2)
	if e.Phase() != Countdown {
		t.Fatalf("phase %s after 2s", e.Phase())
	}
	advanceBy(e, 1)

	if e.Phase() != Running {
		t.Fatalf("phase %s after 3s, expected running", e.Phase())
	}
	if e.RaceTime() != 0 {
		t.Errorf("race time %v, expected 0", e.RaceTime())
	}
	if len(seen) != 3 || seen[0] != 3 || seen[1] != 2 || seen[2] != 1 {
		t.Errorf("countdown callbacks %v, expected [3 2 1]", seen)
	}
	if e.Banner() != bannerDuration {
		t.Errorf("start banner %v", e.Banner())
	}
}

func TestCountdownAnnouncesOncePerSecond(t *testing.T) {
	var seen []int
	e := newTestEngine(t, Options{Settings: soloSettings(), Callbacks: Callbacks{
		OnCountdown: func(s int) { seen = append(seen, s) },
	}})

	for i := 0; i < 40; i++ {
		e.Advance(0.1)
	}
	if len(seen) != 3 {
		t.Errorf("callbacks %v, expected one per second", seen)
	}
	if e.Phase() != Running {
		t.Errorf("phase %s", e.Phase())
	}
}

// advanceBy feeds seconds of wall time in 1/16s frames, which stay below
// the frame clamp and sum exactly.
func advanceBy(e *Engine, seconds float64) {
	for i := 0; i < int(seconds*16); i++ {
		e.Advance(1.0 / 16)
	}
}

// startRunning skips the countdown.
func startRunning(t *testing.T, e *Engine, now time.Time) {
	t.Helper()
	e.Start(now)
	advanceBy(e, e.Settings().Countdown)
	if e.Phase() != Running {
		t.Fatalf("phase %s", e.Phase())
	}
}

func TestFixedStepAccumulator(t *testing.T) {
	e := newTestEngine(t, Options{Settings: soloSettings()})
	startRunning(t, e, time.Unix(0, 0))

	step := e.Settings().FixedStep
	e.Advance(step * 0.5)
	if e.Ticks() != 0 {
		t.Fatalf("half a step ran %d ticks", e.Ticks())
	}
	e.Advance(step * 0.6)
	if e.Ticks() != 1 {
		t.Fatalf("ticks %d, expected 1", e.Ticks())
	}

	// A huge frame is clamped to 100ms: at most six ticks.
	e.Advance(10)
	if e.Ticks() > 7 {
		t.Errorf("ticks %d after a clamped frame", e.Ticks())
	}
	if math.Abs(e.RaceTime()-float64(e.Ticks())*step) > 1e-9 {
		t.Errorf("race time %v does not match %d ticks", e.RaceTime(), e.Ticks())
	}
}

func TestFrameClampsDelta(t *testing.T) {
	e := newTestEngine(t, Options{Settings: soloSettings()})
	t0 := time.Unix(100, 0)

	if !e.Frame(t0) {
		t.Fatal("first frame should keep the loop going")
	}
	e.Frame(t0.Add(time.Hour))
	if got := e.CountdownRemaining(); math.Abs(got-2.9) > 1e-9 {
		t.Errorf("countdown %v, expected one clamped 100ms step", got)
	}
}

func TestPauseResumeIntegrity(t *testing.T) {
	e := newTestEngine(t, Options{Settings: soloSettings()})
	t0 := time.Unix(0, 0)
	e.Frame(t0)
	now := t0
	for e.Phase() == Countdown {
		now = now.Add(50 * time.Millisecond)
		e.Frame(now)
	}

	// Leave a partial step in the accumulator, then pause.
	now = now.Add(25 * time.Millisecond)
	e.Frame(now)
	before := e.RaceTime()

	e.Pause()
	e.Pause()
	if e.Phase() != Paused {
		t.Fatalf("phase %s", e.Phase())
	}

	for i := 1; i <= 5; i++ {
		if !e.Frame(now.Add(time.Duration(i) * time.Minute)) {
			t.Fatal("paused race should keep scheduling frames")
		}
	}
	e.Tick(e.Settings().FixedStep)
	if e.RaceTime() != before {
		t.Fatalf("race time moved while paused: %v -> %v", before, e.RaceTime())
	}

	resumeAt := now.Add(time.Hour)
	e.Resume(resumeAt)
	e.Frame(resumeAt.Add(time.Millisecond))

	step := e.Settings().FixedStep
	if d := e.RaceTime() - before; d > step+1e-9 {
		t.Errorf("race time advanced %v across pause, more than one step", d)
	}
}

func TestPauseOnlyWhileRunning(t *testing.T) {
	e := newTestEngine(t, Options{Settings: soloSettings()})
	e.Pause()
	if e.Phase() != Countdown {
		t.Errorf("countdown should ignore pause, phase %s", e.Phase())
	}
	e.Resume(time.Now())
	if e.Phase() != Countdown {
		t.Errorf("resume without pause changed phase to %s", e.Phase())
	}

	startRunning(t, e, time.Unix(0, 0))
	e.TogglePause(time.Unix(5, 0))
	if e.Phase() != Paused {
		t.Fatalf("toggle should pause, phase %s", e.Phase())
	}
	e.TogglePause(time.Unix(6, 0))
	if e.Phase() != Running {
		t.Errorf("toggle should resume, phase %s", e.Phase())
	}
}

func TestSoloRaceFinishes(t *testing.T) {
	var results []Result
	var updates int
	e := newTestEngine(t, Options{Settings: soloSettings(), Callbacks: Callbacks{
		OnRaceComplete:   func(r Result) { results = append(results, r) },
		OnPositionUpdate: func([]RacePosition) { updates++ },
	}})

	res, ok := e.RunHeadless(120)
	if !ok {
		t.Fatalf("race did not finish, player at %v", e.Player().Position.X)
	}
	if res.Position != 1 || res.CoinsEarned != 50 || res.LevelNumber != 1 {
		t.Errorf("result %+v", res)
	}
	// 2850px at 200px/s
	if math.Abs(res.CompletionTime-14.25) > 0.05 {
		t.Errorf("completion time %v, expected about 14.25s", res.CompletionTime)
	}
	if len(results) != 1 || results[0] != res {
		t.Errorf("OnRaceComplete fired %d times", len(results))
	}
	if updates != e.Ticks() {
		t.Errorf("position updates %d, ticks %d", updates, e.Ticks())
	}

	ticks := e.Ticks()
	if e.Frame(time.Now()) {
		t.Error("finished race should stop scheduling frames")
	}
	e.Advance(1)
	if e.Ticks() != ticks {
		t.Error("finished race kept ticking")
	}
}

func TestMovingPlatformsAdvanceWithRace(t *testing.T) {
	s := soloSettings()
	s.Level.MovingPlatforms = true

	for n := 1; n <= 20; n++ {
		e := newTestEngine(t, Options{Settings: s, Level: n})
		var moving *level.Obstacle
		for _, o := range e.Level().Obstacles {
			if o.Type == level.MovingPlatform {
				moving = o
				break
			}
		}
		if moving == nil {
			continue
		}

		start := moving.X
		startRunning(t, e, time.Now())
		if moving.X != start {
			t.Fatal("platform moved during the countdown")
		}
		advanceBy(e, 0.5)
		if moving.X <= start {
			t.Errorf("level %d: platform did not move while running: %v -> %v", n, start, moving.X)
		}
		return
	}
	t.Fatal("no level with a moving platform")
}

func TestFieldFinishEndsRace(t *testing.T) {
	var got *Result
	s := soloSettings()
	s.Bots = 5
	e := newTestEngine(t, Options{Settings: s, Callbacks: Callbacks{
		OnRaceComplete: func(r Result) { got = &r },
	}})
	startRunning(t, e, time.Unix(0, 0))

	for _, b := range e.Bots() {
		b.Position.X = e.Level().FinishLine.X + 500
	}
	e.Tick(s.FixedStep)

	if e.Phase() != Finished || got == nil {
		t.Fatalf("phase %s, result %v", e.Phase(), got)
	}
	if got.Position != 6 || got.CoinsEarned != 0 {
		t.Errorf("result %+v, expected last place and no coins", *got)
	}
}

func TestDestroyStopsLoop(t *testing.T) {
	rendered := 0
	e := newTestEngine(t, Options{
		Settings: soloSettings(),
		Renderer: RendererFunc(func(*Engine) { rendered++ }),
	})
	startRunning(t, e, time.Unix(0, 0))
	e.Destroy()
	e.Destroy()

	if e.Frame(time.Unix(10, 0)) {
		t.Error("destroyed race should not schedule frames")
	}
	e.Tick(1.0 / 60)
	e.Advance(1)
	if e.Ticks() != 0 || rendered != 0 {
		t.Errorf("destroyed race ran: ticks %d, renders %d", e.Ticks(), rendered)
	}
	if !e.Destroyed() {
		t.Error("Destroyed() = false")
	}
}

func TestInputReachesPlayer(t *testing.T) {
	jumps := 0
	input := core.InputFunc(func() core.InputState {
		jumps++
		return core.InputState{Jump: true}
	})
	e := newTestEngine(t, Options{Settings: soloSettings(), Input: input})
	startRunning(t, e, time.Unix(0, 0))

	e.Player().Grounded = true
	e.Tick(e.Settings().FixedStep)
	if jumps != 1 {
		t.Errorf("input polled %d times, expected once per tick", jumps)
	}
	if e.Player().Velocity.Y >= 0 {
		t.Errorf("player did not jump, vy %v", e.Player().Velocity.Y)
	}
}

func TestAutopilotRaceWithBots(t *testing.T) {
	e := newTestEngine(t, Options{Level: 25, Autopilot: true, Rand: random.NewSource(7)})
	res, ok := e.RunHeadless(300)
	if !ok {
		t.Fatalf("autopilot race did not finish: player x %v", e.Player().Position.X)
	}
	if res.Position < 1 || res.Position > 6 {
		t.Errorf("position %d out of range", res.Position)
	}
	for _, b := range e.Bots() {
		if !b.Position.IsFinite() {
			t.Fatalf("bot %s position not finite", b.Name)
		}
	}
}
