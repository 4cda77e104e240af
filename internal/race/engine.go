// Package race runs a race: it owns the level, the racers and a
// fixed-timestep loop that an external frame driver feeds with wall time.
package race

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-parkour/internal/ai"
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/entity"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/physics"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

var (
	// ErrNoRenderTarget is returned when a race is created without a renderer.
	ErrNoRenderTarget = errors.New("race: no render target")
	// ErrInvalidLevel is returned for level numbers below 1.
	ErrInvalidLevel = errors.New("race: level number must be at least 1")
)

// bannerDuration is how long the start banner stays up.
const bannerDuration = 1.0

// Phase is the race lifecycle state.
type Phase string

const (
	Countdown Phase = "countdown"
	Running   Phase = "running"
	Paused    Phase = "paused"
	Finished  Phase = "finished"
)

// Renderer draws the race. It is called once per frame and must not
// modify the engine.
type Renderer interface {
	Render(e *Engine)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(e *Engine)

// Render implements Renderer.
func (f RendererFunc) Render(e *Engine) { f(e) }

// Discard is a Renderer that draws nothing, for headless races.
var Discard Renderer = RendererFunc(func(*Engine) {})

// Callbacks notify collaborators. Nil callbacks are skipped. They run on
// the loop goroutine and must not block.
type Callbacks struct {
	OnCountdown      func(secondsRemaining int)
	OnRaceComplete   func(Result)
	OnPositionUpdate func([]RacePosition)
}

// Options configures a race.
type Options struct {
	Renderer   Renderer // required
	Level      int      // 1-based level number
	Appearance core.Appearance
	Input      core.InputSource // polled once per tick; nil means no input
	Autopilot  bool             // let the decision engine drive the player instead of Input
	Settings   *Settings        // nil means DefaultSettings
	Rand       random.Source    // ambient noise for bots; nil means time seeded
	Logger     *log.Logger      // nil discards
	Callbacks
}

// Engine is a single race. All methods must be called from one goroutine.
type Engine struct {
	settings Settings
	lvl      *level.Level
	player   *entity.Player
	bots     []*entity.Bot
	world    *physics.Engine
	camera   *Camera
	renderer Renderer
	input    core.InputSource
	cb       Callbacks
	log      *log.Logger

	phase       Phase
	countdown   float64
	announced   int
	raceTime    float64
	accumulator float64
	banner      float64
	ticks       int

	started   bool
	destroyed bool
	last      time.Time
	result    *Result
}

// New builds a race. It fails fast without a renderer or with an invalid
// level number; no partial engine is returned.
func New(opts Options) (*Engine, error) {
	if opts.Renderer == nil {
		return nil, ErrNoRenderTarget
	}
	if opts.Level < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevel, opts.Level)
	}

	s := DefaultSettings()
	if opts.Settings != nil {
		s = *opts.Settings
	}
	if s.FixedStep <= 0 {
		return nil, fmt.Errorf("race: fixed step must be positive, got %v", s.FixedStep)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = random.NewSource(0)
	}

	lvl := level.NewGenerator(s.Level).Generate(opts.Level)

	e := &Engine{
		settings:  s,
		lvl:       lvl,
		player:    entity.NewPlayer(lvl.StartPosition, s.Movement, opts.Appearance),
		world:     physics.NewEngine(s.Gravity, s.TerminalVelocity),
		camera:    NewCamera(s.Viewport, lvl.Length, s.CameraSmoothing, s.VisibleMargin),
		renderer:  opts.Renderer,
		input:     opts.Input,
		cb:        opts.Callbacks,
		log:       logger,
		phase:     Countdown,
		countdown: s.Countdown,
		announced: -1,
	}

	skill := core.Clamp(lvl.Difficulty+s.BotSkillOffset, 0, 1)
	brain := ai.NewEngine(s.AI, rng)
	for i := 0; i < s.Bots; i++ {
		p := ai.NewPersonality(skill, rng)
		e.bots = append(e.bots, entity.NewBot(i, lvl.StartPosition, s.Movement, skill, p, brain, rng))
	}

	if opts.Autopilot {
		e.input = ai.NewAutopilot(ai.NewEngine(s.AI, rng), lvl, func() core.Vec2 {
			return e.player.Position
		})
	}
	if e.input == nil {
		e.input = core.NoInput
	}

	e.log.Debug("race created", "level", lvl.Number, "seed", lvl.Seed,
		"difficulty", lvl.Difficulty, "length", lvl.Length, "bots", len(e.bots))
	return e, nil
}

// Start begins the countdown, using now as the frame clock origin.
func (e *Engine) Start(now time.Time) {
	if e.destroyed || e.started {
		return
	}
	e.started = true
	e.last = now
	e.log.Debug("race started", "level", e.lvl.Number)
}

// Frame runs one rendered frame at wall time now and reports whether the
// driver should schedule another one. The elapsed time is clamped to the
// maximum frame delta.
func (e *Engine) Frame(now time.Time) bool {
	if e.destroyed {
		return false
	}
	if !e.started {
		e.Start(now)
	}

	if e.phase != Paused {
		e.Advance(now.Sub(e.last).Seconds())
		e.last = now
	}

	e.renderer.Render(e)
	return e.phase != Finished
}

// Advance feeds dt seconds of wall time to the loop: it ticks the
// countdown, or runs as many fixed steps as the accumulator holds.
func (e *Engine) Advance(dt float64) {
	if e.destroyed {
		return
	}
	dt = core.SanitizeDelta(dt, e.settings.MaxFrameDelta)

	switch e.phase {
	case Countdown:
		e.advanceCountdown(dt)
	case Running:
		e.accumulator += dt
		step := e.settings.FixedStep
		for e.accumulator >= step && e.phase == Running {
			e.Tick(step)
			e.accumulator -= step
		}
	}
}

func (e *Engine) advanceCountdown(dt float64) {
	if secs := int(math.Ceil(e.countdown)); secs > 0 && secs != e.announced {
		e.announced = secs
		if e.cb.OnCountdown != nil {
			e.cb.OnCountdown(secs)
		}
	}

	e.countdown -= dt
	if e.countdown <= 0 {
		e.countdown = 0
		e.phase = Running
		e.raceTime = 0
		e.accumulator = 0
		e.banner = bannerDuration
		e.log.Debug("race running", "level", e.lvl.Number)
	}
}

// Tick runs one fixed physics step. It does nothing unless the race is
// running. The order is fixed: race clock, input, player, bots in index
// order, gravity and ground for every racer, camera, then finish check.
func (e *Engine) Tick(dt float64) {
	if e.destroyed || e.phase != Running {
		return
	}
	e.ticks++
	e.raceTime += dt
	e.lvl.Update(dt)

	obstacles := e.lvl.Obstacles
	e.player.Update(dt, obstacles, e.input.Input())
	for _, b := range e.bots {
		b.Update(dt, obstacles)
	}

	e.world.Step(&e.player.Body, obstacles, dt)
	for _, b := range e.bots {
		e.world.Step(&b.Body, obstacles, dt)
	}

	e.camera.Follow(e.player.Position)
	e.banner = math.Max(e.banner-dt, 0)

	e.checkRaceStatus()
	if e.cb.OnPositionUpdate != nil {
		e.cb.OnPositionUpdate(e.Positions())
	}
}

// checkRaceStatus ends the race when the player crosses the finish line or
// when every bot already has.
func (e *Engine) checkRaceStatus() {
	finishX := e.lvl.FinishLine.X
	if e.player.Position.X >= finishX {
		e.finish()
		return
	}
	if len(e.bots) == 0 {
		return
	}
	for _, b := range e.bots {
		if b.Position.X < finishX {
			return
		}
	}
	e.finish()
}

func (e *Engine) finish() {
	others := make([]float64, len(e.bots))
	for i, b := range e.bots {
		others[i] = b.Position.X
	}
	rank := Rank(e.player.Position.X, others)

	res := Result{
		Position:       rank,
		LevelNumber:    e.lvl.Number,
		CompletionTime: e.raceTime,
		CoinsEarned:    Reward(rank, e.settings.BaseReward, e.settings.Multipliers),
	}
	e.result = &res
	e.phase = Finished
	e.log.Debug("race finished", "level", res.LevelNumber, "position", res.Position,
		"time", res.CompletionTime, "coins", res.CoinsEarned)

	if e.cb.OnRaceComplete != nil {
		e.cb.OnRaceComplete(res)
	}
}

// Pause stops physics. It only applies to a running race and is
// idempotent.
func (e *Engine) Pause() {
	if e.phase != Running {
		return
	}
	e.phase = Paused
	e.log.Debug("race paused", "time", e.raceTime)
}

// Resume continues a paused race. The accumulator is dropped and the frame
// clock rebased to now so the pause is not replayed as catch-up ticks.
func (e *Engine) Resume(now time.Time) {
	if e.phase != Paused || e.destroyed {
		return
	}
	e.phase = Running
	e.accumulator = 0
	e.last = now
	e.log.Debug("race resumed", "time", e.raceTime)
}

// TogglePause pauses a running race or resumes a paused one.
func (e *Engine) TogglePause(now time.Time) {
	switch e.phase {
	case Running:
		e.Pause()
	case Paused:
		e.Resume(now)
	}
}

// Destroy stops the race for good. Later frames and ticks do nothing.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.log.Debug("race destroyed", "phase", e.phase)
}

// RunHeadless drives the race synchronously in fixed steps until it
// finishes or maxRaceTime seconds of race clock pass. It reports whether
// the race finished.
func (e *Engine) RunHeadless(maxRaceTime float64) (Result, bool) {
	e.started = true
	step := e.settings.FixedStep
	for !e.destroyed && e.phase != Finished {
		if e.phase == Running && e.raceTime >= maxRaceTime {
			break
		}
		if e.phase == Paused {
			break
		}
		e.Advance(step)
		e.renderer.Render(e)
	}
	return e.Result()
}

// Phase returns the lifecycle state.
func (e *Engine) Phase() Phase { return e.phase }

// Destroyed reports whether Destroy was called.
func (e *Engine) Destroyed() bool { return e.destroyed }

// Level returns the course being raced.
func (e *Engine) Level() *level.Level { return e.lvl }

// Player returns the human racer.
func (e *Engine) Player() *entity.Player { return e.player }

// Bots returns the AI racers in index order.
func (e *Engine) Bots() []*entity.Bot { return e.bots }

// Camera returns the race camera.
func (e *Engine) Camera() *Camera { return e.camera }

// RaceTime returns seconds elapsed since the countdown ended.
func (e *Engine) RaceTime() float64 { return e.raceTime }

// Ticks returns the number of physics steps run.
func (e *Engine) Ticks() int { return e.ticks }

// CountdownRemaining returns the seconds left before the start.
func (e *Engine) CountdownRemaining() float64 { return e.countdown }

// Banner returns the seconds the start banner has left on screen.
func (e *Engine) Banner() float64 { return e.banner }

// Settings returns the engine settings.
func (e *Engine) Settings() Settings { return e.settings }

// Result returns the race outcome once finished.
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// Positions returns the live standings.
func (e *Engine) Positions() []RacePosition {
	return Standings(e.player, e.bots, e.lvl.Length)
}
