package entity

import (
	"github.com/vovakirdan/tui-parkour/internal/ai"
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

// BotNames label bots by index.
var BotNames = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}

// BotLooks color bots by index.
var BotLooks = []core.Appearance{
	{Primary: "#4A90E2", Secondary: "#2E5C8A", Accent: "#A8D5FF"},
	{Primary: "#E24A4A", Secondary: "#8A2E2E", Accent: "#FFA8A8"},
	{Primary: "#4AE290", Secondary: "#2E8A5C", Accent: "#A8FFD5"},
	{Primary: "#E2904A", Secondary: "#8A5C2E", Accent: "#FFD5A8"},
	{Primary: "#904AE2", Secondary: "#5C2E8A", Accent: "#D5A8FF"},
}

// Bot is an AI-controlled racer. It re-decides on the engine cadence and
// may hesitate before acting on a decision.
type Bot struct {
	Entity
	Index       int
	Name        string
	Personality ai.Personality

	brain         *ai.Engine
	rng           random.Source
	decision      ai.Decision
	timer         float64
	reactionDelay float64
}

// NewBot creates bot number index at start.
func NewBot(index int, start core.Vec2, m Movement, difficulty float64, p ai.Personality, brain *ai.Engine, rng random.Source) *Bot {
	return &Bot{
		Entity:        newEntity(start, m, BotLooks[index%len(BotLooks)]),
		Index:         index,
		Name:          BotNames[index%len(BotNames)],
		Personality:   p,
		brain:         brain,
		rng:           rng,
		decision:      ai.Idle,
		reactionDelay: ai.ReactionDelay(difficulty),
	}
}

// Decision returns the decision the bot is currently executing.
func (b *Bot) Decision() ai.Decision {
	return b.decision
}

// ReactionDelay returns the threshold a roll must beat for the bot to act.
func (b *Bot) ReactionDelay() float64 {
	return b.reactionDelay
}

// Update advances the bot one tick.
func (b *Bot) Update(dt float64, obstacles []*level.Obstacle) {
	b.timer += dt
	if b.timer >= b.brain.Params().Interval {
		b.decision = b.brain.Decide(b.Position, obstacles, b.Personality)
		b.timer = 0
	}

	ctl := b.control()
	scale := 1.0
	if ctl.Jump {
		scale = 0.85 + b.rng.Float64()*0.15
	}
	b.step(dt, obstacles, ctl, scale)
}

// control turns the current decision into a control signal. Starting an
// action requires beating the reaction roll; keeping one going does not.
func (b *Bot) control() core.InputState {
	switch b.decision.Action {
	case ai.Jump:
		return core.InputState{Jump: b.react()}
	case ai.Slide:
		return core.InputState{Slide: b.State == Sliding || b.react()}
	case ai.Climb:
		return core.InputState{Climb: b.State == Climbing || b.react()}
	default:
		return core.InputState{}
	}
}

func (b *Bot) react() bool {
	return b.rng.Float64() > b.reactionDelay
}
