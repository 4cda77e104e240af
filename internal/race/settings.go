package race

import (
	"github.com/vovakirdan/tui-parkour/internal/ai"
	"github.com/vovakirdan/tui-parkour/internal/config"
	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/entity"
	"github.com/vovakirdan/tui-parkour/internal/level"
)

// Settings holds every number the engine needs.
type Settings struct {
	FixedStep        float64
	MaxFrameDelta    float64
	Countdown        float64
	Gravity          float64
	TerminalVelocity float64
	Bots             int
	BotSkillOffset   float64
	BaseReward       int
	Multipliers      []float64
	Movement         entity.Movement
	AI               ai.Params
	Level            level.Params
	Viewport         core.Vec2
	CameraSmoothing  float64
	VisibleMargin    float64
}

// DefaultSettings returns settings built from the default configuration.
func DefaultSettings() Settings {
	return SettingsFrom(config.DefaultRunnerConfig())
}

// SettingsFrom converts a loaded configuration into engine settings.
func SettingsFrom(cfg config.Runner) Settings {
	return Settings{
		FixedStep:        cfg.Physics.FixedStep,
		MaxFrameDelta:    cfg.Physics.MaxFrameDelta,
		Countdown:        cfg.Race.Countdown,
		Gravity:          cfg.Physics.Gravity,
		TerminalVelocity: cfg.Physics.TerminalVelocity,
		Bots:             cfg.AI.Bots,
		BotSkillOffset:   cfg.AI.SkillOffset,
		BaseReward:       cfg.Race.BaseReward,
		Multipliers:      append([]float64(nil), cfg.Race.PositionMultipliers...),
		Movement: entity.Movement{
			RunSpeed:    cfg.Player.RunSpeed,
			JumpForce:   cfg.Player.JumpForce,
			ClimbSpeed:  cfg.Player.ClimbSpeed,
			SlideSpeed:  cfg.Player.SlideSpeed,
			Width:       cfg.Player.Width,
			Height:      cfg.Player.Height,
			SlideHeight: cfg.Player.SlideHeight,
		},
		AI: ai.Params{
			Lookahead: cfg.AI.Lookahead,
			Interval:  cfg.AI.DecisionInterval,
		},
		Level: level.Params{
			BaseLength:     cfg.Level.BaseLength,
			LengthStep:     cfg.Level.LengthStep,
			GroundY:        cfg.Level.GroundY,
			PlatformHeight: cfg.Level.PlatformHeight,
			SpawnX:         cfg.Level.SpawnX,
			SpawnHeight:    cfg.Player.Height,

			MovingPlatforms: cfg.Level.MovingPlatforms,
		},
		Viewport:        core.V(cfg.Camera.ViewportWidth, cfg.Camera.ViewportHeight),
		CameraSmoothing: cfg.Camera.Smoothing,
		VisibleMargin:   cfg.Camera.VisibleMargin,
	}
}
