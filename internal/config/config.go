// Package config provides YAML-based race configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// Runner contains all tunable race settings.
type Runner struct {
	Physics RunnerPhysics `yaml:"physics"`
	Player  RunnerPlayer  `yaml:"player"`
	AI      RunnerAI      `yaml:"ai"`
	Level   RunnerLevel   `yaml:"level"`
	Race    RunnerRace    `yaml:"race"`
	Camera  RunnerCamera  `yaml:"camera"`
	Render  RunnerRender  `yaml:"render"`
}

// RunnerPhysics defines world constants and loop timing.
type RunnerPhysics struct {
	Gravity          float64 `yaml:"gravity"`           // px/s^2
	TerminalVelocity float64 `yaml:"terminal_velocity"` // px/s
	FixedStep        float64 `yaml:"fixed_step"`        // seconds per physics tick
	MaxFrameDelta    float64 `yaml:"max_frame_delta"`   // cap on one frame's elapsed time
}

// RunnerPlayer defines racer movement constants, shared by bots.
type RunnerPlayer struct {
	RunSpeed    float64 `yaml:"run_speed"`
	JumpForce   float64 `yaml:"jump_force"`
	ClimbSpeed  float64 `yaml:"climb_speed"`
	SlideSpeed  float64 `yaml:"slide_speed"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	SlideHeight float64 `yaml:"slide_height"`
}

// RunnerAI defines bot behaviour.
type RunnerAI struct {
	Bots             int     `yaml:"bots"`
	Lookahead        float64 `yaml:"lookahead"`         // px
	DecisionInterval float64 `yaml:"decision_interval"` // seconds
	SkillOffset      float64 `yaml:"skill_offset"`      // added to course difficulty for bots
}

// RunnerLevel defines course geometry.
type RunnerLevel struct {
	BaseLength     float64 `yaml:"base_length"`
	LengthStep     float64 `yaml:"length_step"` // extra length per ten levels
	GroundY        float64 `yaml:"ground_y"`
	PlatformHeight float64 `yaml:"platform_height"`
	SpawnX         float64 `yaml:"spawn_x"`

	MovingPlatforms bool `yaml:"moving_platforms"` // shuttling platforms over straight runs
}

// RunnerRace defines countdown and rewards.
type RunnerRace struct {
	Countdown           float64   `yaml:"countdown"` // seconds
	BaseReward          int       `yaml:"base_reward"`
	PositionMultipliers []float64 `yaml:"position_multipliers"`
}

// RunnerCamera defines the world-space viewport.
type RunnerCamera struct {
	Smoothing      float64 `yaml:"smoothing"`
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	VisibleMargin  float64 `yaml:"visible_margin"`
}

// RunnerRender defines how the terminal maps world pixels to cells.
type RunnerRender struct {
	TickRate   int     `yaml:"tick_rate"`   // frames per second requested from the driver
	CellWidth  float64 `yaml:"cell_width"`  // world px per column
	CellHeight float64 `yaml:"cell_height"` // world px per row
}

// Validate reports settings the race cannot run with.
func (r Runner) Validate() error {
	var errs []error
	if r.Physics.FixedStep <= 0 {
		errs = append(errs, fmt.Errorf("physics.fixed_step must be positive, got %v", r.Physics.FixedStep))
	}
	if r.Physics.MaxFrameDelta <= 0 {
		errs = append(errs, fmt.Errorf("physics.max_frame_delta must be positive, got %v", r.Physics.MaxFrameDelta))
	}
	if r.AI.Bots < 0 {
		errs = append(errs, fmt.Errorf("ai.bots must not be negative, got %d", r.AI.Bots))
	}
	if r.AI.DecisionInterval <= 0 {
		errs = append(errs, fmt.Errorf("ai.decision_interval must be positive, got %v", r.AI.DecisionInterval))
	}
	if r.Race.Countdown < 0 {
		errs = append(errs, fmt.Errorf("race.countdown must not be negative, got %v", r.Race.Countdown))
	}
	if r.Player.Height <= 0 || r.Player.Width <= 0 {
		errs = append(errs, errors.New("player.width and player.height must be positive"))
	}
	if r.Render.CellWidth <= 0 || r.Render.CellHeight <= 0 {
		errs = append(errs, errors.New("render.cell_width and render.cell_height must be positive"))
	}
	return errors.Join(errs...)
}

// DifficultyPreset represents a named bot skill level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// SkillOffsetForPreset returns how much the preset shifts bot difficulty
// relative to the course.
func SkillOffsetForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return -0.3
	case DifficultyHard:
		return 0.3
	default:
		return 0.0
	}
}

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// ApplyRunnerPreset modifies the config based on a difficulty preset.
func ApplyRunnerPreset(cfg *Runner, preset DifficultyPreset) {
	cfg.AI.SkillOffset = SkillOffsetForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.AI.DecisionInterval = 0.15
	case DifficultyHard:
		cfg.AI.DecisionInterval = 0.08
	}
}
