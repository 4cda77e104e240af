package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default race configuration.
func DefaultRunnerConfig() Runner {
	return Runner{
		Physics: RunnerPhysics{
			Gravity:          980,
			TerminalVelocity: 600,
			FixedStep:        1.0 / 60,
			MaxFrameDelta:    0.1,
		},
		Player: RunnerPlayer{
			RunSpeed:    200,
			JumpForce:   -400,
			ClimbSpeed:  150,
			SlideSpeed:  250,
			Width:       20,
			Height:      40,
			SlideHeight: 20,
		},
		AI: RunnerAI{
			Bots:             5,
			Lookahead:        300,
			DecisionInterval: 0.1,
		},
		Level: RunnerLevel{
			BaseLength:     3000,
			LengthStep:     100,
			GroundY:        500,
			PlatformHeight: 50,
			SpawnX:         50,
		},
		Race: RunnerRace{
			Countdown:           3,
			BaseReward:          50,
			PositionMultipliers: []float64{1.0, 0.8, 0.6, 0.4, 0.2, 0.0},
		},
		Camera: RunnerCamera{
			Smoothing:      0.1,
			ViewportWidth:  1280,
			ViewportHeight: 720,
			VisibleMargin:  100,
		},
		Render: RunnerRender{
			TickRate:   60,
			CellWidth:  10,
			CellHeight: 20,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
