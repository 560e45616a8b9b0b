package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultFlappyConfig returns the default Voice Flappy configuration.
func DefaultFlappyConfig() GameConfig {
	return GameConfig{
		Variant: VariantFlappy,
		World: WorldConfig{
			Width:     800,
			Height:    600,
			LookAhead: 400,
		},
		Input: InputConfig{
			Threshold:    40,
			MaxIntensity: 255,
		},
		Physics: PhysicsConfig{
			Gravity:      0.1,
			JumpImpulse:  -3,
			MaxFallSpeed: 10,
			ScrollSpeed:  2,
			JumpMode:     JumpAlways,
		},
		Player: PlayerConfig{
			X:      200,
			Radius: 15,
		},
		Pipes: PipeConfig{
			Width:   80,
			Gap:     200,
			Spacing: 400,
			Margin:  50,
			Initial: 1,
		},
		Scoring: ScoringConfig{
			Mode:         ScoreDistance,
			DistanceUnit: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  1.0,
				GapReduction:     60,
				SpacingReduction: 100,
				MinGap:           120,
				MinSpacing:       250,
			},
		},
		Timing: TimingConfig{
			StepRate:   60,
			MaxCatchUp: 5,
		},
	}
}

// DefaultRunnerConfig returns the default Voice Runner configuration.
func DefaultRunnerConfig() GameConfig {
	return GameConfig{
		Variant: VariantRunner,
		World: WorldConfig{
			Width:        800,
			Height:       600,
			GroundHeight: 50,
			GroundSpan:   800,
			LookAhead:    800,
		},
		Input: InputConfig{
			Threshold:    90,
			MaxIntensity: 255,
		},
		Physics: PhysicsConfig{
			Gravity:      0.05,
			JumpImpulse:  -2,
			MaxFallSpeed: 10,
			ScrollSpeed:  3,
			JumpMode:     JumpGrounded,
		},
		Player: PlayerConfig{
			X:      400,
			Radius: 15,
		},
		Platforms: PlatformConfig{
			Width:        100,
			Height:       20,
			Spacing:      300,
			Jitter:       150,
			MaxRise:      150,
			Initial:      4,
			MovingChance: 0.25,
			MoveSpeed:    2,
			MoveRange:    100,
		},
		Scoring: ScoringConfig{
			Mode: ScoreLandings,
		},
		Difficulty: DifficultyConfig{
			Progression: ProgressionConfig{Type: "none"},
		},
		Timing: TimingConfig{
			StepRate:   60,
			MaxCatchUp: 5,
		},
	}
}

// Default returns the hardcoded default config for a game ID.
func Default(gameID string) (GameConfig, bool) {
	switch gameID {
	case "flappy":
		return DefaultFlappyConfig(), true
	case "runner":
		return DefaultRunnerConfig(), true
	default:
		return GameConfig{}, false
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "flappy":
		return defaultFlappyYAML
	case "runner":
		return defaultRunnerYAML
	default:
		return nil
	}
}
