// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid game config")

// Variant selects the obstacle family and collision rules of a game.
type Variant string

const (
	VariantFlappy Variant = "flappy" // scrolling gap pipes, any contact ends the run
	VariantRunner Variant = "runner" // side-scrolling platforms you land on
)

// JumpMode controls whether a trigger is honoured while already airborne.
type JumpMode string

const (
	JumpAlways   JumpMode = "always"   // every trigger resets vertical velocity
	JumpGrounded JumpMode = "grounded" // one jump until the entity lands again
)

// ScoreMode selects how the score is derived.
type ScoreMode string

const (
	ScoreDistance ScoreMode = "distance" // floor(distance / unit)
	ScoreLandings ScoreMode = "landings" // count of distinct platforms landed on
)

// GameConfig contains all configuration for one voice-controlled game.
// Distances are world units; velocities are world units per tick.
type GameConfig struct {
	Variant    Variant          `yaml:"variant"`
	World      WorldConfig      `yaml:"world"`
	Input      InputConfig      `yaml:"input"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Pipes      PipeConfig       `yaml:"pipes"`
	Platforms  PlatformConfig   `yaml:"platforms"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Timing     TimingConfig     `yaml:"timing"`
}

// WorldConfig defines the playfield.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
	GroundSpan   float64 `yaml:"ground_span"` // runner: length of the starting ground strip
	LookAhead    float64 `yaml:"look_ahead"`  // obstacles must exist at least this far past the camera
}

// InputConfig defines how sound intensity becomes a trigger.
type InputConfig struct {
	Threshold    float64 `yaml:"threshold"`
	MaxIntensity float64 `yaml:"max_intensity"` // 255 for analyser byte bins, 1 for normalized feeds
}

// PhysicsConfig defines physics parameters.
type PhysicsConfig struct {
	Gravity      float64  `yaml:"gravity"`
	JumpImpulse  float64  `yaml:"jump_impulse"`
	MaxFallSpeed float64  `yaml:"max_fall_speed"` // 0 disables the cap
	ScrollSpeed  float64  `yaml:"scroll_speed"`   // pipes move left (flappy) or entity moves right (runner)
	JumpMode     JumpMode `yaml:"jump_mode"`
}

// PlayerConfig defines the controlled entity.
type PlayerConfig struct {
	X      float64 `yaml:"x"` // flappy: fixed column; runner: start position
	Radius float64 `yaml:"radius"`
}

// PipeConfig defines gap pipes (flappy variant).
type PipeConfig struct {
	Width   float64 `yaml:"width"`
	Gap     float64 `yaml:"gap"`
	Spacing float64 `yaml:"spacing"`
	Margin  float64 `yaml:"margin"` // minimum distance between a gap and the world edges
	Initial int     `yaml:"initial"`
}

// PlatformConfig defines landing platforms (runner variant).
type PlatformConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Spacing      float64 `yaml:"spacing"`
	Jitter       float64 `yaml:"jitter"`
	MinRise      float64 `yaml:"min_rise"` // height above the ground line
	MaxRise      float64 `yaml:"max_rise"`
	Initial      int     `yaml:"initial"`
	MovingChance float64 `yaml:"moving_chance"`
	MoveSpeed    float64 `yaml:"move_speed"`
	MoveRange    float64 `yaml:"move_range"`
}

// ScoringConfig defines how the score is derived.
type ScoringConfig struct {
	Mode         ScoreMode `yaml:"mode"`
	DistanceUnit float64   `yaml:"distance_unit"`
}

// TimingConfig defines the fixed simulation step.
type TimingConfig struct {
	StepRate   int `yaml:"step_rate"`    // simulation ticks per second
	MaxCatchUp int `yaml:"max_catch_up"` // max ticks run for one render frame
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Multiplier added to speed at max difficulty
	GapReduction     float64 `yaml:"gap_reduction"`     // Gap size reduction at max difficulty
	SpacingReduction float64 `yaml:"spacing_reduction"` // Spacing reduction at max difficulty
	MinGap           float64 `yaml:"min_gap"`
	MinSpacing       float64 `yaml:"min_spacing"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. Empty means "use the config".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// StepsPerSecond returns the simulation rate, defaulting to 60.
func (c GameConfig) StepsPerSecond() int {
	if c.Timing.StepRate <= 0 {
		return 60
	}
	return c.Timing.StepRate
}

// FloorY returns the y-coordinate of the ground line.
func (c GameConfig) FloorY() float64 {
	return c.World.Height - c.World.GroundHeight
}

// Validate checks that the config describes a playable world.
func (c GameConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return invalid("%s must be positive, got %v", name, v)
		}
		return nil
	}

	if err := positive("world.width", c.World.Width); err != nil {
		return err
	}
	if err := positive("world.height", c.World.Height); err != nil {
		return err
	}
	if c.World.GroundHeight < 0 || c.World.GroundHeight >= c.World.Height {
		return invalid("world.ground_height %v outside [0, %v)", c.World.GroundHeight, c.World.Height)
	}
	if err := positive("player.radius", c.Player.Radius); err != nil {
		return err
	}
	if c.Physics.Gravity < 0 {
		return invalid("physics.gravity must not be negative, got %v", c.Physics.Gravity)
	}
	if c.Physics.JumpImpulse >= 0 {
		return invalid("physics.jump_impulse must be negative (up), got %v", c.Physics.JumpImpulse)
	}
	if c.Physics.ScrollSpeed < 0 {
		return invalid("physics.scroll_speed must not be negative, got %v", c.Physics.ScrollSpeed)
	}
	switch c.Physics.JumpMode {
	case "", JumpAlways, JumpGrounded:
	default:
		return invalid("unknown physics.jump_mode %q", c.Physics.JumpMode)
	}
	if c.Input.Threshold < 0 {
		return invalid("input.threshold must not be negative, got %v", c.Input.Threshold)
	}
	if err := positive("input.max_intensity", c.Input.MaxIntensity); err != nil {
		return err
	}

	switch c.Scoring.Mode {
	case ScoreDistance:
		if err := positive("scoring.distance_unit", c.Scoring.DistanceUnit); err != nil {
			return err
		}
	case ScoreLandings:
	default:
		return invalid("unknown scoring.mode %q", c.Scoring.Mode)
	}

	switch c.Variant {
	case VariantFlappy:
		if err := positive("pipes.width", c.Pipes.Width); err != nil {
			return err
		}
		if err := positive("pipes.gap", c.Pipes.Gap); err != nil {
			return err
		}
		if err := positive("pipes.spacing", c.Pipes.Spacing); err != nil {
			return err
		}
		if c.Pipes.Gap+2*c.Pipes.Margin > c.FloorY() {
			return invalid("pipes.gap %v plus margins does not fit the world", c.Pipes.Gap)
		}
	case VariantRunner:
		if err := positive("platforms.width", c.Platforms.Width); err != nil {
			return err
		}
		if err := positive("platforms.height", c.Platforms.Height); err != nil {
			return err
		}
		if err := positive("platforms.spacing", c.Platforms.Spacing); err != nil {
			return err
		}
		if c.Platforms.Jitter < 0 || c.Platforms.MinRise < 0 || c.Platforms.MaxRise < c.Platforms.MinRise {
			return invalid("platforms jitter/rise range is inconsistent")
		}
		if c.Platforms.MovingChance < 0 || c.Platforms.MovingChance > 1 {
			return invalid("platforms.moving_chance must be within [0, 1], got %v", c.Platforms.MovingChance)
		}
	default:
		return invalid("unknown variant %q", c.Variant)
	}
	return nil
}
