package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	for _, id := range []string{"flappy", "runner"} {
		t.Run(id, func(t *testing.T) {
			var fromYAML GameConfig
			if err := yaml.Unmarshal(GetDefaultYAML(id), &fromYAML); err != nil {
				t.Fatalf("embedded YAML does not parse: %v", err)
			}
			hardcoded, _ := Default(id)
			if !reflect.DeepEqual(fromYAML, hardcoded) {
				t.Errorf("embedded YAML drifted from hardcoded defaults:\nyaml: %+v\ncode: %+v", fromYAML, hardcoded)
			}
			if err := hardcoded.Validate(); err != nil {
				t.Errorf("default config should validate: %v", err)
			}
		})
	}
}

func TestParseOverridesOnlyGivenKeys(t *testing.T) {
	cfg, err := Parse("flappy", []byte("input:\n  threshold: 0.1\n  max_intensity: 1\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Input.Threshold != 0.1 || cfg.Input.MaxIntensity != 1 {
		t.Errorf("input not overridden: %+v", cfg.Input)
	}
	if cfg.Physics.Gravity != 0.1 {
		t.Errorf("untouched keys should keep defaults, gravity = %v", cfg.Physics.Gravity)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: 0.5\n  jump_impulse: -15\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("runner", path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Physics.Gravity != 0.5 || cfg.Physics.JumpImpulse != -15 {
		t.Errorf("custom physics not applied: %+v", cfg.Physics)
	}
	if cfg.Variant != VariantRunner {
		t.Errorf("variant = %q, expected runner", cfg.Variant)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("pong", ""); err == nil {
		t.Error("unknown game should fail")
	}
	if _, err := Load("flappy", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"zero width", func(c *GameConfig) { c.World.Width = 0 }},
		{"positive impulse", func(c *GameConfig) { c.Physics.JumpImpulse = 3 }},
		{"negative gravity", func(c *GameConfig) { c.Physics.Gravity = -1 }},
		{"unknown variant", func(c *GameConfig) { c.Variant = "tetris" }},
		{"unknown jump mode", func(c *GameConfig) { c.Physics.JumpMode = "double" }},
		{"gap too big", func(c *GameConfig) { c.Pipes.Gap = 590 }},
		{"zero distance unit", func(c *GameConfig) { c.Scoring.DistanceUnit = 0 }},
		{"zero max intensity", func(c *GameConfig) { c.Input.MaxIntensity = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultFlappyConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}

	runner := DefaultRunnerConfig()
	runner.Platforms.MaxRise = -1
	if err := runner.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("inverted rise range should fail, got %v", err)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultFlappyConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset not applied: %+v", cfg.Difficulty)
	}

	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	if _, err := ParsePreset("insane"); err == nil {
		t.Error("unknown preset should fail to parse")
	}
}

func TestDifficultyManager(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling: ScalingConfig{
			SpeedMultiplier:  1.0,
			GapReduction:     100,
			SpacingReduction: 100,
			MinGap:           150,
			MinSpacing:       300,
		},
	})

	if got := d.Level(50, 0); got != 0.5 {
		t.Errorf("Level(50) = %v, expected 0.5", got)
	}
	if got := d.Level(1000, 0); got != 1.0 {
		t.Errorf("Level should clamp at 1, got %v", got)
	}
	if got := d.Speed(2, 100, 0); got != 4 {
		t.Errorf("Speed at max = %v, expected 4", got)
	}
	if got := d.GapSize(200, 100, 0); got != 150 {
		t.Errorf("GapSize should floor at min_gap, got %v", got)
	}
	if got := d.Spacing(400, 0, 0); got != 400 {
		t.Errorf("Spacing at level 0 = %v, expected 400", got)
	}

	off := NewDifficultyManager(DifficultyConfig{Progression: ProgressionConfig{Type: "none"}})
	if off.IsEnabled() || off.Speed(3, 999, 999) != 3 {
		t.Error("disabled manager should leave parameters unchanged")
	}
}
