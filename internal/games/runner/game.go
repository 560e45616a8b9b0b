// Package runner implements Voice Runner: the ball rolls right on its own
// and jumps from platform to platform when the microphone is loud enough.
// Every platform landed on for the first time scores a point.
package runner

import (
	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/games/voice"
	"github.com/vovakirdan/voice-arcade/internal/registry"
	"github.com/vovakirdan/voice-arcade/internal/sim"
)

// Visual characters for rendering
const (
	BallChar     = '●'
	PlatformChar = '▆'
	MovingChar   = '▒'
	GroundChar   = '▀'
)

// ID is the registry and score-table identifier.
const ID = "runner"

var settings voice.Settings

// Settings returns the overrides applied to every new Voice Runner game.
func Settings() *voice.Settings {
	return &settings
}

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	settings.ConfigPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	settings.SetDifficultyPreset(preset)
}

// SetThreshold overrides the trigger threshold; 0 keeps the config value.
func SetThreshold(threshold float64) {
	settings.Threshold = threshold
}

// New creates a new Voice Runner game instance.
func New() *voice.Game {
	return voice.New(ID, "Voice Runner", &settings, Draw)
}

// Draw renders the ground strip, platforms and ball relative to the camera.
func Draw(dst *core.Screen, snap sim.Snapshot, vp voice.Viewport) {
	vp = vp.WithCamera(snap.CameraX)

	if span := snap.World.GroundSpan; span > 0 {
		floor := snap.World.Height - snap.World.GroundHeight
		r := vp.Rect(0, floor, span, snap.World.GroundHeight)
		for x := r.X; x < r.Right(); x++ {
			if vp.Visible(x) {
				dst.DrawRect(core.NewRect(x, r.Y, 1, r.H), GroundChar, core.ColorGray)
			}
		}
	}

	for _, p := range snap.Obstacles {
		ch, color := PlatformChar, core.ColorCyan
		if p.Moving {
			ch, color = MovingChar, core.ColorWhite
		}
		r := vp.Rect(p.X, p.Y, p.W, p.H)
		for x := r.X; x < r.Right(); x++ {
			if vp.Visible(x) {
				dst.DrawRect(core.NewRect(x, r.Y, 1, r.H), ch, color)
			}
		}
	}

	dst.SetColored(vp.X(snap.Entity.X), vp.Y(snap.Entity.Y), BallChar, core.ColorRed)
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
