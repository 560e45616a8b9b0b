// Package flappy implements Voice Flappy: the bird flaps whenever the
// microphone is loud enough and must fly through the gaps between pipes.
package flappy

import (
	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/games/voice"
	"github.com/vovakirdan/voice-arcade/internal/registry"
	"github.com/vovakirdan/voice-arcade/internal/sim"
)

// Visual characters for rendering
const (
	BirdChar      = '●'
	BeakChar      = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▀'
	PipeCapBottom = '▄'
	GroundChar    = '═'
)

// ID is the registry and score-table identifier.
const ID = "flappy"

var settings voice.Settings

// Settings returns the overrides applied to every new Voice Flappy game.
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

// New creates a new Voice Flappy game instance.
func New() *voice.Game {
	return voice.New(ID, "Voice Flappy", &settings, Draw)
}

// Draw renders pipes, ground and bird.
func Draw(dst *core.Screen, snap sim.Snapshot, vp voice.Viewport) {
	floor := vp.Y(snap.World.Height - snap.World.GroundHeight)
	if floor >= vp.Rows {
		floor = vp.Rows - 1
	}
	dst.DrawHLine(0, floor, vp.Cols, GroundChar, core.ColorYellow)

	for _, p := range snap.Obstacles {
		drawPipe(dst, p, vp, floor)
	}

	x, y := vp.X(snap.Entity.X), vp.Y(snap.Entity.Y)
	dst.SetColored(x, y, BirdChar, core.ColorYellow)
	dst.SetColored(x+1, y, BeakChar, core.ColorRed)
}

func drawPipe(dst *core.Screen, p sim.ObstacleView, vp voice.Viewport, floor int) {
	r := vp.Rect(p.X, p.Y, p.W, p.H)
	top, bottom := r.Y, r.Bottom()

	for x := r.X; x < r.Right(); x++ {
		if !vp.Visible(x) {
			continue
		}
		for y := 0; y < top; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		for y := bottom; y < floor; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if top > 0 {
			dst.SetColored(x, top-1, PipeCapTop, core.ColorBrightGreen)
		}
		if bottom < floor {
			dst.SetColored(x, bottom, PipeCapBottom, core.ColorBrightGreen)
		}
	}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
