// Package voice adapts a sim.Session to the registry.Game interface so the
// terminal and SSH hosts can run the voice-controlled games. Variants only
// supply their id, title and scene drawing.
package voice

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/sim"
	"github.com/vovakirdan/voice-arcade/internal/sound"
)

// Settings are the per-variant overrides set from the CLI before a game is created.
type Settings struct {
	ConfigPath string
	Preset     config.DifficultyPreset
	Threshold  float64 // 0 keeps the config's threshold
	Logger     *log.Logger
}

// SetDifficultyPreset parses a preset name; unknown names keep the config default.
func (s *Settings) SetDifficultyPreset(name string) {
	preset, err := config.ParsePreset(name)
	if err != nil {
		preset = ""
	}
	s.Preset = preset
}

// Load resolves the config for a variant with the overrides applied.
func (s *Settings) Load(gameID string) (config.GameConfig, error) {
	cfg, err := config.Load(gameID, s.ConfigPath)
	if err != nil {
		return config.GameConfig{}, err
	}
	config.ApplyPreset(&cfg, s.Preset)
	if s.Threshold > 0 {
		cfg.Input.Threshold = s.Threshold
	}
	return cfg, nil
}

// DrawFunc draws the world of one snapshot. The screen is pre-cleared and
// the HUD is drawn on top afterwards.
type DrawFunc func(dst *core.Screen, snap sim.Snapshot, vp Viewport)

// Game runs one variant through a simulation session.
type Game struct {
	id       string
	title    string
	settings *Settings
	draw     DrawFunc

	cfg     config.GameConfig
	session *sim.Session
	sampler sound.Sampler
	snap    sim.Snapshot
	level   float64
	paused  bool
	logger  *log.Logger
}

// New creates an adapter for a variant. settings may be shared and changed
// until Reset is first called.
func New(id, title string, settings *Settings, draw DrawFunc) *Game {
	if settings == nil {
		settings = &Settings{}
	}
	return &Game{
		id:       id,
		title:    title,
		settings: settings,
		draw:     draw,
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// StepRate returns the simulation ticks per second.
func (g *Game) StepRate() int {
	if g.session == nil {
		return config.GameConfig{}.StepsPerSecond()
	}
	return g.cfg.StepsPerSecond()
}

// Reset builds the session on first use. Later calls reseed and reset it,
// so a started game restarts straight into a running state.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.paused = false
	g.level = 0
	if g.session != nil {
		g.session.Reseed(rt.Seed)
		g.session.Reset()
		g.snap = g.session.Snapshot()
		return
	}

	g.logger = g.settings.Logger
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	cfg, err := g.settings.Load(g.id)
	if err != nil {
		g.logger.Warn("falling back to default config", "game", g.id, "error", err)
		cfg, _ = config.Default(g.id)
	}

	session, err := sim.New(cfg, rt.Seed, sim.WithLogger(g.logger))
	if err != nil {
		// Hardcoded defaults always validate.
		panic(fmt.Sprintf("voice: default %s config rejected: %v", g.id, err))
	}

	g.cfg = cfg
	g.sampler = sound.NewSampler(cfg.Input.Threshold, cfg.Input.MaxIntensity)
	g.session = session
	g.snap = session.Snapshot()
}

// Step advances the game by one tick. An idle game starts on the first
// shout or loud sample.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{}
	}

	g.level = g.sampler.Level(in.Intensity)

	switch g.session.Phase() {
	case sim.PhaseIdle:
		if !in.Has(core.ActionShout) && !g.sampler.Sample(in.Intensity) {
			return core.StepResult{State: g.State()}
		}
		_ = g.session.Start()
	case sim.PhaseGameOver:
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.snap = g.session.Tick(in.Intensity)
	return core.StepResult{State: g.State(), Triggered: g.snap.Triggered}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.snap.Score,
		GameOver: g.snap.Phase == sim.PhaseGameOver,
		Paused:   g.paused,
		Waiting:  g.snap.Phase == sim.PhaseIdle,
		Level:    sound.MeterFraction(g.level * 255),
	}
}

// Snapshot returns the latest simulation snapshot.
func (g *Game) Snapshot() sim.Snapshot {
	return g.snap
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}

	vp := NewViewport(g.snap.World, dst.Width(), dst.Height())
	if g.draw != nil {
		g.draw(dst, g.snap, vp)
	}
	g.drawHUD(dst)
}

func (g *Game) drawHUD(dst *core.Screen) {
	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d ", g.snap.Score), core.ColorBrightWhite)
	drawMeter(dst, g.State().Level)

	switch {
	case g.snap.Phase == sim.PhaseIdle:
		dst.DrawMessage(g.title, "Shout (or press Space) to start")
	case g.snap.Phase == sim.PhaseGameOver:
		dst.DrawMessage("GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.snap.Score))
	case g.paused:
		dst.DrawMessage("PAUSED", "Press P to resume")
	}
}

// drawMeter draws a vertical loudness bar along the right edge.
func drawMeter(dst *core.Screen, level float64) {
	h := dst.Height() - 2
	if h <= 0 || dst.Width() < 2 {
		return
	}
	x := dst.Width() - 1
	filled := int(level*float64(h) + 0.5)
	for i := 0; i < h; i++ {
		y := dst.Height() - 1 - i
		if i < filled {
			dst.SetColored(x, y, '█', core.ColorRed)
		} else {
			dst.SetColored(x, y, '│', core.ColorGray)
		}
	}
}
