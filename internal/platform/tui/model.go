package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/registry"
	"github.com/vovakirdan/voice-arcade/internal/sim"
	"github.com/vovakirdan/voice-arcade/internal/sound"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

// A keyboard shout jumps to full scale and fades over a few ticks,
// like a short burst of real sound would.
const (
	shoutPeak  = 255
	shoutDecay = 85
)

var meterLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// Option configures a Model.
type Option func(*Model)

// WithPlayer sets the name scores are saved under.
func WithPlayer(name string) Option {
	return func(m *Model) {
		m.player = name
	}
}

// WithLogger sets the logger for score saves and run results.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFeed adds a microphone feed next to the keyboard shout.
func WithFeed(src sound.Source) Option {
	return func(m *Model) {
		if src != nil {
			m.feed = src
		}
	}
}

// Model is the Bubble Tea model for running a voice arcade game.
// Render frames arrive at the runtime tick rate; the game is stepped at its
// own fixed rate through a sim.Clock, polling the sound sources once per step.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	logger     *log.Logger
	keyMapper  *KeyMapper
	clock      *sim.Clock
	pulse      *sound.Pulse
	feed       sound.Source
	source     sound.Source
	meter      progress.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	lastFrame  time.Time
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-1, 1)),
		store:      store,
		config:     cfg,
		player:     storage.DefaultPlayer,
		logger:     log.New(io.Discard),
		keyMapper:  NewKeyMapper(),
		clock:      sim.NewClock(game.StepRate(), 5),
		pulse:      sound.NewPulse(shoutPeak, shoutDecay),
		feed:       sound.Silence{},
		meter:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		inputFrame: core.NewInputFrame(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.source = sound.Max{m.pulse, m.feed}
	m.meter.Width = core.Max(cfg.ScreenW-6, 10)

	// Initialize the game here: Init has a value receiver.
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	return m
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionShout) {
		m.pulse.Kick()
	}

	return m, nil
}

// handleResize processes window resize events.
// World units are independent of the screen, so the run continues.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, core.Max(msg.Height-1, 1))
	m.meter.Width = core.Max(msg.Width-6, 10)
	return m, nil
}

// handleTick runs every simulation step due since the last frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := m.clock.Step()
	if !m.lastFrame.IsZero() {
		elapsed = now.Sub(m.lastFrame)
	}
	m.lastFrame = now

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.clock.Reset()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Actions apply to the first step only; with no step due they wait.
	for n := m.clock.Advance(elapsed); n > 0; n-- {
		m.inputFrame.Intensity = m.source.Poll()
		result := m.game.Step(m.inputFrame)
		m.gameState = result.State
		m.inputFrame.Clear()
	}

	m.saveScore()
	return m, tickCmd(m.config.TickRate)
}

// saveScore records a finished run once.
func (m *Model) saveScore() {
	if !m.gameState.GameOver || m.scoreSaved {
		return
	}
	m.scoreSaved = true
	m.logger.Info("run ended", "game", m.game.ID(), "player", m.player, "score", m.gameState.Score)

	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.player, m.gameState.Score); err != nil {
		// Best-effort save, game continues regardless
		m.logger.Error("could not save score", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the game and the loudness meter below it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + meterLabelStyle.Render(" mic ") + m.meter.ViewAs(m.gameState.Level)
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
