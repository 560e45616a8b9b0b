package sim

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/sound"
)

// ErrInvalidTransition is returned for lifecycle calls the phase machine does not allow.
var ErrInvalidTransition = errors.New("sim: invalid phase transition")

// Phase is the session lifecycle: Idle -> Running -> GameOver -> (Reset) -> Running.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase as its name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for invariant repairs and run results.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGameOverHook registers fn to receive the final score whenever a run ends.
func WithGameOverHook(fn func(score int)) Option {
	return func(s *Session) {
		if fn != nil {
			s.onGameOver = append(s.onGameOver, fn)
		}
	}
}

// Session owns all simulation state for one player and advances it one
// fixed tick at a time. It is not safe for concurrent use: hosts drive it
// from a single goroutine and share state through Snapshot values.
type Session struct {
	cfg        config.GameConfig
	seed       int64
	sampler    sound.Sampler
	body       Body
	resolver   Resolver
	difficulty *config.DifficultyManager
	field      *Field
	score      *Tracker

	entity    Entity
	phase     Phase
	started   bool
	tick      uint64
	cameraX   float64
	startX    float64
	triggered bool
	level     float64
	cause     Cause
	heals     int

	logger     *log.Logger
	onGameOver []func(score int)
}

// New validates cfg and creates a session seeded for deterministic play.
// The session starts Idle with its initial obstacles already placed.
func New(cfg config.GameConfig, seed int64, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Session{
		cfg:        cfg,
		seed:       seed,
		sampler:    sound.NewSampler(cfg.Input.Threshold, cfg.Input.MaxIntensity),
		body:       NewBody(cfg.Physics),
		resolver:   NewResolver(cfg),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		field:      NewField(cfg, seed),
		score:      NewTracker(cfg.Scoring),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Reset()
	return s, nil
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.GameConfig {
	return s.cfg
}

// Reseed changes the seed used by the next Reset.
func (s *Session) Reseed(seed int64) {
	s.seed = seed
}

// Reset reinitialises every piece of state and places the initial obstacles.
// A session that was never started returns to Idle; one that was started
// (the host has passed its capture gate) goes straight back to Running.
func (s *Session) Reset() {
	w := s.cfg.World
	s.tick = 0
	s.cameraX = 0
	s.triggered = false
	s.level = 0
	s.cause = CauseNone
	s.heals = 0
	s.score.Reset()

	s.entity = Entity{
		X:        s.cfg.Player.X,
		Y:        w.Height / 2,
		Radius:   s.cfg.Player.Radius,
		Airborne: true,
	}
	s.startX = s.entity.X

	s.field.Reset(s.seed)
	if s.cfg.Variant == config.VariantRunner {
		s.entity.VX = s.cfg.Physics.ScrollSpeed
		s.cameraX = s.entity.X - w.Width/2
		s.field.Seed(0, s.cfg.Platforms.Initial)
	} else {
		s.field.Seed(w.Width, s.cfg.Pipes.Initial)
	}
	s.field.EnsureAhead(s.cameraX)

	s.phase = PhaseIdle
	if s.started {
		s.phase = PhaseRunning
	}
}

// Start moves an Idle session to Running. Starting a running session is a
// no-op; a finished session needs Reset first.
func (s *Session) Start() error {
	switch s.phase {
	case PhaseIdle:
		s.phase = PhaseRunning
		s.started = true
		return nil
	case PhaseRunning:
		return nil
	default:
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.phase)
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// IsGameOver reports whether the current run has ended.
func (s *Session) IsGameOver() bool {
	return s.phase == PhaseGameOver
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score.Score()
}

// Tick advances a running session by one fixed step using the given sound
// sample and returns the resulting snapshot. Outside Running it changes nothing.
func (s *Session) Tick(sample float64) Snapshot {
	if s.phase != PhaseRunning {
		return s.Snapshot()
	}
	s.tick++

	// Input
	s.triggered = s.sampler.Sample(sample)
	s.level = s.sampler.Level(sample)

	// Physics
	speed := s.difficulty.Speed(s.cfg.Physics.ScrollSpeed, s.score.Score(), int(s.tick))
	if s.cfg.Variant == config.VariantRunner {
		s.entity.VX = speed
	}
	prevY := s.entity.Y
	s.body.Step(&s.entity, s.triggered)

	// Obstacles
	s.advanceWorld(speed)

	// Collisions
	contact := s.resolver.Resolve(&s.entity, prevY, s.field.Obstacles(), s.score.Land)

	// Score
	if s.cfg.Variant == config.VariantRunner {
		s.score.TravelTo(s.entity.X - s.startX)
	} else {
		s.score.Travel(speed)
	}

	if contact.GameOver {
		s.finish(contact.Cause)
	}
	return s.Snapshot()
}

// advanceWorld scrolls or animates obstacles, prunes the ones behind the
// camera and refills the look-ahead window.
func (s *Session) advanceWorld(speed float64) {
	if s.cfg.Variant == config.VariantRunner {
		s.cameraX = s.entity.X - s.cfg.World.Width/2
		s.field.Animate()
	} else {
		score, ticks := s.score.Score(), int(s.tick)
		s.field.Tune(
			s.difficulty.GapSize(s.cfg.Pipes.Gap, score, ticks),
			s.difficulty.Spacing(s.cfg.Pipes.Spacing, score, ticks),
		)
		s.field.Advance(speed)
	}

	s.field.Prune(s.cameraX)
	if s.field.Len() == 0 {
		s.heals++
		s.logger.Warn("obstacle field empty while running, respawning",
			"tick", s.tick, "camera", s.cameraX, "heals", s.heals)
	}
	s.field.EnsureAhead(s.cameraX)
}

func (s *Session) finish(cause Cause) {
	s.phase = PhaseGameOver
	s.cause = cause
	score := s.score.Score()
	s.logger.Debug("run ended", "variant", s.cfg.Variant, "cause", cause, "score", score, "tick", s.tick)
	for _, fn := range s.onGameOver {
		fn(score)
	}
}

// Snapshot returns an immutable view of the current state.
func (s *Session) Snapshot() Snapshot {
	obstacles := s.field.Obstacles()
	views := make([]ObstacleView, len(obstacles))
	for i, o := range obstacles {
		views[i] = ObstacleView{
			ID:     o.ID,
			Kind:   o.Kind,
			X:      o.X,
			Y:      o.Y,
			W:      o.W,
			H:      o.H,
			Moving: o.Motion.Moving(),
		}
	}

	e := s.entity
	w := s.cfg.World
	return Snapshot{
		Tick:    s.tick,
		Phase:   s.phase,
		Variant: s.cfg.Variant,
		World: WorldView{
			Width:        w.Width,
			Height:       w.Height,
			GroundHeight: w.GroundHeight,
			GroundSpan:   w.GroundSpan,
		},
		CameraX: s.cameraX,
		Entity: EntityView{
			X: e.X, Y: e.Y, VX: e.VX, VY: e.VY,
			Radius:   e.Radius,
			Airborne: e.Airborne,
		},
		Obstacles: views,
		Score:     s.score.Score(),
		Distance:  s.score.Distance(),
		Triggered: s.triggered,
		Level:     s.level,
		Cause:     s.cause,
		Heals:     s.heals,
	}
}
