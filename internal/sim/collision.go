package sim

import (
	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/core"
)

// Cause records what ended a run.
type Cause uint8

const (
	CauseNone    Cause = iota
	CauseCeiling       // flew off the top of the world
	CauseFloor         // hit the ground line
	CauseFell          // dropped below the world with nothing underneath
	CausePipe          // touched a pipe outside its gap
)

// String returns a human-readable name for the cause.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseCeiling:
		return "ceiling"
	case CauseFloor:
		return "floor"
	case CauseFell:
		return "fell"
	case CausePipe:
		return "pipe"
	default:
		return "unknown"
	}
}

// MarshalText encodes the cause as its name.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Contact is the result of one collision pass.
type Contact struct {
	GameOver bool
	Cause    Cause
	Landed   []uint64 // platforms landed on for the first time this tick
}

// HitsPipe reports whether the entity touches the solid part of a pipe:
// it overlaps the pipe's columns and pokes out of the gap above or below.
func HitsPipe(e Entity, p Obstacle) bool {
	if !core.SpanOverlaps(e.X-e.Radius, e.X+e.Radius, p.X, p.Right()) {
		return false
	}
	return e.Y-e.Radius < p.Y || e.Y+e.Radius > p.Bottom()
}

// Resolver applies collision rules for one game variant.
type Resolver struct {
	cfg config.GameConfig
}

// NewResolver creates a resolver for the config's variant.
func NewResolver(cfg config.GameConfig) Resolver {
	return Resolver{cfg: cfg}
}

// Resolve checks bounds first, then obstacles in spawn order, and stops at
// the first terminal condition. prevY is the entity's y before this tick's
// integration. land is called for every platform contact from above and
// reports whether that platform had never been landed on before.
func (r Resolver) Resolve(e *Entity, prevY float64, obstacles []Obstacle, land func(id uint64) bool) Contact {
	if r.cfg.Variant == config.VariantRunner {
		return r.resolveRunner(e, prevY, obstacles, land)
	}
	return r.resolveFlappy(e, obstacles)
}

// resolveFlappy treats every contact as fatal.
func (r Resolver) resolveFlappy(e *Entity, obstacles []Obstacle) Contact {
	if e.Y-e.Radius < 0 {
		return Contact{GameOver: true, Cause: CauseCeiling}
	}
	if e.Y+e.Radius > r.cfg.FloorY() {
		return Contact{GameOver: true, Cause: CauseFloor}
	}

	for _, p := range obstacles {
		if HitsPipe(*e, p) {
			return Contact{GameOver: true, Cause: CausePipe}
		}
	}
	return Contact{}
}

// resolveRunner lands, head-bumps or side-blocks the entity against
// platforms. Only falling out of the world ends the run.
func (r Resolver) resolveRunner(e *Entity, prevY float64, obstacles []Obstacle, land func(id uint64) bool) Contact {
	w := r.cfg.World
	resting := !e.Airborne
	e.Airborne = true

	// Ceiling blocks, it does not kill.
	if e.Y-e.Radius < 0 {
		e.Y = e.Radius
		if e.VY < 0 {
			e.VY = 0
		}
	}

	// Starting ground strip.
	floor := r.cfg.FloorY()
	if w.GroundSpan > 0 && core.SpanOverlaps(e.X-e.Radius, e.X+e.Radius, 0, w.GroundSpan) &&
		e.Y+e.Radius > floor && prevY <= floor {
		e.Y = floor - e.Radius
		e.VY = 0
		e.Airborne = false
	}

	if e.Y-e.Radius > w.Height && !resting {
		return Contact{GameOver: true, Cause: CauseFell}
	}

	var contact Contact
	for _, p := range obstacles {
		if !e.Bounds().Intersects(p.Box()) {
			continue
		}

		switch {
		case e.VY > 0 && prevY <= p.Y:
			// Descending onto the top.
			e.Y = p.Y - e.Radius
			e.VY = 0
			e.Airborne = false
			if land != nil && land(p.ID) {
				contact.Landed = append(contact.Landed, p.ID)
			}
		case e.VY < 0 && prevY >= p.Bottom():
			// Head bump from below.
			e.Y = p.Bottom() + e.Radius
			e.VY = 0
		case e.VX > 0:
			e.X = p.X - e.Radius
		case e.VX < 0:
			e.X = p.Right() + e.Radius
		}
	}
	return contact
}
