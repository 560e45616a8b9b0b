// Package sim implements the deterministic voice-arcade simulation: physics,
// procedural obstacles, collisions and scoring, advanced one fixed tick at a
// time and observed through immutable snapshots.
package sim

import (
	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/core"
)

// Entity is the controlled bird or ball. Y grows downward.
type Entity struct {
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Airborne bool
}

// Bounds returns the entity's square hitbox.
func (e Entity) Bounds() core.Box {
	return core.BoxAround(e.X, e.Y, e.Radius)
}

// Body integrates gravity and jump impulses for an entity.
type Body struct {
	Gravity      float64
	JumpImpulse  float64
	MaxFallSpeed float64 // 0 disables the cap
	Mode         config.JumpMode
}

// NewBody creates a body from physics config.
func NewBody(cfg config.PhysicsConfig) Body {
	return Body{
		Gravity:      cfg.Gravity,
		JumpImpulse:  cfg.JumpImpulse,
		MaxFallSpeed: cfg.MaxFallSpeed,
		Mode:         cfg.JumpMode,
	}
}

// Step advances the entity by one tick and reports whether a jump fired.
//
// The trigger is applied before gravity, so a jump tick always ends with
// VY == JumpImpulse + Gravity. In JumpGrounded mode a trigger is ignored
// while the entity is airborne.
func (b Body) Step(e *Entity, trigger bool) bool {
	jumped := false
	if trigger && (b.Mode != config.JumpGrounded || !e.Airborne) {
		e.VY = b.JumpImpulse
		e.Airborne = true
		jumped = true
	}

	e.VY += b.Gravity
	if b.MaxFallSpeed > 0 && e.VY > b.MaxFallSpeed {
		e.VY = b.MaxFallSpeed
	}

	e.X += e.VX
	e.Y += e.VY
	return jumped
}
