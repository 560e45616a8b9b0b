package sim

import (
	"sync/atomic"

	"github.com/vovakirdan/voice-arcade/internal/config"
)

// EntityView is the renderable part of the entity.
type EntityView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Radius   float64 `json:"radius"`
	Airborne bool    `json:"airborne"`
}

// ObstacleView is the renderable part of an obstacle.
type ObstacleView struct {
	ID     uint64  `json:"id"`
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Moving bool    `json:"moving,omitempty"`
}

// WorldView describes the playfield a snapshot lives in.
type WorldView struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	GroundHeight float64 `json:"ground_height"`
	GroundSpan   float64 `json:"ground_span,omitempty"`
}

// Snapshot is an immutable summary of everything a renderer needs for one
// tick. It shares no memory with the session that produced it.
type Snapshot struct {
	Tick      uint64         `json:"tick"`
	Phase     Phase          `json:"phase"`
	Variant   config.Variant `json:"variant"`
	World     WorldView      `json:"world"`
	CameraX   float64        `json:"camera_x"`
	Entity    EntityView     `json:"entity"`
	Obstacles []ObstacleView `json:"obstacles"`
	Score     int            `json:"score"`
	Distance  float64        `json:"distance"`
	Triggered bool           `json:"triggered"`
	Level     float64        `json:"level"` // last sample as a fraction of the capture range
	Cause     Cause          `json:"cause"`
	Heals     int            `json:"heals,omitempty"`
}

// Publisher hands snapshots from the simulation goroutine to readers on
// other goroutines. Readers always see a complete snapshot.
type Publisher struct {
	latest atomic.Pointer[Snapshot]
}

// Publish makes snap the latest snapshot.
func (p *Publisher) Publish(snap Snapshot) {
	p.latest.Store(&snap)
}

// Load returns the latest snapshot, or false if none was published yet.
func (p *Publisher) Load() (Snapshot, bool) {
	s := p.latest.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}
