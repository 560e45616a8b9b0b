package sim

import (
	"github.com/vovakirdan/voice-arcade/internal/core"
)

// Kind distinguishes obstacle families.
type Kind uint8

const (
	KindPipe     Kind = iota + 1 // vertical pipe with a passable gap
	KindPlatform                 // solid platform the entity can land on
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPipe:
		return "pipe"
	case KindPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Motion describes a platform oscillating horizontally around an anchor.
// A zero Speed means the obstacle is static.
type Motion struct {
	Dir     float64 // +1 or -1
	Range   float64
	Speed   float64
	AnchorX float64
}

// Moving reports whether the motion does anything.
func (m Motion) Moving() bool {
	return m.Speed > 0 && m.Range > 0
}

// Obstacle is a pipe or platform. For pipes, Y and H describe the gap
// (top and height); the solid parts are everything above and below it.
// For platforms, X/Y/W/H is the solid box.
type Obstacle struct {
	ID     uint64
	Kind   Kind
	X, Y   float64
	W, H   float64
	Motion Motion
}

// Right returns the x-coordinate of the trailing edge.
func (o Obstacle) Right() float64 {
	return o.X + o.W
}

// Bottom returns the bottom of the gap (pipes) or of the box (platforms).
func (o Obstacle) Bottom() float64 {
	return o.Y + o.H
}

// Box returns the obstacle's rectangle in world units.
func (o Obstacle) Box() core.Box {
	return core.NewBox(o.X, o.Y, o.W, o.H)
}

// origin is the creation-time position spacing is measured from.
func (o Obstacle) origin() float64 {
	if o.Motion.Moving() {
		return o.Motion.AnchorX
	}
	return o.X
}

// oscillate moves the obstacle one step and reverses at either bound.
func (o *Obstacle) oscillate() {
	m := &o.Motion
	if !m.Moving() {
		return
	}
	o.X += m.Dir * m.Speed
	lo, hi := m.AnchorX-m.Range, m.AnchorX+m.Range
	switch {
	case o.X <= lo:
		o.X = lo
		m.Dir = 1
	case o.X >= hi:
		o.X = hi
		m.Dir = -1
	}
}
