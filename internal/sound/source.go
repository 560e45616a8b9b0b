package sound

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
)

// ErrNotReady is returned when samples arrive before the capture permission
// has been granted.
var ErrNotReady = errors.New("sound: capture not ready")

// Source provides the most recent intensity reading.
// Poll must never block; sources without fresh data return their last value.
type Source interface {
	Poll() float64
}

// Silence is a Source that always reports zero.
type Silence struct{}

// Poll returns 0.
func (Silence) Poll() float64 { return 0 }

// Latest holds the most recent reading pushed by a capture goroutine.
// Store and Poll are safe to call concurrently.
type Latest struct {
	bits atomic.Uint64
}

// Store publishes a new reading.
func (l *Latest) Store(v float64) {
	l.bits.Store(math.Float64bits(v))
}

// Poll returns the most recently stored reading (0 before the first Store).
func (l *Latest) Poll() float64 {
	return math.Float64frombits(l.bits.Load())
}

// Pulse is a synthetic source for keyboards: Kick jumps the level to Peak and
// every Poll decays it by Decay until it reaches zero.
type Pulse struct {
	Peak  float64
	Decay float64

	mu    sync.Mutex
	level float64
}

// NewPulse creates a pulse source.
func NewPulse(peak, decay float64) *Pulse {
	return &Pulse{Peak: peak, Decay: decay}
}

// Kick raises the level to Peak.
func (p *Pulse) Kick() {
	p.mu.Lock()
	p.level = p.Peak
	p.mu.Unlock()
}

// Poll returns the current level and decays it for the next poll.
func (p *Pulse) Poll() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.level
	p.level = math.Max(0, p.level-p.Decay)
	return v
}

// GateState is the capture lifecycle as seen by the simulation.
type GateState int32

const (
	AwaitingPermission GateState = iota
	Ready
)

// String returns a human-readable name for the state.
func (s GateState) String() string {
	if s == Ready {
		return "ready"
	}
	return "awaiting-permission"
}

// Gate wraps a Latest and hides every reading until capture is Ready, so the
// simulation only ever sees samples from a granted microphone.
type Gate struct {
	state  atomic.Int32
	latest Latest
}

// NewGate creates a gate in the AwaitingPermission state.
func NewGate() *Gate {
	return &Gate{}
}

// Grant moves the gate to Ready.
func (g *Gate) Grant() {
	g.state.Store(int32(Ready))
}

// Revoke moves the gate back to AwaitingPermission and zeroes the reading.
func (g *Gate) Revoke() {
	g.state.Store(int32(AwaitingPermission))
	g.latest.Store(0)
}

// State returns the current lifecycle state.
func (g *Gate) State() GateState {
	return GateState(g.state.Load())
}

// Store publishes a reading. Readings before Grant are rejected.
func (g *Gate) Store(v float64) error {
	if g.State() != Ready {
		return ErrNotReady
	}
	g.latest.Store(v)
	return nil
}

// Poll returns the latest reading, or 0 while awaiting permission.
func (g *Gate) Poll() float64 {
	if g.State() != Ready {
		return 0
	}
	return g.latest.Poll()
}

// Max combines sources by reporting the loudest of them.
type Max []Source

// Poll polls every source and returns the largest reading.
func (m Max) Poll() float64 {
	var v float64
	for _, s := range m {
		if r := s.Poll(); r > v {
			v = r
		}
	}
	return v
}
