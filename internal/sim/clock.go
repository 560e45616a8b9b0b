package sim

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/voice-arcade/internal/sound"
)

// Clock is a fixed-timestep accumulator. Hosts feed it wall-clock time at
// whatever cadence they render, and it answers how many simulation ticks are
// due, so game speed does not depend on frame rate.
type Clock struct {
	step       time.Duration
	maxCatchUp int
	acc        time.Duration
}

// NewClock creates a clock running stepsPerSecond ticks. maxCatchUp bounds
// the ticks returned by a single Advance; leftover time is dropped.
func NewClock(stepsPerSecond, maxCatchUp int) *Clock {
	if stepsPerSecond <= 0 {
		stepsPerSecond = 60
	}
	if maxCatchUp <= 0 {
		maxCatchUp = 1
	}
	return &Clock{
		step:       time.Second / time.Duration(stepsPerSecond),
		maxCatchUp: maxCatchUp,
	}
}

// Step returns the duration of one tick.
func (c *Clock) Step() time.Duration {
	return c.step
}

// Advance adds elapsed time and returns the number of ticks to run now.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		c.acc += elapsed
	}
	n := int(c.acc / c.step)
	if n > c.maxCatchUp {
		n = c.maxCatchUp
		c.acc = 0 // too far behind; skip rather than spiral
		return n
	}
	c.acc -= time.Duration(n) * c.step
	return n
}

// Alpha returns how far the accumulator is into the next tick, in [0, 1).
func (c *Clock) Alpha() float64 {
	return float64(c.acc) / float64(c.step)
}

// Reset drops any accumulated time.
func (c *Clock) Reset() {
	c.acc = 0
}

// Command is a lifecycle request applied between ticks.
type Command uint8

const (
	CmdStart Command = iota + 1
	CmdReset
)

// Driver runs a session from a sample source on a fixed-step clock and
// publishes every resulting snapshot.
type Driver struct {
	session *Session
	clock   *Clock
	source  sound.Source
	pub     *Publisher
}

// NewDriver wires a session to a source. A nil source means silence.
func NewDriver(s *Session, src sound.Source) *Driver {
	if src == nil {
		src = sound.Silence{}
	}
	cfg := s.Config()
	d := &Driver{
		session: s,
		clock:   NewClock(cfg.StepsPerSecond(), cfg.Timing.MaxCatchUp),
		source:  src,
		pub:     &Publisher{},
	}
	d.pub.Publish(s.Snapshot())
	return d
}

// Session returns the driven session. Only the goroutine calling Pump or
// Run may touch it.
func (d *Driver) Session() *Session {
	return d.session
}

// Publisher returns the publisher readers on other goroutines load from.
func (d *Driver) Publisher() *Publisher {
	return d.pub
}

// Pump runs every tick due for elapsed, polling the source once per tick,
// and returns the latest snapshot.
func (d *Driver) Pump(elapsed time.Duration) Snapshot {
	snap := d.session.Snapshot()
	for n := d.clock.Advance(elapsed); n > 0; n-- {
		snap = d.session.Tick(d.source.Poll())
	}
	d.pub.Publish(snap)
	return snap
}

// Apply executes a lifecycle command and publishes the new state.
func (d *Driver) Apply(cmd Command) error {
	switch cmd {
	case CmdStart:
		if err := d.session.Start(); err != nil {
			return err
		}
	case CmdReset:
		d.session.Reset()
		d.clock.Reset()
	}
	d.pub.Publish(d.session.Snapshot())
	return nil
}

// Run drives the session every frame until ctx is done. Commands are only
// applied between ticks. notify, if non-nil, is called after each publish.
func (d *Driver) Run(ctx context.Context, cmds <-chan Command, frame time.Duration, notify func(Snapshot)) error {
	if frame <= 0 {
		frame = d.clock.Step()
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				cmds = nil
				continue
			}
			if err := d.Apply(cmd); err != nil && !errors.Is(err, ErrInvalidTransition) {
				return err
			}
			if notify != nil {
				snap, _ := d.pub.Load()
				notify(snap)
			}
		case now := <-ticker.C:
			snap := d.Pump(now.Sub(last))
			last = now
			if notify != nil {
				notify(snap)
			}
		}
	}
}
