package sim

import (
	"math/rand"

	"github.com/vovakirdan/voice-arcade/internal/config"
)

// Field maintains the rolling window of obstacles around the visible region.
// Obstacles are kept in spawn order, which is also increasing creation x.
type Field struct {
	cfg       config.GameConfig
	rng       *rand.Rand
	obstacles []Obstacle
	nextID    uint64
	origin    float64 // where the first obstacle goes when the field is empty

	// Current pipe geometry; the difficulty manager shrinks these over time.
	gap     float64
	spacing float64
}

// NewField creates an empty field with the given RNG seed.
func NewField(cfg config.GameConfig, seed int64) *Field {
	f := &Field{
		cfg:       cfg,
		obstacles: make([]Obstacle, 0, 8),
	}
	f.Reset(seed)
	return f
}

// Reset clears all obstacles, restarts identity numbering and reseeds the RNG.
func (f *Field) Reset(seed int64) {
	f.obstacles = f.obstacles[:0]
	f.rng = rand.New(rand.NewSource(seed))
	f.nextID = 0
	f.origin = f.cfg.World.Width
	f.gap = f.cfg.Pipes.Gap
	f.spacing = f.cfg.Pipes.Spacing
	if f.cfg.Variant == config.VariantRunner {
		f.spacing = f.cfg.Platforms.Spacing
	}
}

// Tune sets the pipe gap and spacing used by future spawns.
func (f *Field) Tune(gap, spacing float64) {
	if gap > 0 {
		f.gap = gap
	}
	if spacing > 0 {
		f.spacing = spacing
	}
}

// Obstacles returns the live obstacles in spawn order.
// The slice is owned by the field and must not be modified.
func (f *Field) Obstacles() []Obstacle {
	return f.obstacles
}

// Len returns the number of live obstacles.
func (f *Field) Len() int {
	return len(f.obstacles)
}

// Seed places the initial obstacles, the first one at startX.
func (f *Field) Seed(startX float64, count int) {
	f.origin = startX
	for i := 0; i < count; i++ {
		f.Spawn()
	}
}

// Spawn appends one obstacle at the trailing spawn point and returns it.
// Placement is drawn from the field's RNG, so a given seed always produces
// the same sequence.
func (f *Field) Spawn() Obstacle {
	x := f.origin
	if n := len(f.obstacles); n > 0 {
		x = f.obstacles[n-1].origin() + f.step()
	}

	f.nextID++
	var o Obstacle
	switch f.cfg.Variant {
	case config.VariantRunner:
		o = f.platformAt(x)
	default:
		o = f.pipeAt(x)
	}
	o.ID = f.nextID

	f.obstacles = append(f.obstacles, o)
	return o
}

// step is the horizontal distance between consecutive spawn points.
func (f *Field) step() float64 {
	if f.cfg.Variant == config.VariantRunner {
		return f.spacing + f.rng.Float64()*f.cfg.Platforms.Jitter
	}
	return f.spacing
}

func (f *Field) pipeAt(x float64) Obstacle {
	margin := f.cfg.Pipes.Margin
	band := f.cfg.FloorY() - f.gap - 2*margin
	if band < 0 {
		band = 0 // Edge case for tuned gaps larger than the world
	}
	return Obstacle{
		Kind: KindPipe,
		X:    x,
		Y:    margin + f.rng.Float64()*band,
		W:    f.cfg.Pipes.Width,
		H:    f.gap,
	}
}

func (f *Field) platformAt(x float64) Obstacle {
	pc := f.cfg.Platforms
	rise := pc.MinRise + f.rng.Float64()*(pc.MaxRise-pc.MinRise)
	o := Obstacle{
		Kind: KindPlatform,
		X:    x,
		Y:    f.cfg.FloorY() - pc.Height - rise,
		W:    pc.Width,
		H:    pc.Height,
	}

	if pc.MovingChance > 0 && f.rng.Float64() < pc.MovingChance {
		dir := 1.0
		if f.rng.Intn(2) == 0 {
			dir = -1
		}
		o.Motion = Motion{Dir: dir, Range: pc.MoveRange, Speed: pc.MoveSpeed, AnchorX: x}
	}
	return o
}

// Advance scrolls every obstacle left by dx (world moves toward the entity).
func (f *Field) Advance(dx float64) {
	for i := range f.obstacles {
		f.obstacles[i].X -= dx
		f.obstacles[i].Motion.AnchorX -= dx
	}
	f.origin -= dx
}

// Animate steps moving platforms along their oscillation.
func (f *Field) Animate() {
	for i := range f.obstacles {
		f.obstacles[i].oscillate()
	}
}

// Prune removes obstacles whose trailing edge is at or behind cameraLeft.
// Returns the number removed.
func (f *Field) Prune(cameraLeft float64) int {
	valid := f.obstacles[:0]
	for _, o := range f.obstacles {
		if o.Right() > cameraLeft {
			valid = append(valid, o)
		}
	}
	removed := len(f.obstacles) - len(valid)
	f.obstacles = valid
	return removed
}

// EnsureAhead spawns obstacles until the furthest one starts at or beyond
// cameraLeft + look-ahead. An empty field restarts one screen past the camera.
// Returns the number spawned.
func (f *Field) EnsureAhead(cameraLeft float64) int {
	edge := cameraLeft + f.cfg.World.LookAhead
	if len(f.obstacles) == 0 {
		f.origin = cameraLeft + f.cfg.World.Width
	}

	spawned := 0
	for len(f.obstacles) == 0 || f.obstacles[len(f.obstacles)-1].origin() < edge {
		f.Spawn()
		spawned++
	}
	return spawned
}
