package voice

import (
	"math"

	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/sim"
)

// Viewport maps world units to screen cells. The last column is left for
// the loudness meter.
type Viewport struct {
	Cols, Rows int
	scaleX     float64
	scaleY     float64
	camera     float64
}

// NewViewport fits the world into a cols x rows screen.
func NewViewport(world sim.WorldView, cols, rows int) Viewport {
	vp := Viewport{Cols: core.Max(cols-1, 0), Rows: rows}
	if world.Width > 0 {
		vp.scaleX = float64(vp.Cols) / world.Width
	}
	if world.Height > 0 {
		vp.scaleY = float64(rows) / world.Height
	}
	return vp
}

// WithCamera returns a viewport whose left edge is at world x.
func (v Viewport) WithCamera(x float64) Viewport {
	v.camera = x
	return v
}

// X converts a world x-coordinate to a column.
func (v Viewport) X(wx float64) int {
	return int(math.Floor((wx - v.camera) * v.scaleX))
}

// Y converts a world y-coordinate to a row.
func (v Viewport) Y(wy float64) int {
	return int(math.Floor(wy * v.scaleY))
}

// Rect converts a world box to cells. Non-empty boxes cover at least one cell.
func (v Viewport) Rect(x, y, w, h float64) core.Rect {
	x0, y0 := v.X(x), v.Y(y)
	x1, y1 := v.X(x+w), v.Y(y+h)
	return core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
}

// Visible reports whether a column is inside the world area.
func (v Viewport) Visible(col int) bool {
	return col >= 0 && col < v.Cols
}
