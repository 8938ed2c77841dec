package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MinGridAxis is the smallest number of points along either grid axis.
// Two points keep index/(count-1) well defined.
const MinGridAxis = 2

// GridSpec describes the viewport-covering lattice. Viewport dimensions are in
// world units; Density is points per world unit.
type GridSpec struct {
	ViewportWidth  float64
	ViewportHeight float64
	Density        float64
}

func (s GridSpec) Cols() int { return axisCount(s.ViewportWidth, s.Density) }
func (s GridSpec) Rows() int { return axisCount(s.ViewportHeight, s.Density) }

func axisCount(extent, density float64) int {
	n := math.Floor(extent * density)
	if math.IsNaN(n) || n < MinGridAxis {
		return MinGridAxis
	}
	return int(n)
}

// PointBuffer is the row-major point lattice uploaded to the GPU.
// It is never mutated after BuildGrid returns.
type PointBuffer struct {
	Spec      GridSpec
	Cols      int
	Rows      int
	Positions []mgl32.Vec3
	Sizes     []float32
}

func (b *PointBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Positions)
}

// BuildGrid lays out Cols*Rows points spanning exactly
// [-w/2, w/2] x [-h/2, h/2] on the z=0 plane.
func BuildGrid(spec GridSpec) *PointBuffer {
	cols, rows := spec.Cols(), spec.Rows()
	total := cols * rows

	buf := &PointBuffer{
		Spec:      spec,
		Cols:      cols,
		Rows:      rows,
		Positions: make([]mgl32.Vec3, total),
		Sizes:     make([]float32, total),
	}

	i := 0
	for iy := 0; iy < rows; iy++ {
		y := (float64(iy)/float64(rows-1) - 0.5) * spec.ViewportHeight
		for ix := 0; ix < cols; ix++ {
			x := (float64(ix)/float64(cols-1) - 0.5) * spec.ViewportWidth
			buf.Positions[i] = mgl32.Vec3{float32(x), float32(y), 0}
			buf.Sizes[i] = 1.0
			i++
		}
	}
	return buf
}

// GridCache rebuilds the grid only when its inputs change.
type GridCache struct {
	spec GridSpec
	grid *PointBuffer
}

// Ensure returns the grid for spec and whether it had to be rebuilt.
// A rebuild always produces a new buffer; the previous one is dropped.
func (c *GridCache) Ensure(spec GridSpec) (*PointBuffer, bool) {
	if c.grid != nil && c.spec == spec {
		return c.grid, false
	}
	c.spec = spec
	c.grid = BuildGrid(spec)
	return c.grid, true
}

func (c *GridCache) Grid() *PointBuffer { return c.grid }

// Invalidate forces the next Ensure to rebuild.
func (c *GridCache) Invalidate() {
	c.grid = nil
}
