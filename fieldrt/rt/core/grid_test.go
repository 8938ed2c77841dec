package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGrid_Scenario(t *testing.T) {
	grid := BuildGrid(GridSpec{ViewportWidth: 10, ViewportHeight: 8, Density: 0.5})

	require.Equal(t, 5, grid.Cols)
	require.Equal(t, 4, grid.Rows)
	require.Equal(t, 20, grid.Len())
	require.Len(t, grid.Sizes, 20)

	assert.Equal(t, mgl32.Vec3{-5, -4, 0}, grid.Positions[0])
	assert.Equal(t, mgl32.Vec3{5, 4, 0}, grid.Positions[19])

	// Row-major: second point moves along x only.
	assert.Equal(t, mgl32.Vec3{-2.5, -4, 0}, grid.Positions[1])
	assert.Equal(t, float32(-5), grid.Positions[5].X())
	assert.InDelta(t, -4.0/3.0, grid.Positions[5].Y(), 1e-6)

	for _, s := range grid.Sizes {
		assert.Equal(t, float32(1), s)
	}
}

func TestBuildGrid_CountAndSpan(t *testing.T) {
	tests := []struct {
		name string
		spec GridSpec
		cols int
		rows int
	}{
		{"desktop", GridSpec{1280, 720, 0.1}, 128, 72},
		{"dense", GridSpec{300, 200, 0.2}, 60, 40},
		{"sparse clamps to two", GridSpec{10, 10, 0.01}, 2, 2},
		{"fractional floor", GridSpec{99, 51, 0.1}, 9, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := BuildGrid(tt.spec)
			require.Equal(t, tt.cols, grid.Cols)
			require.Equal(t, tt.rows, grid.Rows)
			require.Equal(t, tt.cols*tt.rows, grid.Len())

			minX, maxX := float32(math.MaxFloat32), float32(-math.MaxFloat32)
			minY, maxY := float32(math.MaxFloat32), float32(-math.MaxFloat32)
			for _, p := range grid.Positions {
				minX = min(minX, p.X())
				maxX = max(maxX, p.X())
				minY = min(minY, p.Y())
				maxY = max(maxY, p.Y())
				assert.Zero(t, p.Z())
			}

			hw, hh := float32(tt.spec.ViewportWidth/2), float32(tt.spec.ViewportHeight/2)
			assert.InDelta(t, -hw, minX, 1e-3)
			assert.InDelta(t, hw, maxX, 1e-3)
			assert.InDelta(t, -hh, minY, 1e-3)
			assert.InDelta(t, hh, maxY, 1e-3)
		})
	}
}

func TestBuildGrid_Degenerate(t *testing.T) {
	for _, spec := range []GridSpec{
		{0, 0, 0.1},
		{-100, 50, 0.1},
		{100, 100, 0},
	} {
		grid := BuildGrid(spec)
		assert.GreaterOrEqual(t, grid.Cols, MinGridAxis)
		assert.GreaterOrEqual(t, grid.Rows, MinGridAxis)
		for _, p := range grid.Positions {
			for _, c := range p {
				assert.False(t, math.IsNaN(float64(c)) || math.IsInf(float64(c), 0), "spec %+v produced %v", spec, p)
			}
		}
	}
}

func TestBuildGrid_Deterministic(t *testing.T) {
	spec := GridSpec{ViewportWidth: 640, ViewportHeight: 480, Density: 0.07}
	a := BuildGrid(spec)
	b := BuildGrid(spec)

	assert.Equal(t, a.Positions, b.Positions)
	assert.Equal(t, a.Sizes, b.Sizes)
	assert.NotSame(t, &a.Positions[0], &b.Positions[0])
}

func TestGridCache(t *testing.T) {
	var cache GridCache
	spec := GridSpec{ViewportWidth: 10, ViewportHeight: 8, Density: 0.5}

	first, rebuilt := cache.Ensure(spec)
	require.True(t, rebuilt)

	again, rebuilt := cache.Ensure(spec)
	assert.False(t, rebuilt)
	assert.Same(t, first, again)

	// Resize: new counts and span immediately, nothing stale kept.
	wider := spec
	wider.ViewportWidth = 20
	resized, rebuilt := cache.Ensure(wider)
	require.True(t, rebuilt)
	assert.NotSame(t, first, resized)
	assert.Equal(t, 10*4, resized.Len())
	assert.Equal(t, mgl32.Vec3{-10, -4, 0}, resized.Positions[0])
	assert.Equal(t, mgl32.Vec3{10, 4, 0}, resized.Positions[resized.Len()-1])
	assert.Equal(t, 20, first.Len(), "previous buffer must not be modified")

	cache.Invalidate()
	_, rebuilt = cache.Ensure(wider)
	assert.True(t, rebuilt)
}
