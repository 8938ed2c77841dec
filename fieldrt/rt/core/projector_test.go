package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerProjector_Orthographic(t *testing.T) {
	cam := NewCameraState()
	p := NewPointerProjector()

	tests := []struct {
		name    string
		pointer mgl32.Vec2
		want    mgl32.Vec2
	}{
		{"center", mgl32.Vec2{0, 0}, mgl32.Vec2{0, 0}},
		{"top right", mgl32.Vec2{1, 1}, mgl32.Vec2{400, 300}},
		{"bottom left", mgl32.Vec2{-1, -1}, mgl32.Vec2{-400, -300}},
		{"quarter", mgl32.Vec2{0.5, -0.25}, mgl32.Vec2{200, -75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Project(tt.pointer, cam, 800, 600)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X(), got.X(), 1e-2)
			assert.InDelta(t, tt.want.Y(), got.Y(), 1e-2)
			assert.Equal(t, got, p.Last())
		})
	}
}

func TestPointerProjector_Zoom(t *testing.T) {
	cam := NewCameraState()
	cam.Zoom = 2
	p := NewPointerProjector()

	got, ok := p.Project(mgl32.Vec2{1, 1}, cam, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 200, got.X(), 1e-2)
	assert.InDelta(t, 150, got.Y(), 1e-2)
}

func TestPointerProjector_Perspective(t *testing.T) {
	cam := NewCameraState()
	cam.Projection = ProjectionPerspective
	cam.Position = mgl32.Vec3{0, 0, 10}
	p := NewPointerProjector()

	got, ok := p.Project(mgl32.Vec2{0, 0}, cam, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 0, got.X(), 1e-3)
	assert.InDelta(t, 0, got.Y(), 1e-3)

	// The pointer at the right edge lands on the edge of the visible plane.
	vw, vh := cam.Viewport(800, 600)
	got, ok = p.Project(mgl32.Vec2{1, 1}, cam, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, vw/2, got.X(), 1e-2)
	assert.InDelta(t, vh/2, got.Y(), 1e-2)
}

func TestPointerProjector_EdgeOnKeepsPrevious(t *testing.T) {
	cam := NewCameraState()
	p := NewPointerProjector()

	first, ok := p.Project(mgl32.Vec2{0.5, 0.5}, cam, 800, 600)
	require.True(t, ok)

	// Looking along +y: every ray runs parallel to z=0.
	edgeOn := NewCameraState()
	edgeOn.Position = mgl32.Vec3{0, -10, 0}
	edgeOn.Target = mgl32.Vec3{0, 0, 0}
	edgeOn.Up = mgl32.Vec3{0, 0, 1}

	got, ok := p.Project(mgl32.Vec2{0, 0.5}, edgeOn, 800, 600)
	assert.False(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, first, p.Last())
}

func TestPointerProjector_BehindCamera(t *testing.T) {
	// Camera below the plane looking away from it.
	cam := NewCameraState()
	cam.Position = mgl32.Vec3{0, 0, -5}
	cam.Target = mgl32.Vec3{0, 0, -10}

	p := NewPointerProjector()
	got, ok := p.Project(mgl32.Vec2{0, 0}, cam, 800, 600)
	assert.False(t, ok)
	assert.Equal(t, FarAway, got)
}

func TestPointerProjector_NilCamera(t *testing.T) {
	p := NewPointerProjector()
	got, ok := p.Project(mgl32.Vec2{0, 0}, nil, 800, 600)
	assert.False(t, ok)
	assert.Equal(t, FarAway, got)
}

func TestRay_IntersectPlane(t *testing.T) {
	plane := &Plane{Normal: mgl32.Vec3{0, 0, 1}}
	ray := Ray{Origin: mgl32.Vec3{1, 2, 3}, Direction: mgl32.Vec3{0, 0, -1}}

	var hit mgl32.Vec3
	require.True(t, ray.IntersectPlane(plane, &hit))
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, hit)

	hit = mgl32.Vec3{7, 7, 7}
	parallel := Ray{Origin: mgl32.Vec3{0, 0, 1}, Direction: mgl32.Vec3{1, 0, 0}}
	assert.False(t, parallel.IntersectPlane(plane, &hit))
	assert.Equal(t, mgl32.Vec3{7, 7, 7}, hit)
}
