package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Projection int

const (
	ProjectionOrthographic Projection = iota
	ProjectionPerspective
)

// CameraState looks at the z=0 grid plane. The default is the top-down
// orthographic camera the field is tuned for: one world unit per pixel at Zoom 1.
type CameraState struct {
	Projection Projection
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Up         mgl32.Vec3
	Zoom       float32 // orthographic only
	FovY       float32 // degrees, perspective only
	Near       float32
	Far        float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Projection: ProjectionOrthographic,
		Position:   mgl32.Vec3{0, 0, 5},
		Target:     mgl32.Vec3{0, 0, 0},
		Up:         mgl32.Vec3{0, 1, 0},
		Zoom:       1,
		FovY:       75,
		Near:       0.1,
		Far:        1000,
	}
}

func (c *CameraState) GetForward() mgl32.Vec3 {
	f := c.Target.Sub(c.Position)
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *CameraState) zoom() float32 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// GetProjectionMatrix builds a GL-style projection (clip z in [-1, 1]) for a
// render surface of width x height pixels.
func (c *CameraState) GetProjectionMatrix(width, height float32) mgl32.Mat4 {
	if c.Projection == ProjectionPerspective {
		aspect := float32(1)
		if height > 0 {
			aspect = width / height
		}
		return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
	}
	hw := width / 2 / c.zoom()
	hh := height / 2 / c.zoom()
	return mgl32.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)
}

func (c *CameraState) GetViewProjection(width, height float32) mgl32.Mat4 {
	return c.GetProjectionMatrix(width, height).Mul4(c.GetViewMatrix())
}

// Viewport returns the visible extent of the z=0 plane in world units.
// For a perspective camera the extent is measured at the target distance.
func (c *CameraState) Viewport(width, height float32) (float32, float32) {
	if c.Projection == ProjectionPerspective {
		distance := c.Position.Sub(c.Target).Len()
		h := 2 * float32(math.Tan(float64(mgl32.DegToRad(c.FovY))/2)) * distance
		aspect := float32(1)
		if height > 0 {
			aspect = width / height
		}
		return h * aspect, h
	}
	return width / c.zoom(), height / c.zoom()
}

// WebGPUClip remaps GL clip depth [-1, 1] to WebGPU's [0, 1].
var WebGPUClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}
