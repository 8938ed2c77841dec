package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ParamsSize is the byte size of the FieldParams uniform in points.wgsl.
const ParamsSize = 128

// Direction is the sign applied to the mouse->point displacement.
type Direction float32

const (
	Repel   Direction = 1
	Attract Direction = -1
)

func (d Direction) String() string {
	if d < 0 {
		return "attract"
	}
	return "repel"
}

type FalloffShape uint32

const (
	FalloffLinear FalloffShape = iota
	FalloffSmooth
)

func (f FalloffShape) String() string {
	if f == FalloffSmooth {
		return "smooth"
	}
	return "linear"
}

// ParameterBlock is everything the displacement and shading stages read in a
// frame. Lengths are in grid (world) units unless noted.
type ParameterBlock struct {
	MouseWorld  mgl32.Vec2
	Strength    float32
	RadiusInner float32
	RadiusOuter float32

	Direction  Direction
	Falloff    FalloffShape
	PointScale float32 // pixels
	SizeBoost  float32
	Time       float32
	Resolution mgl32.Vec2 // pixels, width and height
	ViewProj   mgl32.Mat4
	Color      [4]float32
}

// Encode writes the block in the FieldParams layout:
//
//	view_proj:    mat4x4<f32>  0
//	mouse_world:  vec2<f32>    64
//	resolution:   vec2<f32>    72
//	strength:     f32          80
//	radius_inner: f32          84
//	radius_outer: f32          88
//	direction:    f32          92
//	point_scale:  f32          96
//	size_boost:   f32          100
//	time:         f32          104
//	falloff:      u32          108
//	color:        vec4<f32>    112
func (b *ParameterBlock) Encode(buf *[ParamsSize]byte) {
	putF := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}

	for i, v := range b.ViewProj {
		putF(i*4, v)
	}
	putF(64, b.MouseWorld.X())
	putF(68, b.MouseWorld.Y())
	putF(72, b.Resolution.X())
	putF(76, b.Resolution.Y())
	putF(80, b.Strength)
	putF(84, b.RadiusInner)
	putF(88, b.RadiusOuter)
	putF(92, float32(b.Direction))
	putF(96, b.PointScale)
	putF(100, b.SizeBoost)
	putF(104, b.Time)
	binary.LittleEndian.PutUint32(buf[108:], uint32(b.Falloff))
	for i, v := range b.Color {
		putF(112+i*4, v)
	}
}
