package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Falloff returns the effect weight in [0, 1] at distance d from the pointer.
// When inner >= outer the curve collapses to a hard step at inner.
func Falloff(d, inner, outer float32, shape FalloffShape) float32 {
	if inner >= outer {
		if d < inner {
			return 1
		}
		return 0
	}
	if d >= outer {
		return 0
	}
	if d <= inner {
		return 1
	}
	t := (d - inner) / (outer - inner)
	if shape == FalloffSmooth {
		t = t * t * (3 - 2*t)
	}
	return 1 - t
}

// Displace mirrors vs_main in points.wgsl: it returns the displaced position
// and the rendered point size in pixels for one grid point.
func Displace(pos mgl32.Vec3, size float32, b *ParameterBlock) (mgl32.Vec3, float32) {
	delta := mgl32.Vec2{pos.X() - b.MouseWorld.X(), pos.Y() - b.MouseWorld.Y()}
	d := delta.Len()
	f := Falloff(d, b.RadiusInner, b.RadiusOuter, b.Falloff)

	out := pos
	if d > 0 && f > 0 {
		dir := delta.Mul(1 / d).Mul(float32(b.Direction))
		amount := f * b.Strength
		if b.Direction < 0 && amount > d {
			amount = d
		}
		out[0] += dir.X() * amount
		out[1] += dir.Y() * amount
	}

	return out, size * b.PointScale * (1 + b.SizeBoost*f)
}
