package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// parallelEpsilon bounds |n·d| below which a ray is treated as parallel to a plane.
const parallelEpsilon = 1e-6

// FarAway is the pointer position used before the first successful projection,
// far enough outside any sane radius that no point is displaced.
var FarAway = mgl32.Vec2{-9999, -9999}

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Plane is the set of points p with Normal·p + Constant = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// IntersectPlane writes the hit point into out. It reports false, leaving out
// untouched, when the ray is parallel to the plane or the plane lies behind it.
func (r *Ray) IntersectPlane(p *Plane, out *mgl32.Vec3) bool {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(float64(denom)) < parallelEpsilon {
		return false
	}
	t := -(r.Origin.Dot(p.Normal) + p.Constant) / denom
	if t < 0 {
		return false
	}
	*out = r.Origin.Add(r.Direction.Mul(t))
	return true
}

// PointerProjector maps a normalized pointer onto the z=0 grid plane.
// Its ray, plane and hit scratch values live for the projector's lifetime and
// are overwritten on every call.
type PointerProjector struct {
	ray   Ray
	plane Plane
	hit   mgl32.Vec3
	inv   mgl32.Mat4
	last  mgl32.Vec2
}

func NewPointerProjector() *PointerProjector {
	return &PointerProjector{
		plane: Plane{Normal: mgl32.Vec3{0, 0, 1}},
		last:  FarAway,
	}
}

// Last returns the most recent successfully projected position.
func (p *PointerProjector) Last() mgl32.Vec2 { return p.last }

// SetRay builds the pick ray for pointer (x, y in [-1, 1], y up) through cam
// on a width x height pixel surface. It reports false if the camera matrix is
// singular.
func (p *PointerProjector) SetRay(pointer mgl32.Vec2, cam *CameraState, width, height float32) bool {
	p.inv = cam.GetViewProjection(width, height).Inv()

	if cam.Projection == ProjectionPerspective {
		target, ok := unproject(&p.inv, pointer.X(), pointer.Y(), 0.5)
		if !ok {
			return false
		}
		dir := target.Sub(cam.Position)
		if dir.Len() == 0 {
			return false
		}
		p.ray.Origin = cam.Position
		p.ray.Direction = dir.Normalize()
		return true
	}

	origin, ok := unproject(&p.inv, pointer.X(), pointer.Y(), -1)
	if !ok {
		return false
	}
	p.ray.Origin = origin
	p.ray.Direction = cam.GetForward()
	return true
}

// Project returns the pointer's position on the grid plane. When the ray
// misses the plane the previous position is returned along with false.
func (p *PointerProjector) Project(pointer mgl32.Vec2, cam *CameraState, width, height float32) (mgl32.Vec2, bool) {
	if cam == nil || !p.SetRay(pointer, cam, width, height) {
		return p.last, false
	}
	if !p.ray.IntersectPlane(&p.plane, &p.hit) {
		return p.last, false
	}
	p.last = mgl32.Vec2{p.hit.X(), p.hit.Y()}
	return p.last, true
}

func unproject(inv *mgl32.Mat4, x, y, z float32) (mgl32.Vec3, bool) {
	v := inv.Mul4x1(mgl32.Vec4{x, y, z, 1})
	if v.W() == 0 {
		return mgl32.Vec3{}, false
	}
	return v.Vec3().Mul(1 / v.W()), true
}
