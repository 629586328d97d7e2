// Package mathx holds the small set of fixed-shape math types the renderer
// shares across packages: AABB and view-frustum tests on top of mgl32.
package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in some consistent space (local or
// world, depending on caller).
type AABB struct {
	Min, Max mgl32.Vec3
}

// Empty returns an AABB that Union-s as the identity element.
func Empty() AABB {
	inf := float32(1e20)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) Valid() bool {
	return b.Min.X() <= b.Max.X() && b.Min.Y() <= b.Max.Y() && b.Min.Z() <= b.Max.Z()
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min32(b.Min.X(), o.Min.X()), min32(b.Min.Y(), o.Min.Y()), min32(b.Min.Z(), o.Min.Z())},
		Max: mgl32.Vec3{max32(b.Max.X(), o.Max.X()), max32(b.Max.Y(), o.Max.Y()), max32(b.Max.Z(), o.Max.Z())},
	}
}

func (b AABB) UnionPoint(p mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min32(b.Min.X(), p.X()), min32(b.Min.Y(), p.Y()), min32(b.Min.Z(), p.Z())},
		Max: mgl32.Vec3{max32(b.Max.X(), p.X()), max32(b.Max.Y(), p.Y()), max32(b.Max.Z(), p.Z())},
	}
}

// Corners returns the 8 corner points of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
}

// Transform returns the conservative world-space AABB of b transformed by m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	out := Empty()
	for _, c := range b.Corners() {
		wc := m.Mul4x1(c.Vec4(1.0)).Vec3()
		out = out.UnionPoint(wc)
	}
	return out
}

// Frustum is the 6-plane (left, right, bottom, top, near, far) view volume,
// each plane as Ax+By+Cz+D=0 with the normal pointing inward.
type Frustum struct {
	Planes [6]mgl32.Vec4
}

// ExtractFrustum derives the frustum planes from a combined view-projection
// matrix using the standard Gribb/Hartmann row-combination method.
func ExtractFrustum(vp mgl32.Mat4) Frustum {
	var f Frustum
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(3, i), vp.At(3, i), vp.At(3, i), vp.At(3, i)}
	}
	_ = row
	at := func(r, c int) float32 { return vp.At(r, c) }
	combine := func(sign float32, r int) mgl32.Vec4 {
		return mgl32.Vec4{
			at(3, 0) + sign*at(r, 0),
			at(3, 1) + sign*at(r, 1),
			at(3, 2) + sign*at(r, 2),
			at(3, 3) + sign*at(r, 3),
		}
	}
	f.Planes[0] = combine(1, 0)  // left
	f.Planes[1] = combine(-1, 0) // right
	f.Planes[2] = combine(1, 1)  // bottom
	f.Planes[3] = combine(-1, 1) // top
	f.Planes[4] = combine(1, 2)  // near
	f.Planes[5] = combine(-1, 2) // far

	for i := range f.Planes {
		p := f.Planes[i]
		l := float32(math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])))
		if l > 0 {
			f.Planes[i] = p.Mul(1.0 / l)
		}
	}
	return f
}

// Intersects reports whether any part of the AABB is inside or crossing
// the frustum (false only when the box is fully outside a single plane).
func (f Frustum) Intersects(b AABB) bool {
	for _, plane := range f.Planes {
		var p mgl32.Vec3
		if plane[0] > 0 {
			p[0] = b.Max[0]
		} else {
			p[0] = b.Min[0]
		}
		if plane[1] > 0 {
			p[1] = b.Max[1]
		} else {
			p[1] = b.Min[1]
		}
		if plane[2] > 0 {
			p[2] = b.Max[2]
		} else {
			p[2] = b.Min[2]
		}
		dist := plane[0]*p[0] + plane[1]*p[1] + plane[2]*p[2] + plane[3]
		if dist < 0 {
			return false
		}
	}
	return true
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
