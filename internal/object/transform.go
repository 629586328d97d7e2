// Package object holds the per-instance scene types the renderer places
// into the world: VoxelObject (a small rigid voxel body), Transform and
// Light.
package object

import "github.com/go-gl/mathgl/mgl32"

// Transform is a TRS transform with a dirty flag so callers only recompute
// dependent state (world AABB, GPU param block) when something changed.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

// NewTransform returns an identity transform.
func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Dirty:    true,
	}
}

// ObjectToWorld returns M = T * R * S.
func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// WorldToObject returns inv(M) = inv(S) * inv(R) * inv(T), computed
// component-wise since each factor inverts cheaply on its own.
func (t *Transform) WorldToObject() mgl32.Mat4 {
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())
	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// SetPosition updates position and marks the transform dirty.
func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.Position = p
	t.Dirty = true
}

// SetRotation updates rotation and marks the transform dirty. Callers are
// responsible for passing a unit quaternion (invariant
// ||orientation|| == 1); Normalize guards against accumulated drift.
func (t *Transform) SetRotation(q mgl32.Quat) {
	t.Rotation = q.Normalize()
	t.Dirty = true
}
