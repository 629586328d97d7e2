package object

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/voxcore/voxrt/internal/mathx"
)

func TestNewVoxelObjectHasUniqueID(t *testing.T) {
	a := NewVoxelObject(0.1)
	b := NewVoxelObject(0.1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestValidateRejectsNonUnitOrientation(t *testing.T) {
	o := NewVoxelObject(0.1)
	o.Transform.Rotation = mgl32.Quat{W: 2, V: mgl32.Vec3{0, 0, 0}}
	assert.Error(t, o.Validate())
}

func TestValidateAcceptsIdentity(t *testing.T) {
	o := NewVoxelObject(0.1)
	assert.NoError(t, o.Validate())
}

func TestSetAtRoundTrip(t *testing.T) {
	o := NewVoxelObject(0.1)
	o.SetAt(1, 2, 3, 5)
	assert.Equal(t, uint8(5), o.At(1, 2, 3))
	assert.NotZero(t, o.OccupancyMask)
}

func TestSetAtOutOfRangeIsNoop(t *testing.T) {
	o := NewVoxelObject(0.1)
	o.SetAt(-1, 0, 0, 5)
	o.SetAt(VobjGridDim, 0, 0, 5)
	assert.Zero(t, o.OccupancyMask)
}

func TestLocalBoundsMatchesInvariant(t *testing.T) {
	o := NewVoxelObject(0.5)
	b := o.LocalBounds()
	half := float32(VobjGridDim) / 2 * 0.5
	assert.Equal(t, -half, b.Min.X())
	assert.Equal(t, half, b.Max.X())
}

func TestUpdateWorldAABBEmptyObjectIsInvalid(t *testing.T) {
	o := NewVoxelObject(0.1)
	o.UpdateWorldAABB()
	_, ok := o.WorldAABB()
	assert.False(t, ok)
}

func TestUpdateWorldAABBNonEmptyObject(t *testing.T) {
	o := NewVoxelObject(1.0)
	o.SetAt(0, 0, 0, 1)
	o.UpdateWorldAABB()
	aabb, ok := o.WorldAABB()
	assert.True(t, ok)
	assert.True(t, aabb.Valid())
}

func TestSceneCommitCullsOutsideFrustum(t *testing.T) {
	s := NewScene(0.1)
	near := NewVoxelObject(1.0)
	near.SetAt(0, 0, 0, 1)
	near.Transform.SetPosition(mgl32.Vec3{0, 0, 5})
	far := NewVoxelObject(1.0)
	far.SetAt(0, 0, 0, 1)
	far.Transform.SetPosition(mgl32.Vec3{10000, 10000, 10000})
	s.AddObject(near)
	s.AddObject(far)

	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1.0, 0.1, 100.0)
	s.Commit(mathx.ExtractFrustum(proj.Mul4(view)), nil)

	assert.Len(t, s.VisibleObjects, 1)
	assert.Equal(t, near.ID, s.VisibleObjects[0].ID)
}

func TestSceneCommitEmptyVisibleYieldsEmptyBVH(t *testing.T) {
	s := NewScene(0.1)
	assert.NotPanics(t, func() {
		s.Commit(mathx.ExtractFrustum(mgl32.Ident4()), nil)
	})
	assert.Len(t, s.BVHNodes, 64)
}
