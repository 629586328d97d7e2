package object

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/voxcore/voxrt/internal/mathx"
)

// VobjGridDim is the edge length of a voxel object's fixed material-id
// grid.
const VobjGridDim = 16

const vobjVoxelCount = VobjGridDim * VobjGridDim * VobjGridDim

const vobjMicroSize = VobjGridDim / 2

// VoxelObject is a small rigid body with a voxel shell. A fixed
// VOBJ_GRID_DIM^3 dense grid holds its payload, rather than a sparse
// sector map sized for whole-scene volumes.
//
// ID gives the object a stable identity across vobjatlas slot reuse,
// rather than a pointer address, which would break under a moving GC.
type VoxelObject struct {
	ID        uuid.UUID
	Transform *Transform
	Grid      [vobjVoxelCount]uint8
	VoxelSize float32
	Active    bool

	OccupancyMask uint8
	worldAABB     mathx.AABB
	aabbValid     bool
}

// NewVoxelObject returns an object with an identity transform and an
// empty grid.
func NewVoxelObject(voxelSize float32) *VoxelObject {
	return &VoxelObject{
		ID:        uuid.New(),
		Transform: NewTransform(),
		VoxelSize: voxelSize,
		Active:    true,
	}
}

func vobjIndex(x, y, z int) int {
	return x + y*VobjGridDim + z*VobjGridDim*VobjGridDim
}

// LocalBounds returns the object-space AABB: ± VOBJ_GRID_DIM/2 * voxel_size
// (invariant), centered on the transform's origin.
func (o *VoxelObject) LocalBounds() mathx.AABB {
	half := float32(VobjGridDim) / 2 * o.VoxelSize
	return mathx.AABB{
		Min: mgl32.Vec3{-half, -half, -half},
		Max: mgl32.Vec3{half, half, half},
	}
}

// SetAt writes a material id at local grid coordinates in [0, VobjGridDim)
// and recomputes the occupancy mask. Out-of-range coordinates are a no-op.
func (o *VoxelObject) SetAt(x, y, z int, mat uint8) {
	if x < 0 || y < 0 || z < 0 || x >= VobjGridDim || y >= VobjGridDim || z >= VobjGridDim {
		return
	}
	o.Grid[vobjIndex(x, y, z)] = mat
	o.recomputeOccupancy()
	o.aabbValid = false
}

// At returns the material id at local grid coordinates, or 0 if out of range.
func (o *VoxelObject) At(x, y, z int) uint8 {
	if x < 0 || y < 0 || z < 0 || x >= VobjGridDim || y >= VobjGridDim || z >= VobjGridDim {
		return 0
	}
	return o.Grid[vobjIndex(x, y, z)]
}

func (o *VoxelObject) recomputeOccupancy() {
	o.OccupancyMask = 0
	for z := 0; z < VobjGridDim; z++ {
		for y := 0; y < VobjGridDim; y++ {
			for x := 0; x < VobjGridDim; x++ {
				if o.Grid[vobjIndex(x, y, z)] == 0 {
					continue
				}
				mx, my, mz := x/vobjMicroSize, y/vobjMicroSize, z/vobjMicroSize
				bit := mx + my*2 + mz*4
				o.OccupancyMask |= 1 << uint(bit)
			}
		}
	}
}

// UpdateWorldAABB recomputes the conservative world-space AABB from the
// object's occupancy and transform, returning false if nothing changed.
// Empty objects report an invalid AABB.
func (o *VoxelObject) UpdateWorldAABB() bool {
	if o.aabbValid && !o.Transform.Dirty {
		return false
	}
	if o.OccupancyMask == 0 {
		o.worldAABB = mathx.Empty()
		o.aabbValid = true
		o.Transform.Dirty = false
		return true
	}
	o.worldAABB = o.LocalBounds().Transform(o.Transform.ObjectToWorld())
	o.aabbValid = true
	o.Transform.Dirty = false
	return true
}

// WorldAABB returns the last-computed world AABB; call UpdateWorldAABB
// first after any edit or transform change.
func (o *VoxelObject) WorldAABB() (mathx.AABB, bool) {
	if !o.aabbValid {
		return mathx.AABB{}, false
	}
	return o.worldAABB, o.OccupancyMask != 0
}

// Validate checks VoxelObject invariants.
func (o *VoxelObject) Validate() error {
	q := o.Transform.Rotation
	n := float32(math.Sqrt(float64(q.W*q.W + q.V.X()*q.V.X() + q.V.Y()*q.V.Y() + q.V.Z()*q.V.Z())))
	if n < 0.999 || n > 1.001 {
		return fmt.Errorf("object: orientation must be unit length, got %f", n)
	}
	if o.VoxelSize <= 0 {
		return fmt.Errorf("object: voxel_size must be > 0")
	}
	return nil
}
