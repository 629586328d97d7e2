// Package vobjatlas owns the fixed-slot 3D voxel-object atlas: a single
// texture holding every live object's voxel grid side by side, a
// per-object metadata SSBO, and a dirty bitmap that bounds how many
// objects get re-uploaded in a given frame.
//
// Slice assignment uses a free-list + tail allocator; the metadata
// record layout packs instance transform + AABB per atlas slot. The
// bitmap-gated partial refresh bounds re-upload cost, tracking
// dirtiness at per-slot granularity instead of re-walking every
// object's full voxel grid each frame.
package vobjatlas

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxcore/voxrt/internal/object"
)

// MaxObjects bounds the atlas slot count.
const MaxObjects = 256

// DirtyBudgetPerFrame is K, the per-frame cap on re-uploaded object
// payloads: at most K dirty objects are uploaded in a given frame.
const DirtyBudgetPerFrame = 8

// MetadataRecordSize is the per-object SSBO record size: two mat4x4
// (128B) + local AABB min/max (32B) + atlas_slice/occupancy_mask/active/
// pad (16B) = 176B, rounded up to a 192B-aligned record
// (MAX_OBJECTS * 192B) with 16 bytes of alignment padding.
const MetadataRecordSize = 192

// dirtyWords is ceil(MaxObjects/32), the bitmap word count.
const dirtyWords = (MaxObjects + 31) / 32

// Slot is one atlas slice's bookkeeping: which object currently occupies
// it and whether its voxel payload needs re-upload.
type Slot struct {
	Object *object.VoxelObject
	InUse  bool
}

// Atlas tracks slot assignment and dirtiness for up to MaxObjects voxel
// objects. It does not itself own GPU resources — Manager does — so the
// slot-assignment logic can be unit tested without a device.
type Atlas struct {
	slots []Slot
	free  []int
	dirty [dirtyWords]uint32
}

// NewAtlas returns an empty atlas with MaxObjects slots.
func NewAtlas() *Atlas {
	a := &Atlas{slots: make([]Slot, MaxObjects)}
	for i := MaxObjects - 1; i >= 0; i-- {
		a.free = append(a.free, i)
	}
	return a
}

// Assign gives obj the next free slice, marks it dirty for upload, and
// returns the slice index. Returns -1 if the atlas is full.
func (a *Atlas) Assign(obj *object.VoxelObject) int {
	if len(a.free) == 0 {
		return -1
	}
	idx := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	a.slots[idx] = Slot{Object: obj, InUse: true}
	a.markDirty(idx)
	return idx
}

// Release frees slot idx for reuse.
func (a *Atlas) Release(idx int) {
	if idx < 0 || idx >= len(a.slots) || !a.slots[idx].InUse {
		return
	}
	a.slots[idx] = Slot{}
	a.free = append(a.free, idx)
	a.clearDirty(idx)
}

// MarkDirty flags slot idx's voxel payload as needing re-upload (e.g.
// after an edit to the object's grid).
func (a *Atlas) MarkDirty(idx int) {
	a.markDirty(idx)
}

func (a *Atlas) markDirty(idx int) {
	if idx < 0 || idx >= len(a.slots) {
		return
	}
	a.dirty[idx/32] |= 1 << uint(idx%32)
}

func (a *Atlas) clearDirty(idx int) {
	if idx < 0 || idx >= len(a.slots) {
		return
	}
	a.dirty[idx/32] &^= 1 << uint(idx%32)
}

// SelectDirtyBudget returns up to DirtyBudgetPerFrame dirty slot indices,
// in ascending order, without clearing them (the caller clears via
// MarkUploaded once the transfer is recorded).
func (a *Atlas) SelectDirtyBudget() []int {
	var out []int
	for word := 0; word < dirtyWords && len(out) < DirtyBudgetPerFrame; word++ {
		bits := a.dirty[word]
		for bits != 0 && len(out) < DirtyBudgetPerFrame {
			bit := bits & (-bits)
			pos := word*32 + trailingZeros32(bit)
			out = append(out, pos)
			bits &^= bit
		}
	}
	return out
}

func trailingZeros32(v uint32) int {
	n := 0
	for v&1 == 0 && v != 0 {
		v >>= 1
		n++
	}
	return n
}

// MarkUploaded clears the dirty bit for each slot index once its payload
// upload has been recorded.
func (a *Atlas) MarkUploaded(indices []int) {
	for _, idx := range indices {
		a.clearDirty(idx)
	}
}

// DirtyCount returns how many slots are currently flagged dirty, for
// tests and diagnostics.
func (a *Atlas) DirtyCount() int {
	n := 0
	for _, w := range a.dirty {
		for w != 0 {
			n += int(w & 1)
			w >>= 1
		}
	}
	return n
}

// Slots exposes the backing slot array read-only (used by Manager to
// build metadata records).
func (a *Atlas) Slots() []Slot {
	return a.slots
}

// UsedBound returns one past the highest slot index currently in use, or
// 0 if none is. Slots are taken off the tail of a stack-ordered free list,
// so in the common case of no mid-run releases this bounds the live
// slot range tightly; a released-then-never-reassigned slot inside that
// range still costs a draw, but the raster shader discards it via its
// inactive metadata record.
func (a *Atlas) UsedBound() int {
	for i := len(a.slots) - 1; i >= 0; i-- {
		if a.slots[i].InUse {
			return i + 1
		}
	}
	return 0
}

// MetadataRecord packs one slot's transform/AABB/slice record into its
// 192-byte SSBO layout: object_to_world, world_to_object, local AABB
// min/max, atlas slice, occupancy mask, active flag. visible gates the
// active flag alongside obj.Active, so a frustum- or occlusion-culled
// object's instance is skipped by the raster shader this frame without
// touching its atlas slot assignment.
func MetadataRecord(slice int, obj *object.VoxelObject, visible bool) []byte {
	b := make([]byte, MetadataRecordSize)
	if obj == nil {
		return b
	}
	o2w := obj.Transform.ObjectToWorld()
	w2o := obj.Transform.WorldToObject()
	putMat4(b[0:], o2w)
	putMat4(b[64:], w2o)

	bounds := obj.LocalBounds()
	putVec3(b[128:], bounds.Min)
	putVec3(b[144:], bounds.Max)

	putU32(b[160:], uint32(slice))
	putU32(b[164:], uint32(obj.OccupancyMask))
	active := uint32(0)
	if obj.Active && visible {
		active = 1
	}
	putU32(b[168:], active)
	return b
}

func putMat4(b []byte, m mgl32.Mat4) {
	for i, v := range m {
		putF32(b[i*4:], v)
	}
}

func putVec3(b []byte, v mgl32.Vec3) {
	putF32(b[0:], v.X())
	putF32(b[4:], v.Y())
	putF32(b[8:], v.Z())
	putF32(b[12:], 0)
}

func putF32(b []byte, v float32) {
	putU32(b, math.Float32bits(v))
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
