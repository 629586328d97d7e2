// Package volume owns the sparse voxel grid's data model: VoxelVolume,
// Chunk and ChunkHeader, plus a handful of CSG-style fill primitives
// used to build test scenes.
//
// A flat chunks[cx,cy,cz] array (one dense Chunk slice indexed by
// z*ny*nx + y*nx + x) stands in for a sector-hash-map-of-bricks, per the
// "arenas and indices over pointer graphs" design note, with per-chunk
// occupancy/compression bookkeeping kept at chunk granularity.
package volume

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CHUNK_SIZE is a compile-time power of two.
const ChunkSize = 8

// ChunkVoxelCount is CHUNK_SIZE^3.
const ChunkVoxelCount = ChunkSize * ChunkSize * ChunkSize

// MicroSize is the edge length of the occupancy_mask_2x2x2 sub-block grid:
// a chunk is divided into a 2x2x2 grid of (ChunkSize/2)^3 sub-blocks, one
// bit per sub-block, coarser than per-voxel occupancy but cheap to test
// before walking a chunk's full voxel array.
const MicroSize = ChunkSize / 2

// MaterialEmpty is the reserved empty id.
const MaterialEmpty = 0

// ChunkHeader is the occupancy descriptor kept alongside a Chunk's voxel
// data (ChunkHeader, ≤32 bytes).
type ChunkHeader struct {
	SolidCount         uint32
	OccupancyMask2x2x2 uint8
	BoundsMinLocal     [3]uint8
	BoundsMaxLocal     [3]uint8
	DataOffset         uint32
}

// ChunkHeaderSize is the WGSL ChunkHeader struct's size (common.wgsl):
// five u32 fields, no padding.
const ChunkHeaderSize = 20

// Bytes packs the header into its fixed 20-byte GPU layout (common.wgsl's
// ChunkHeader: five u32 fields). OccupancyMask2x2x2 widens straight into
// its u32; BoundsMinLocal/BoundsMaxLocal each pack their three per-axis
// bytes into one u32 (x | y<<8 | z<<16), since WGSL has no byte-granular
// storage-buffer member.
func (h ChunkHeader) Bytes() []byte {
	b := make([]byte, ChunkHeaderSize)
	putU32(b[0:], h.SolidCount)
	putU32(b[4:], uint32(h.OccupancyMask2x2x2))
	putU32(b[8:], packBounds(h.BoundsMinLocal))
	putU32(b[12:], packBounds(h.BoundsMaxLocal))
	putU32(b[16:], h.DataOffset)
	return b
}

func packBounds(b [3]uint8) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Chunk is a cubical block of ChunkSize^3 voxels with its occupancy header.
// Voxels is only populated when the chunk is not a uniform solid run;
// compressed chunks (supplement) report SolidMaterial instead
// of keeping a full payload array.
type Chunk struct {
	Voxels       [ChunkVoxelCount]uint8 // x-major: idx = x + y*ChunkSize + z*ChunkSize*ChunkSize
	Header       ChunkHeader
	Compressed   bool
	SolidMaterial uint8
}

func voxelIndex(lx, ly, lz int) int {
	return lx + ly*ChunkSize + lz*ChunkSize*ChunkSize
}

// at returns the material id at local coordinates, honoring compression.
func (c *Chunk) at(lx, ly, lz int) uint8 {
	if c.Compressed {
		return c.SolidMaterial
	}
	return c.Voxels[voxelIndex(lx, ly, lz)]
}

// setAt writes a voxel, expanding a compressed chunk to a full array first
// if the write would break uniformity.
func (c *Chunk) setAt(lx, ly, lz int, v uint8) {
	if c.Compressed {
		if v == c.SolidMaterial {
			return
		}
		c.expand()
	}
	c.Voxels[voxelIndex(lx, ly, lz)] = v
}

// expand materializes a compressed chunk's implicit uniform payload into a
// full voxel array.
func (c *Chunk) expand() {
	if !c.Compressed {
		return
	}
	for i := range c.Voxels {
		c.Voxels[i] = c.SolidMaterial
	}
	c.Compressed = false
}

// tryCompress collapses a fully-uniform non-empty chunk into solid-run
// form. Returns true if compression applied.
func (c *Chunk) tryCompress() bool {
	if c.Compressed || c.Header.SolidCount != ChunkVoxelCount {
		return false
	}
	first := c.Voxels[0]
	if first == MaterialEmpty {
		return false
	}
	for _, v := range c.Voxels {
		if v != first {
			return false
		}
	}
	c.Compressed = true
	c.SolidMaterial = first
	return true
}

// recomputeHeader scans the voxel array and rebuilds SolidCount,
// OccupancyMask2x2x2 and the local occupied AABB. DataOffset is untouched
// (it's assigned once at volume construction, see VoxelVolume).
func (c *Chunk) recomputeHeader() {
	h := &c.Header
	h.SolidCount = 0
	h.OccupancyMask2x2x2 = 0
	minL := [3]int{ChunkSize, ChunkSize, ChunkSize}
	maxL := [3]int{-1, -1, -1}

	if c.Compressed {
		if c.SolidMaterial != MaterialEmpty {
			h.SolidCount = ChunkVoxelCount
			h.OccupancyMask2x2x2 = 0xFF
			h.BoundsMinLocal = [3]uint8{0, 0, 0}
			h.BoundsMaxLocal = [3]uint8{ChunkSize, ChunkSize, ChunkSize}
		} else {
			h.BoundsMinLocal = [3]uint8{}
			h.BoundsMaxLocal = [3]uint8{}
		}
		return
	}

	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				if c.Voxels[voxelIndex(x, y, z)] == MaterialEmpty {
					continue
				}
				h.SolidCount++
				if x < minL[0] {
					minL[0] = x
				}
				if y < minL[1] {
					minL[1] = y
				}
				if z < minL[2] {
					minL[2] = z
				}
				if x+1 > maxL[0] {
					maxL[0] = x + 1
				}
				if y+1 > maxL[1] {
					maxL[1] = y + 1
				}
				if z+1 > maxL[2] {
					maxL[2] = z + 1
				}
				mx, my, mz := x/MicroSize, y/MicroSize, z/MicroSize
				bit := mx + my*2 + mz*4
				h.OccupancyMask2x2x2 |= 1 << uint(bit)
			}
		}
	}

	if h.SolidCount == 0 {
		h.BoundsMinLocal = [3]uint8{}
		h.BoundsMaxLocal = [3]uint8{}
		return
	}
	h.BoundsMinLocal = [3]uint8{clampU8(minL[0]), clampU8(minL[1]), clampU8(minL[2])}
	h.BoundsMaxLocal = [3]uint8{clampU8(maxL[0]), clampU8(maxL[1]), clampU8(maxL[2])}
}

func clampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > ChunkSize {
		return ChunkSize
	}
	return uint8(v)
}

// VoxelVolume is the chunked sparse grid. Chunks is a dense, flat array
// (no per-chunk pointer indirection), indexed by z*ny*nx + y*nx + x.
type VoxelVolume struct {
	BoundsMin, BoundsMax mgl32.Vec3
	VoxelSize            float32
	ChunksDim            [3]int
	Chunks               []Chunk

	dirtyOrder []int
	dirtySet   map[int]bool
}

// NewVoxelVolume validates and constructs a volume per // invariant: bounds_max-bounds_min == chunks_dim * CHUNK_SIZE * voxel_size.
func NewVoxelVolume(boundsMin, boundsMax mgl32.Vec3, voxelSize float32, chunksDim [3]int) (*VoxelVolume, error) {
	if voxelSize <= 0 {
		return nil, fmt.Errorf("volume: voxel_size must be > 0")
	}
	for i := 0; i < 3; i++ {
		if chunksDim[i] <= 0 {
			return nil, fmt.Errorf("volume: chunks_dim must be positive, got %v", chunksDim)
		}
		want := float32(chunksDim[i]*ChunkSize) * voxelSize
		got := boundsMax[i] - boundsMin[i]
		if math.Abs(float64(want-got)) > 1e-3 {
			return nil, fmt.Errorf("volume: bounds extent %v does not match chunks_dim*CHUNK_SIZE*voxel_size %v on axis %d", got, want, i)
		}
	}

	total := chunksDim[0] * chunksDim[1] * chunksDim[2]
	v := &VoxelVolume{
		BoundsMin:  boundsMin,
		BoundsMax:  boundsMax,
		VoxelSize:  voxelSize,
		ChunksDim:  chunksDim,
		Chunks:     make([]Chunk, total),
		dirtySet:   make(map[int]bool, total),
		dirtyOrder: make([]int, 0, total),
	}
	for i := range v.Chunks {
		v.Chunks[i].Header.DataOffset = uint32(i * ChunkVoxelCount)
	}
	return v, nil
}

func (v *VoxelVolume) chunkLinearIndex(cx, cy, cz int) int {
	nx, ny := v.ChunksDim[0], v.ChunksDim[1]
	return cz*ny*nx + cy*nx + cx
}

// worldToChunk resolves a world position to chunk coordinates and local
// voxel coordinates within that chunk. ok is false if outside bounds.
func (v *VoxelVolume) worldToChunk(p mgl32.Vec3) (cx, cy, cz, lx, ly, lz int, ok bool) {
	if p.X() < v.BoundsMin.X() || p.Y() < v.BoundsMin.Y() || p.Z() < v.BoundsMin.Z() ||
		p.X() >= v.BoundsMax.X() || p.Y() >= v.BoundsMax.Y() || p.Z() >= v.BoundsMax.Z() {
		return 0, 0, 0, 0, 0, 0, false
	}
	rel := p.Sub(v.BoundsMin)
	gx := int(math.Floor(float64(rel.X() / v.VoxelSize)))
	gy := int(math.Floor(float64(rel.Y() / v.VoxelSize)))
	gz := int(math.Floor(float64(rel.Z() / v.VoxelSize)))
	cx, cy, cz = gx/ChunkSize, gy/ChunkSize, gz/ChunkSize
	lx, ly, lz = gx%ChunkSize, gy%ChunkSize, gz%ChunkSize
	if cx < 0 || cy < 0 || cz < 0 || cx >= v.ChunksDim[0] || cy >= v.ChunksDim[1] || cz >= v.ChunksDim[2] {
		return 0, 0, 0, 0, 0, 0, false
	}
	return cx, cy, cz, lx, ly, lz, true
}

// SetAt writes a material id at a world position, recomputes the owning
// chunk's header and marks the chunk dirty for upload. Positions outside
// bounds are silently ignored.
func (v *VoxelVolume) SetAt(world mgl32.Vec3, mat uint8) {
	cx, cy, cz, lx, ly, lz, ok := v.worldToChunk(world)
	if !ok {
		return
	}
	idx := v.chunkLinearIndex(cx, cy, cz)
	c := &v.Chunks[idx]
	c.setAt(lx, ly, lz, mat)
	c.recomputeHeader()
	c.tryCompress()
	v.markDirty(idx)
}

// GetAt returns the material id at a world position, or 0 (empty) if the
// position is outside bounds (boundary behavior).
func (v *VoxelVolume) GetAt(world mgl32.Vec3) uint8 {
	cx, cy, cz, lx, ly, lz, ok := v.worldToChunk(world)
	if !ok {
		return MaterialEmpty
	}
	idx := v.chunkLinearIndex(cx, cy, cz)
	return v.Chunks[idx].at(lx, ly, lz)
}

func (v *VoxelVolume) markDirty(idx int) {
	if v.dirtySet[idx] {
		return
	}
	v.dirtySet[idx] = true
	v.dirtyOrder = append(v.dirtyOrder, idx)
}

// IterDirtyChunks returns the chunk linear indices pending upload, in the
// order they were first marked dirty. The returned slice is a copy; it
// is not affected by subsequent edits.
func (v *VoxelVolume) IterDirtyChunks() []int {
	out := make([]int, len(v.dirtyOrder))
	copy(out, v.dirtyOrder)
	return out
}

// SelectDirtyBudget returns up to budget dirty chunk indices in insertion
// order without clearing them — the caller (frame scheduler/renderer
// facade) stages and uploads them, then calls MarkChunksUploaded once the
// transfer has been recorded (upload protocol, step 2/5).
func (v *VoxelVolume) SelectDirtyBudget(budget int) []int {
	if budget <= 0 || len(v.dirtyOrder) == 0 {
		return nil
	}
	if budget > len(v.dirtyOrder) {
		budget = len(v.dirtyOrder)
	}
	out := make([]int, budget)
	copy(out, v.dirtyOrder[:budget])
	return out
}

// MarkChunksUploaded clears the supplied chunk indices from the dirty
// set, preserving order for whatever remains.
func (v *VoxelVolume) MarkChunksUploaded(indices []int) {
	if len(indices) == 0 {
		return
	}
	toClear := make(map[int]bool, len(indices))
	for _, i := range indices {
		toClear[i] = true
		delete(v.dirtySet, i)
	}
	remaining := v.dirtyOrder[:0]
	for _, i := range v.dirtyOrder {
		if !toClear[i] {
			remaining = append(remaining, i)
		}
	}
	v.dirtyOrder = remaining
}

// ChunkAt returns a pointer to the chunk at the given chunk-space
// coordinates, or nil if out of range.
func (v *VoxelVolume) ChunkAt(cx, cy, cz int) *Chunk {
	if cx < 0 || cy < 0 || cz < 0 || cx >= v.ChunksDim[0] || cy >= v.ChunksDim[1] || cz >= v.ChunksDim[2] {
		return nil
	}
	return &v.Chunks[v.chunkLinearIndex(cx, cy, cz)]
}

// TotalChunks is chunks_dim[0]*chunks_dim[1]*chunks_dim[2].
func (v *VoxelVolume) TotalChunks() int {
	return v.ChunksDim[0] * v.ChunksDim[1] * v.ChunksDim[2]
}
