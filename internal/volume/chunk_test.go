package volume

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallVolume(t *testing.T) *VoxelVolume {
	t.Helper()
	v, err := NewVoxelVolume(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{2 * ChunkSize, 2 * ChunkSize, 2 * ChunkSize},
		1.0,
		[3]int{2, 2, 2},
	)
	require.NoError(t, err)
	return v
}

func TestNewVoxelVolume_RejectsMismatchedBounds(t *testing.T) {
	_, err := NewVoxelVolume(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}, 1.0, [3]int{2, 2, 2})
	assert.Error(t, err)
}

func TestNewVoxelVolume_RejectsZeroVoxelSize(t *testing.T) {
	_, err := NewVoxelVolume(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{16, 16, 16}, 0, [3]int{2, 2, 2})
	assert.Error(t, err)
}

func TestSetAtGetAtRoundTrip(t *testing.T) {
	v := smallVolume(t)
	p := mgl32.Vec3{3, 4, 5}
	v.SetAt(p, 7)
	assert.Equal(t, uint8(7), v.GetAt(p))
}

func TestGetAtOutsideBoundsReturnsEmpty(t *testing.T) {
	v := smallVolume(t)
	assert.Equal(t, uint8(MaterialEmpty), v.GetAt(mgl32.Vec3{-1, 0, 0}))
	assert.Equal(t, uint8(MaterialEmpty), v.GetAt(mgl32.Vec3{1000, 0, 0}))
}

func TestSetAtOutsideBoundsIsNoop(t *testing.T) {
	v := smallVolume(t)
	before := len(v.IterDirtyChunks())
	v.SetAt(mgl32.Vec3{-5, -5, -5}, 3)
	assert.Equal(t, before, len(v.IterDirtyChunks()))
}

func TestEmptyChunkSolidCountIsZero(t *testing.T) {
	v := smallVolume(t)
	c := v.ChunkAt(0, 0, 0)
	require.NotNil(t, c)
	assert.Equal(t, uint32(0), c.Header.SolidCount)
	assert.Equal(t, uint8(0), c.Header.OccupancyMask2x2x2)
}

func TestSolidCountTracksWrites(t *testing.T) {
	v := smallVolume(t)
	v.SetAt(mgl32.Vec3{0, 0, 0}, 1)
	v.SetAt(mgl32.Vec3{1, 0, 0}, 2)
	c := v.ChunkAt(0, 0, 0)
	assert.Equal(t, uint32(2), c.Header.SolidCount)
	assert.NotZero(t, c.Header.OccupancyMask2x2x2)
}

func TestFillingChunkUniformlyCompresses(t *testing.T) {
	v := smallVolume(t)
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				v.SetAt(mgl32.Vec3{float32(x), float32(y), float32(z)}, 9)
			}
		}
	}
	c := v.ChunkAt(0, 0, 0)
	assert.True(t, c.Compressed)
	assert.Equal(t, uint8(9), c.SolidMaterial)
	assert.Equal(t, uint32(ChunkVoxelCount), c.Header.SolidCount)
	assert.Equal(t, uint8(0xFF), c.Header.OccupancyMask2x2x2)
	assert.Equal(t, uint8(9), v.GetAt(mgl32.Vec3{2, 2, 2}))
}

func TestWritingDifferentMaterialExpandsCompressedChunk(t *testing.T) {
	v := smallVolume(t)
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				v.SetAt(mgl32.Vec3{float32(x), float32(y), float32(z)}, 9)
			}
		}
	}
	v.SetAt(mgl32.Vec3{0, 0, 0}, 3)
	c := v.ChunkAt(0, 0, 0)
	assert.False(t, c.Compressed)
	assert.Equal(t, uint8(3), v.GetAt(mgl32.Vec3{0, 0, 0}))
	assert.Equal(t, uint8(9), v.GetAt(mgl32.Vec3{1, 0, 0}))
}

func TestDirtyChunksTrackedInInsertionOrder(t *testing.T) {
	v := smallVolume(t)
	v.SetAt(mgl32.Vec3{0, 0, 0}, 1)                               // chunk (0,0,0)
	v.SetAt(mgl32.Vec3{ChunkSize, ChunkSize, ChunkSize}, 1)        // chunk (1,1,1)
	v.SetAt(mgl32.Vec3{0, 0, 0}, 2)                                // re-dirty (0,0,0), no dup

	dirty := v.IterDirtyChunks()
	require.Len(t, dirty, 2)
	assert.Equal(t, v.chunkLinearIndex(0, 0, 0), dirty[0])
	assert.Equal(t, v.chunkLinearIndex(1, 1, 1), dirty[1])
}

func TestSelectDirtyBudgetAndMarkUploaded(t *testing.T) {
	v := smallVolume(t)
	for i := 0; i < v.TotalChunks(); i++ {
		v.markDirty(i)
	}
	budget := v.SelectDirtyBudget(3)
	require.Len(t, budget, 3)
	v.MarkChunksUploaded(budget)
	remaining := v.IterDirtyChunks()
	assert.Len(t, remaining, v.TotalChunks()-3)
	for _, idx := range budget {
		assert.NotContains(t, remaining, idx)
	}
}

func TestSelectDirtyBudgetClampsToAvailable(t *testing.T) {
	v := smallVolume(t)
	v.markDirty(0)
	budget := v.SelectDirtyBudget(100)
	assert.Len(t, budget, 1)
}

func TestChunkHeaderBytesIsFixedSize(t *testing.T) {
	var h ChunkHeader
	assert.Len(t, h.Bytes(), ChunkHeaderSize)
}

func TestTotalChunks(t *testing.T) {
	v := smallVolume(t)
	assert.Equal(t, 8, v.TotalChunks())
}
