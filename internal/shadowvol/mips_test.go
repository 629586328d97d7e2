package shadowvol

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/voxcore/voxrt/internal/volume"
)

func newTestVolume(t *testing.T, dims [3]int) *volume.VoxelVolume {
	t.Helper()
	voxelSize := float32(1.0)
	extent := mgl32.Vec3{
		float32(dims[0] * volume.ChunkSize),
		float32(dims[1] * volume.ChunkSize),
		float32(dims[2] * volume.ChunkSize),
	}
	v, err := volume.NewVoxelVolume(mgl32.Vec3{0, 0, 0}, extent, voxelSize, dims)
	require.NoError(t, err)
	return v
}

func TestBuildMip0MatchesSolidCounts(t *testing.T) {
	v := newTestVolume(t, [3]int{2, 2, 2})
	v.SetAt(mgl32.Vec3{0.5, 0.5, 0.5}, 1)

	p := Build(v)

	require.Equal(t, [3]int{2, 2, 2}, p.Mips[0].Dims)
	require.Equal(t, byte(1), p.Mips[0].at(0, 0, 0))
	require.Equal(t, byte(0), p.Mips[0].at(1, 0, 0))
}

func TestBuildMip0ClampsSolidCountTo255(t *testing.T) {
	v := newTestVolume(t, [3]int{1, 1, 1})
	c := v.ChunkAt(0, 0, 0)
	c.Header.SolidCount = 9999

	p := Build(v)

	require.Equal(t, byte(255), p.Mips[0].at(0, 0, 0))
}

func TestMaxPoolHalvesDimensionsWithCeil(t *testing.T) {
	v := newTestVolume(t, [3]int{3, 1, 1})

	p := Build(v)

	require.Equal(t, [3]int{3, 1, 1}, p.Mips[0].Dims)
	require.Equal(t, [3]int{2, 1, 1}, p.Mips[1].Dims)
	require.Equal(t, [3]int{1, 1, 1}, p.Mips[2].Dims)
}

func TestMaxPoolTakesMaxOfBlock(t *testing.T) {
	v := newTestVolume(t, [3]int{2, 2, 2})
	v.ChunkAt(0, 0, 0).Header.SolidCount = 5
	v.ChunkAt(1, 0, 0).Header.SolidCount = 200
	v.ChunkAt(0, 1, 0).Header.SolidCount = 1
	v.ChunkAt(1, 1, 1).Header.SolidCount = 40

	p := Build(v)

	require.Equal(t, byte(200), p.Mips[1].at(0, 0, 0))
}

func TestOrInPlaceKeepsMax(t *testing.T) {
	v := newTestVolume(t, [3]int{1, 1, 1})
	p := Build(v)

	p.OrInPlace(0, 0, 0, 10)
	require.Equal(t, byte(10), p.Mips[0].at(0, 0, 0))

	p.OrInPlace(0, 0, 0, 3)
	require.Equal(t, byte(10), p.Mips[0].at(0, 0, 0))

	p.OrInPlace(0, 0, 0, 20)
	require.Equal(t, byte(20), p.Mips[0].at(0, 0, 0))
}

func TestOrInPlaceOutOfRangeIsNoop(t *testing.T) {
	v := newTestVolume(t, [3]int{1, 1, 1})
	p := Build(v)

	require.NotPanics(t, func() {
		p.OrInPlace(-1, 0, 0, 10)
		p.OrInPlace(5, 5, 5, 10)
	})
}
