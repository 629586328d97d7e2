package shadowvol

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/voxcore/voxrt/internal/volume"
)

func TestFlattenConcatenatesMipsInOrder(t *testing.T) {
	v, err := volume.NewVoxelVolume(mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{float32(2 * volume.ChunkSize), float32(2 * volume.ChunkSize), float32(2 * volume.ChunkSize)},
		1.0, [3]int{2, 2, 2})
	require.NoError(t, err)

	p := Build(v)
	flat := Flatten(p)

	wantLen := len(p.Mips[0].Data) + len(p.Mips[1].Data) + len(p.Mips[2].Data)
	require.Len(t, flat, wantLen)
	require.Equal(t, p.Mips[0].Data, flat[:len(p.Mips[0].Data)])
}
