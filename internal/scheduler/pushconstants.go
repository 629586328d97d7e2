// Package scheduler orders the sixteen pipeline passes into one strictly
// sequenced frame record and owns the per-frame state that every pass
// reads a prefix of: the 256-byte push-constant block, the
// view/projection history, and quality levels.
package scheduler

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PushConstantsSize is the fixed size of the universal raymarch block:
// every raymarch/temporal pass reads a prefix of it so one CPU-side
// value can be pushed to all of them.
const PushConstantsSize = 256

// PushConstants is the universal raymarch block. Field order and offsets
// are the wire contract and must not be reordered.
type PushConstants struct {
	InvView       mgl32.Mat4
	InvProjection mgl32.Mat4

	BoundsMin mgl32.Vec3
	VoxelSize float32

	BoundsMax mgl32.Vec3
	ChunkSize float32

	CameraPos    mgl32.Vec3
	HistoryValid int32

	GridSize    [3]int32
	TotalChunks int32

	ChunksDim  [3]int32
	FrameCount int32

	ObjectShadowQuality int32
	DebugMode           int32
	IsOrthographic      int32
	MaxSteps            int32

	NearPlane    float32
	FarPlane     float32
	ObjectCount  int32
	ShadowQuality int32

	ShadowContact    int32
	AOQuality        int32
	LODQuality       int32
	ReflectionQuality int32
}

// Pack serializes the block into a 256-byte little-endian buffer: one
// flat byte buffer, offsets computed by hand, math.Float32bits per
// component, matching the raymarch push-constant contract.
func (p *PushConstants) Pack() []byte {
	buf := make([]byte, PushConstantsSize)

	putMat := func(offset int, m mgl32.Mat4) {
		for i, v := range m {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	putF32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}
	putI32 := func(offset int, v int32) {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(v))
	}
	putVec3 := func(offset int, v mgl32.Vec3) {
		putF32(offset, v[0])
		putF32(offset+4, v[1])
		putF32(offset+8, v[2])
	}

	putMat(0, p.InvView)
	putMat(64, p.InvProjection)

	putVec3(128, p.BoundsMin)
	putF32(140, p.VoxelSize)

	putVec3(144, p.BoundsMax)
	putF32(156, p.ChunkSize)

	putVec3(160, p.CameraPos)
	putI32(172, p.HistoryValid)

	putI32(176, p.GridSize[0])
	putI32(180, p.GridSize[1])
	putI32(184, p.GridSize[2])
	putI32(188, p.TotalChunks)

	putI32(192, p.ChunksDim[0])
	putI32(196, p.ChunksDim[1])
	putI32(200, p.ChunksDim[2])
	putI32(204, p.FrameCount)

	putI32(208, p.ObjectShadowQuality)
	putI32(212, p.DebugMode)
	putI32(216, p.IsOrthographic)
	putI32(220, p.MaxSteps)

	putF32(224, p.NearPlane)
	putF32(228, p.FarPlane)
	putI32(232, p.ObjectCount)
	putI32(236, p.ShadowQuality)

	putI32(240, p.ShadowContact)
	putI32(244, p.AOQuality)
	putI32(248, p.LODQuality)
	putI32(252, p.ReflectionQuality)

	return buf
}

// VolumeFields carries the push-constant fields the scheduler can't know
// on its own — they describe the volume/camera-projection/quality state
// the renderer façade owns — so BuildPushConstants can merge them with
// the FrameState it does own (view/proj history, history_valid).
type VolumeFields struct {
	BoundsMin, BoundsMax mgl32.Vec3
	VoxelSize            float32
	ChunkSize            float32
	GridSize             [3]int32
	TotalChunks          int32
	ChunksDim            [3]int32
	ObjectCount          int32
	NearPlane, FarPlane  float32
	DebugMode            int32
	MaxSteps             int32
	ObjectShadowQuality  int32
	ShadowContact        int32
}

// BuildPushConstants merges this frame's camera/history state with the
// caller-supplied volume fields and the current quality snapshot into one
// 256-byte block (PushConstants).
func (fs *FrameState) BuildPushConstants(v VolumeFields) PushConstants {
	historyValid := int32(0)
	if fs.HistoryValid {
		historyValid = 1
	}
	isOrtho := int32(0)
	if fs.IsOrthographic {
		isOrtho = 1
	}
	return PushConstants{
		InvView:       fs.View.Inv(),
		InvProjection: fs.Projection.Inv(),
		BoundsMin:     v.BoundsMin,
		VoxelSize:     v.VoxelSize,
		BoundsMax:     v.BoundsMax,
		ChunkSize:     v.ChunkSize,
		CameraPos:     fs.CameraPos,
		HistoryValid:  historyValid,
		GridSize:      v.GridSize,
		TotalChunks:   v.TotalChunks,
		ChunksDim:     v.ChunksDim,
		FrameCount:    int32(fs.FrameIndex),

		ObjectShadowQuality: v.ObjectShadowQuality,
		DebugMode:           v.DebugMode,
		IsOrthographic:      isOrtho,
		MaxSteps:            v.MaxSteps,

		NearPlane:     v.NearPlane,
		FarPlane:      v.FarPlane,
		ObjectCount:   v.ObjectCount,
		ShadowQuality: int32(fs.Quality.Level(QualityShadow)),

		ShadowContact:     v.ShadowContact,
		AOQuality:         int32(fs.Quality.Level(QualityAO)),
		LODQuality:        int32(fs.Quality.Level(QualityLOD)),
		ReflectionQuality: int32(fs.Quality.Level(QualityReflection)),
	}
}
