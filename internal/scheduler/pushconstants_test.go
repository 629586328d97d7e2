package scheduler

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPackIsFixedSize(t *testing.T) {
	pc := PushConstants{}
	if got := len(pc.Pack()); got != PushConstantsSize {
		t.Fatalf("Pack() length = %d, want %d", got, PushConstantsSize)
	}
}

func TestPackRoundTripsScalarFields(t *testing.T) {
	pc := PushConstants{
		VoxelSize:         0.5,
		ChunkSize:         8,
		HistoryValid:      1,
		TotalChunks:       42,
		FrameCount:        100,
		NearPlane:         0.1,
		FarPlane:          1000,
		ObjectCount:       3,
		ShadowQuality:     2,
		AOQuality:         1,
		LODQuality:        3,
		ReflectionQuality: 2,
	}
	buf := pc.Pack()

	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[140:])); got != pc.VoxelSize {
		t.Errorf("voxel_size = %v, want %v", got, pc.VoxelSize)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[156:])); got != pc.ChunkSize {
		t.Errorf("chunk_size = %v, want %v", got, pc.ChunkSize)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[172:])); got != pc.HistoryValid {
		t.Errorf("history_valid = %v, want %v", got, pc.HistoryValid)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[188:])); got != pc.TotalChunks {
		t.Errorf("total_chunks = %v, want %v", got, pc.TotalChunks)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[204:])); got != pc.FrameCount {
		t.Errorf("frame_count = %v, want %v", got, pc.FrameCount)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[252:])); got != pc.ReflectionQuality {
		t.Errorf("reflection_quality = %v, want %v", got, pc.ReflectionQuality)
	}
}

func TestPackRoundTripsMatrices(t *testing.T) {
	m := mgl32.Mat4{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	pc := PushConstants{InvView: m}
	buf := pc.Pack()
	for i := 0; i < 16; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != m[i] {
			t.Fatalf("InvView[%d] = %v, want %v", i, got, m[i])
		}
	}
}

func TestBuildPushConstantsMarksHistoryValid(t *testing.T) {
	fs := NewFrameState()
	fs.Begin()
	pc := fs.BuildPushConstants(VolumeFields{})
	if pc.HistoryValid != 0 {
		t.Fatalf("first frame history_valid = %d, want 0", pc.HistoryValid)
	}
	fs.End()
	fs.Begin()
	pc = fs.BuildPushConstants(VolumeFields{})
	if pc.HistoryValid != 1 {
		t.Fatalf("second frame history_valid = %d, want 1", pc.HistoryValid)
	}
}
