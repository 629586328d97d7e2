package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxcore/voxrt/internal/logx"
	"github.com/voxcore/voxrt/internal/scheduler"
	"github.com/voxcore/voxrt/internal/shadowvol"
	"github.com/voxcore/voxrt/internal/volume"
)

const (
	chunkHeaderBufferName = "ChunkHeaders"
	voxelPayloadBufferName = "VoxelPayload"
)

// VolumeDesc is InitVolume's parameter: the fixed shape a voxel volume
// is built from (bounds, voxel size, chunk grid dimensions).
type VolumeDesc struct {
	BoundsMin, BoundsMax mgl32.Vec3
	VoxelSize            float32
	ChunksDim            [3]int
}

// InitVolume establishes chunk counts and allocates the device-local
// header/voxel-payload buffers sized from desc, and lazily sizes the
// shadow-volume staging service now that the pyramid's mip0 byte count
// (one byte per chunk) is known.
func (r *Renderer) InitVolume(desc VolumeDesc) error {
	v, err := volume.NewVoxelVolume(desc.BoundsMin, desc.BoundsMax, desc.VoxelSize, desc.ChunksDim)
	if err != nil {
		return fmt.Errorf("renderer: init_volume: %w", err)
	}
	r.vol = v
	r.giDirtyAll = true

	headerData := packAllHeaders(v)
	payloadData := packAllVoxels(v)
	r.sched.Alloc.EnsureBuffer(chunkHeaderBufferName, &r.headerBuf, headerData,
		wgpu.BufferUsageStorage, 0, r.sched.Frame.FrameIndex, scheduler.FramesInFlight)
	r.sched.Alloc.EnsureBuffer(voxelPayloadBufferName, &r.voxelBuf, payloadData,
		wgpu.BufferUsageStorage, 0, r.sched.Frame.FrameIndex, scheduler.FramesInFlight)

	pyramidCapacity := shadowvol.Flatten(shadowvol.Build(v))
	if err := r.sched.EnsureShadowVolume(uint64(len(pyramidCapacity))); err != nil {
		return fmt.Errorf("renderer: init_volume: %w", err)
	}
	return nil
}

// packAllHeaders packs every chunk's header back to back, in chunk
// linear-index order, matching voxel_payload's per-chunk DataOffset units.
func packAllHeaders(v *volume.VoxelVolume) []byte {
	out := make([]byte, 0, v.TotalChunks()*volume.ChunkHeaderSize)
	for i := range v.Chunks {
		out = append(out, v.Chunks[i].Header.Bytes()...)
	}
	return out
}

// packAllVoxels flattens every chunk's per-voxel material-id byte array
// into common.wgsl's voxel_payload: array<u32>, 4 voxels per word,
// little-endian (voxel 0 in the low byte), matching putU32's byte order.
func packAllVoxels(v *volume.VoxelVolume) []byte {
	out := make([]byte, v.TotalChunks()*volume.ChunkVoxelCount)
	for i := range v.Chunks {
		base := i * volume.ChunkVoxelCount
		c := &v.Chunks[i]
		if c.Compressed {
			for j := 0; j < volume.ChunkVoxelCount; j++ {
				out[base+j] = c.SolidMaterial
			}
			continue
		}
		copy(out[base:base+volume.ChunkVoxelCount], c.Voxels[:])
	}
	return out
}

// UploadDirtyChunks stages up to budget dirty chunks' headers and voxel
// payloads to their device-local buffers and returns the count uploaded.
func (r *Renderer) UploadDirtyChunks(budget int) int {
	indices := r.vol.SelectDirtyBudget(budget)
	if len(indices) == 0 {
		return 0
	}
	queue := r.device.GetQueue()
	for _, idx := range indices {
		c := &r.vol.Chunks[idx]
		queue.WriteBuffer(r.headerBuf, uint64(idx*volume.ChunkHeaderSize), c.Header.Bytes())

		payload := make([]byte, volume.ChunkVoxelCount)
		if c.Compressed {
			for j := range payload {
				payload[j] = c.SolidMaterial
			}
		} else {
			copy(payload, c.Voxels[:])
		}
		queue.WriteBuffer(r.voxelBuf, uint64(idx*volume.ChunkVoxelCount), payload)
	}
	r.vol.MarkChunksUploaded(indices)
	r.giDirtyAll = true
	return len(indices)
}

// UpdateShadowVolume rebuilds the shadow-mip pyramid from the current
// volume contents and stages it through the shadow-volume service's
// upload ring. Objects/particles don't participate in the shadow
// volume, which scopes it to the static chunk grid only, so those
// parameters aren't needed here.
//
// Uses a renderer-owned encoder/submit separate from RecordFrame's
// internal one, since shadowvol.Service.Upload requires an externally
// supplied CommandEncoder, logically prior to the dispatch sequence.
func (r *Renderer) UpdateShadowVolume() error {
	if r.sched.ShadowVolume == nil {
		return nil
	}
	pyramid := shadowvol.Build(r.vol)
	r.shadow = pyramid

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("renderer: update_shadow_volume: create encoder: %w", err)
	}
	// completedTimeline approximates the GPU's completed-frame counter:
	// the renderer tracks no fence, so it assumes strict in-order
	// completion FramesInFlight frames behind the current submission
	// (steady-state pipeline depth).
	var completedTimeline uint64
	if r.sched.Frame.FrameIndex > uint64(scheduler.FramesInFlight) {
		completedTimeline = r.sched.Frame.FrameIndex - uint64(scheduler.FramesInFlight)
	}
	blocked, err := r.sched.ShadowVolume.Upload(encoder, pyramid, r.sched.Frame.FrameIndex, completedTimeline, uint64(scheduler.FramesInFlight))
	if err != nil {
		return fmt.Errorf("renderer: update_shadow_volume: %w", err)
	}
	if blocked {
		logx.Warnf(logTag, "shadow volume upload ring caught up to an in-flight frame, stalling")
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("renderer: update_shadow_volume: finish encoder: %w", err)
	}
	r.device.GetQueue().Submit(cmd)
	return nil
}
