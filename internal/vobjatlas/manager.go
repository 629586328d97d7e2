package vobjatlas

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/gpualloc"
	"github.com/voxcore/voxrt/internal/object"
)

// sliceVoxelCount is VOBJ_GRID_DIM^3, one atlas slice's byte payload.
const sliceVoxelCount = object.VobjGridDim * object.VobjGridDim * object.VobjGridDim

// Manager owns the atlas's GPU-side resources: the 3D material-id texture
// and the per-object metadata SSBO. Atlas itself (slot assignment, dirty
// bitmap) stays GPU-resource-free so it can be unit tested directly.
//
// The metadata SSBO is rewritten in full every frame; the brick payload
// upload goes straight through queue.WriteTexture into the 3D atlas
// texture, one voxel-object slice per dirty budget entry.
type Manager struct {
	device *wgpu.Device
	alloc  *gpualloc.Allocator

	Atlas *Atlas

	Texture  *wgpu.Texture
	Metadata *wgpu.Buffer
}

// New creates the atlas texture (VOBJ_GRID_DIM x VOBJ_GRID_DIM x
// VOBJ_GRID_DIM*MaxObjects).
func New(device *wgpu.Device, alloc *gpualloc.Allocator) (*Manager, error) {
	tex, err := alloc.CreateTexture(&wgpu.TextureDescriptor{
		Label: "VoxelObjectAtlas",
		Size: wgpu.Extent3D{
			Width:              object.VobjGridDim,
			Height:             object.VobjGridDim,
			DepthOrArrayLayers: object.VobjGridDim * MaxObjects,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension3D,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("vobjatlas: create atlas texture: %w", err)
	}

	return &Manager{
		device:  device,
		alloc:   alloc,
		Atlas:   NewAtlas(),
		Texture: tex,
	}, nil
}

// UploadDirty writes up to DirtyBudgetPerFrame dirty objects' grid
// payloads into their atlas slices via queue.WriteTexture, then rewrites
// the full metadata SSBO (cheap every frame, <= MaxObjects*192B). visible
// reports which objects survived this frame's frustum/occlusion cull;
// a slot whose object isn't in it gets its metadata active flag cleared
// so the raster pass skips it without touching slot assignment.
func (m *Manager) UploadDirty(currentTimeline uint64, framesInFlight int, visible map[*object.VoxelObject]bool) {
	dirty := m.Atlas.SelectDirtyBudget()
	for _, slice := range dirty {
		slot := m.Atlas.slots[slice]
		var payload []byte
		if slot.Object == nil {
			payload = make([]byte, sliceVoxelCount)
		} else {
			payload = slot.Object.Grid[:]
		}

		m.device.GetQueue().WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  m.Texture,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: uint32(slice) * object.VobjGridDim},
				Aspect:   wgpu.TextureAspectAll,
			},
			payload,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  object.VobjGridDim,
				RowsPerImage: object.VobjGridDim,
			},
			&wgpu.Extent3D{
				Width:              object.VobjGridDim,
				Height:             object.VobjGridDim,
				DepthOrArrayLayers: object.VobjGridDim,
			},
		)
	}
	m.Atlas.MarkUploaded(dirty)

	meta := make([]byte, 0, MaxObjects*MetadataRecordSize)
	for slice, slot := range m.Atlas.slots {
		meta = append(meta, MetadataRecord(slice, slot.Object, visible[slot.Object])...)
	}
	m.alloc.EnsureBuffer("VoxelObjectMetadata", &m.Metadata, meta,
		wgpu.BufferUsageStorage, 0, currentTimeline, framesInFlight)
}

// Release frees GPU resources.
func (m *Manager) Release() {
	if m.Texture != nil {
		m.Texture.Release()
	}
	if m.Metadata != nil {
		m.Metadata.Release()
	}
}
