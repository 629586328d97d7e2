package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/material"
	"github.com/voxcore/voxrt/internal/scheduler"
)

// materialBufferName keys the palette's GPU buffer in the allocator's
// deferred-destroy bookkeeping (gpualloc.EnsureBuffer).
const materialBufferName = "MaterialPalette"

// UploadMaterialPalette replaces the active material palette and uploads
// it once per scene load. descriptors is indexed by material id; id 0
// (MaterialEmpty) is ignored.
func (r *Renderer) UploadMaterialPalette(descriptors map[uint8]material.Descriptor) error {
	p := material.NewPalette()
	for id, d := range descriptors {
		if id == 0 {
			continue
		}
		if err := p.Set(id, d); err != nil {
			return fmt.Errorf("renderer: upload_material_palette: %w", err)
		}
	}
	r.palette = p

	data := p.Bytes()
	r.sched.Alloc.EnsureBuffer(materialBufferName, &r.materialBuf, data,
		wgpu.BufferUsageStorage, 0, r.sched.Frame.FrameIndex, scheduler.FramesInFlight)
	return nil
}
