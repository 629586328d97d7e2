package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// VoxelObjectRasterPass is pipeline stage 13: rasterizes each visible
// object's bounding cube, shading in the fragment stage from the object's
// atlas slice and discarding empty, inactive, or terrain-occluded
// fragments.
type VoxelObjectRasterPass struct {
	pipeline *wgpu.RenderPipeline
}

// CreateVoxelObjectRasterPass builds the render pipeline targeting the
// G-buffer albedo format, loaded (not cleared) so raster and raymarch
// output share one render target across the frame.
func CreateVoxelObjectRasterPass(device *wgpu.Device, colorFormat wgpu.TextureFormat) (*VoxelObjectRasterPass, error) {
	pipeline, err := createRasterPipeline(device, "Voxel Object Raster", shaders.VoxelObjectRasterWGSL, colorFormat, nil, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, err
	}
	return &VoxelObjectRasterPass{pipeline: pipeline}, nil
}

// Record draws instanceCount cube instances (36 vertices each, no vertex
// buffer — vs_main indexes a hardcoded corner table by vertex_index).
func (p *VoxelObjectRasterPass) Record(pass *wgpu.RenderPassEncoder, bindGroups []*wgpu.BindGroup, instanceCount uint32) {
	if instanceCount == 0 {
		return
	}
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.Draw(36, instanceCount, 0, 0)
}

// Layout returns the pipeline's auto-derived bind group layout at index,
// used by the renderer facade to build bind groups.
func (p *VoxelObjectRasterPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *VoxelObjectRasterPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
