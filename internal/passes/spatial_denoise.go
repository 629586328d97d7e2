package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// SpatialDenoisePass is pipeline stage 9 (): a single-pass
// edge-stopping bilateral filter over the TAA output, guided by linear
// depth and normal.
type SpatialDenoisePass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateSpatialDenoisePass(device *wgpu.Device) (*SpatialDenoisePass, error) {
	pipeline, err := createComputePipeline(device, "Spatial Denoise", shaders.SpatialDenoiseWGSL)
	if err != nil {
		return nil, err
	}
	return &SpatialDenoisePass{pipeline: pipeline}, nil
}

func (p *SpatialDenoisePass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *SpatialDenoisePass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *SpatialDenoisePass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
