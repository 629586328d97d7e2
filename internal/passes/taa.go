package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// TAAPass is pipeline stage 8: 3x3 neighborhood clamp plus history blend
// on the deferred-lit image. Note: TAA and Spatial-Denoise run after
// Deferred-Lighting in the record sequence, not before it — the
// "lit_color" input here is the deferred pass's output, and TAA's own
// output feeds Spatial-Denoise.
type TAAPass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateTAAPass(device *wgpu.Device) (*TAAPass, error) {
	pipeline, err := createComputePipeline(device, "TAA", shaders.TAAWGSL)
	if err != nil {
		return nil, err
	}
	return &TAAPass{pipeline: pipeline}, nil
}

func (p *TAAPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *TAAPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *TAAPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
