package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// AORaymarchPass is pipeline stage 3 (): short hemisphere
// traces for ambient occlusion, sample count scaled by quality tier.
type AORaymarchPass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateAORaymarchPass(device *wgpu.Device) (*AORaymarchPass, error) {
	pipeline, err := createComputePipeline(device, "AO Raymarch", shaders.AORaymarchWGSL)
	if err != nil {
		return nil, err
	}
	return &AORaymarchPass{pipeline: pipeline}, nil
}

func (p *AORaymarchPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *AORaymarchPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *AORaymarchPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
