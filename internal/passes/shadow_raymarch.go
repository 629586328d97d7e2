package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// ShadowRaymarchPass is pipeline stage 2 (): per-pixel
// occlusion trace toward the directional light, with optional
// contact-hardening.
type ShadowRaymarchPass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateShadowRaymarchPass(device *wgpu.Device) (*ShadowRaymarchPass, error) {
	pipeline, err := createComputePipeline(device, "Shadow Raymarch", shaders.ShadowRaymarchWGSL)
	if err != nil {
		return nil, err
	}
	return &ShadowRaymarchPass{pipeline: pipeline}, nil
}

func (p *ShadowRaymarchPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *ShadowRaymarchPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *ShadowRaymarchPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
