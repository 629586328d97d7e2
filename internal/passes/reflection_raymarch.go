package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// ReflectionRaymarchPass is pipeline stage 4 (): mirror-ray
// trace for surfaces below the roughness skip threshold.
type ReflectionRaymarchPass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateReflectionRaymarchPass(device *wgpu.Device) (*ReflectionRaymarchPass, error) {
	pipeline, err := createComputePipeline(device, "Reflection Raymarch", shaders.ReflectionRaymarchWGSL)
	if err != nil {
		return nil, err
	}
	return &ReflectionRaymarchPass{pipeline: pipeline}, nil
}

func (p *ReflectionRaymarchPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *ReflectionRaymarchPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *ReflectionRaymarchPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
