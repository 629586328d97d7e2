package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// DeferredLightingPass is pipeline stage 10 (): combines the
// G-buffer with shadow visibility, AO, reflection and (optionally) the GI
// cascade into lit_color.
type DeferredLightingPass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateDeferredLightingPass(device *wgpu.Device) (*DeferredLightingPass, error) {
	pipeline, err := createComputePipeline(device, "Deferred Lighting", shaders.DeferredLightingWGSL)
	if err != nil {
		return nil, err
	}
	return &DeferredLightingPass{pipeline: pipeline}, nil
}

func (p *DeferredLightingPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *DeferredLightingPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *DeferredLightingPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
