package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// GICascadeLevels is the cascade depth: one injection level plus three
// propagation steps.
const GICascadeLevels = len(GICascadeDims)

// GIPropagatePass is pipeline stage 12, the propagation half: one
// instance is dispatched per fine-to-coarse level transition
// (GICascadeLevels-1 dispatches total), reading level k and writing
// level k+1 with a 2x2x2 box filter.
type GIPropagatePass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateGIPropagatePass(device *wgpu.Device) (*GIPropagatePass, error) {
	pipeline, err := createComputePipeline(device, "GI Propagate", shaders.GIPropagateWGSL)
	if err != nil {
		return nil, err
	}
	return &GIPropagatePass{pipeline: pipeline}, nil
}

// Record dispatches one level transition. outputLevel is the level being
// written (1..GICascadeLevels-1); its dimensions size the dispatch.
func (p *GIPropagatePass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, outputLevel int) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	dim := GICascadeDims[outputLevel]
	wx, wy, wz := workgroups3D([3]uint32{dim, dim, dim})
	pass.DispatchWorkgroups(wx, wy, wz)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *GIPropagatePass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *GIPropagatePass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
