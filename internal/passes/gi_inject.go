package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// GICascadeDims are the four cascade level dimensions: level 0 is the
// finest (128), level 3 the coarsest (16), each texel covering 2^level
// voxels.
var GICascadeDims = [4]uint32{128, 64, 32, 16}

// GIInjectPass is pipeline stage 11, the injection half: writes direct
// lighting into cascade level 0 for occupied, dirty texels only.
type GIInjectPass struct {
	pipeline *wgpu.ComputePipeline
}

func CreateGIInjectPass(device *wgpu.Device) (*GIInjectPass, error) {
	pipeline, err := createComputePipeline(device, "GI Inject", shaders.GIInjectWGSL)
	if err != nil {
		return nil, err
	}
	return &GIInjectPass{pipeline: pipeline}, nil
}

// Record dispatches one 4x4x4 workgroup per block of the level-0 cascade
// (dims GICascadeDims[0]^3).
func (p *GIInjectPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	dim := GICascadeDims[0]
	wx, wy, wz := workgroups3D([3]uint32{dim, dim, dim})
	pass.DispatchWorkgroups(wx, wy, wz)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *GIInjectPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *GIInjectPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
