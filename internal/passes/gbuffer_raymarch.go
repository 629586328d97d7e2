package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// GBufferRaymarchPass is pipeline stage 1 of 15 (): per-pixel
// hierarchical DDA through the chunk grid, producing albedo, normal,
// material, depth, position and motion images in one dispatch.
type GBufferRaymarchPass struct {
	pipeline *wgpu.ComputePipeline
}

// CreateGBufferRaymarchPass compiles the pipeline.
func CreateGBufferRaymarchPass(device *wgpu.Device) (*GBufferRaymarchPass, error) {
	pipeline, err := createComputePipeline(device, "GBuffer Raymarch", shaders.GBufferRaymarchWGSL)
	if err != nil {
		return nil, err
	}
	return &GBufferRaymarchPass{pipeline: pipeline}, nil
}

// Record dispatches one workgroup per 8x8 pixel block of the target
// resolution. bindGroups[0] is the shared push-constant group, [1] the
// volume/material storage buffers, [2] the output storage textures.
func (p *GBufferRaymarchPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at
// index, used by the renderer facade to build bind groups.
func (p *GBufferRaymarchPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

// Destroy releases the pipeline.
func (p *GBufferRaymarchPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
