package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// ParticleRasterPass is pipeline stage 14 (): camera-facing
// billboards built from ParticleInstance{pos,size,color}, alpha-blended
// (source-over) into the G-buffer albedo target ahead of deferred lighting.
type ParticleRasterPass struct {
	pipeline *wgpu.RenderPipeline
}

func CreateParticleRasterPass(device *wgpu.Device, colorFormat wgpu.TextureFormat) (*ParticleRasterPass, error) {
	pipeline, err := createRasterPipeline(device, "Particle Raster", shaders.ParticleRasterWGSL, colorFormat, alphaBlend, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, err
	}
	return &ParticleRasterPass{pipeline: pipeline}, nil
}

// Record draws particleCount billboards (6 vertices each, no vertex
// buffer — vs_main builds the quad from a hardcoded offset table).
func (p *ParticleRasterPass) Record(pass *wgpu.RenderPassEncoder, bindGroups []*wgpu.BindGroup, particleCount uint32) {
	if particleCount == 0 {
		return
	}
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.Draw(6, particleCount, 0, 0)
}

// Layout returns the pipeline's auto-derived bind group layout at index,
// used by the renderer facade to build bind groups.
func (p *ParticleRasterPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *ParticleRasterPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
