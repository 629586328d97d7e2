package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// BlitPass writes the frame's final post-processed color onto the
// swapchain image ("blit", between spatial-denoise and
// render_ui) so UIRasterPass's load-and-composite has content to load.
type BlitPass struct {
	pipeline *wgpu.RenderPipeline
}

func CreateBlitPass(device *wgpu.Device, colorFormat wgpu.TextureFormat) (*BlitPass, error) {
	pipeline, err := createRasterPipeline(device, "Blit", shaders.BlitWGSL, colorFormat, nil, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, err
	}
	return &BlitPass{pipeline: pipeline}, nil
}

// Record draws a single fullscreen triangle copying source to the bound
// render target (the swapchain view, cleared beforehand by the caller).
func (p *BlitPass) Record(pass *wgpu.RenderPassEncoder, bindGroups []*wgpu.BindGroup) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.Draw(3, 1, 0, 0)
}

// Layout returns the pipeline's auto-derived bind group layout at index.
func (p *BlitPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *BlitPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
