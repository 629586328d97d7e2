package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// UIRasterPass is pipeline stage 15 (design notes, "render_ui"
// in the scheduler's record sequence): blits a host-supplied overlay
// texture over the swapchain image via a fullscreen triangle. Actual UI
// content rasterization is the host application's concern.
type UIRasterPass struct {
	pipeline *wgpu.RenderPipeline
}

func CreateUIRasterPass(device *wgpu.Device, colorFormat wgpu.TextureFormat) (*UIRasterPass, error) {
	pipeline, err := createRasterPipeline(device, "UI Raster", shaders.UIRasterWGSL, colorFormat, alphaBlend, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return nil, err
	}
	return &UIRasterPass{pipeline: pipeline}, nil
}

// Record draws a single fullscreen triangle (3 vertices, no vertex
// buffer, no instancing).
func (p *UIRasterPass) Record(pass *wgpu.RenderPassEncoder, bindGroups []*wgpu.BindGroup) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.Draw(3, 1, 0, 0)
}

// Layout returns the pipeline's auto-derived bind group layout at index,
// used by the renderer facade to build bind groups.
func (p *UIRasterPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *UIRasterPass) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
