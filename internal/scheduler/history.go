package scheduler

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// historyImage pairs a texture with its default view; kept unexported
// since callers only ever need the view for bind groups.
type historyImage struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// History is a two-image ping-pong history buffer: each temporal pass
// owns history[2] and reads slot 1-w, writes slot w, where w = frame_index
// mod 2. A single image is doubled because the previous frame's image
// must remain readable while the current frame's is being written.
type History struct {
	images [2]historyImage
}

// NewHistory allocates a fresh ping-pong pair sized w x h in format.
// usage must include TextureBinding (for reads) and StorageBinding or
// RenderAttachment (for writes), per the owning pass's needs.
func NewHistory(device *wgpu.Device, label string, w, h uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*History, error) {
	h2 := &History{}
	for i := 0; i < 2; i++ {
		tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         fmt.Sprintf("%s[%d]", label, i),
			Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        format,
			Usage:         usage | wgpu.TextureUsageTextureBinding,
		})
		if err != nil {
			return nil, fmt.Errorf("scheduler: create history texture %s[%d]: %w", label, i, err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			return nil, fmt.Errorf("scheduler: create history view %s[%d]: %w", label, i, err)
		}
		h2.images[i] = historyImage{texture: tex, view: view}
	}
	return h2, nil
}

// Read returns the view for the slot NOT being written this frame
// (history from the previous frame).
func (h *History) Read(writeSlot int) *wgpu.TextureView {
	return h.images[1-writeSlot].view
}

// Write returns the view for the slot being written this frame.
func (h *History) Write(writeSlot int) *wgpu.TextureView {
	return h.images[writeSlot].view
}

// Release destroys both images.
func (h *History) Release() {
	for _, img := range h.images {
		if img.view != nil {
			img.view.Release()
		}
		if img.texture != nil {
			img.texture.Release()
		}
	}
}
