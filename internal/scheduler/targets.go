package scheduler

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// GBufferColorFormat is the format VoxelObjectRaster and ParticleRaster
// must be built against, since both render into GBuffer.AlbedoView
// (loaded, not cleared) rather than the swapchain.
const GBufferColorFormat = wgpu.TextureFormatRGBA8Unorm

// GBuffer holds the six full-resolution images produced by a single
// G-Buffer Raymarch dispatch. Formats favor a plain, confirmed-supported
// format set over tighter bit-packing (e.g. 10-10-10-2 normals, rg16f
// motion); the wider formats used here still satisfy every invariant, at
// the cost of some extra bandwidth a packed layout would have saved.
type GBuffer struct {
	Albedo         *wgpu.Texture
	AlbedoView     *wgpu.TextureView
	Normal         *wgpu.Texture
	NormalView     *wgpu.TextureView
	MaterialParams *wgpu.Texture
	MaterialView   *wgpu.TextureView
	LinearDepth    *wgpu.Texture
	DepthView      *wgpu.TextureView
	WorldPos       *wgpu.Texture
	WorldPosView   *wgpu.TextureView
	Motion         *wgpu.Texture
	MotionView     *wgpu.TextureView
}

func createTarget(device *wgpu.Device, label string, w, h uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scheduler: create target %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("scheduler: create target view %s: %w", label, err)
	}
	return tex, view, nil
}

// NewGBuffer allocates the six G-buffer images at w x h.
func NewGBuffer(device *wgpu.Device, w, h uint32) (*GBuffer, error) {
	storage := wgpu.TextureUsageStorageBinding
	g := &GBuffer{}
	var err error
	if g.Albedo, g.AlbedoView, err = createTarget(device, "GBuffer Albedo", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	if g.Normal, g.NormalView, err = createTarget(device, "GBuffer Normal", w, h, wgpu.TextureFormatRGBA16Float, storage); err != nil {
		return nil, err
	}
	if g.MaterialParams, g.MaterialView, err = createTarget(device, "GBuffer Material", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	if g.LinearDepth, g.DepthView, err = createTarget(device, "GBuffer LinearDepth", w, h, wgpu.TextureFormatR32Float, storage); err != nil {
		return nil, err
	}
	if g.WorldPos, g.WorldPosView, err = createTarget(device, "GBuffer WorldPos", w, h, wgpu.TextureFormatRGBA16Float, storage); err != nil {
		return nil, err
	}
	if g.Motion, g.MotionView, err = createTarget(device, "GBuffer Motion", w, h, wgpu.TextureFormatRGBA16Float, storage); err != nil {
		return nil, err
	}
	return g, nil
}

// Release destroys every G-buffer image.
func (g *GBuffer) Release() {
	for _, t := range []*wgpu.Texture{g.Albedo, g.Normal, g.MaterialParams, g.LinearDepth, g.WorldPos, g.Motion} {
		if t != nil {
			t.Release()
		}
	}
}

// LightingTargets holds the single-image outputs that feed through the
// deferred-lighting / TAA / spatial-denoise chain:
// visibility buffers for shadow/AO (r8unorm), the reflection pre-lit
// buffer, the lit color, and the denoised color blitted to swapchain.
type LightingTargets struct {
	Shadow     *History // r8unorm resolved visibility, ping-ponged across frames
	AO         *History // r8unorm resolved occlusion
	Reflection *History // rgba8unorm resolved pre-lit reflection
	TAAColor   *History // rgba8unorm TAA output, read back in as its own history

	// RawShadow/RawAO/RawReflection hold this frame's un-resolved raymarch
	// output before TemporalShadow/TemporalAO/
	// TemporalReflection blend it against the matching History's previous
	// resolved frame. Single-buffered: each is written once by its
	// raymarch pass and read once by its temporal pass within the same
	// RecordFrame call, so no cross-frame lifetime is needed.
	RawShadow     *wgpu.Texture
	RawShadowView *wgpu.TextureView
	RawAO         *wgpu.Texture
	RawAOView     *wgpu.TextureView
	RawReflection     *wgpu.Texture
	RawReflectionView *wgpu.TextureView

	LitColor      *wgpu.Texture
	LitColorView  *wgpu.TextureView
	Denoised      *wgpu.Texture
	DenoisedView  *wgpu.TextureView
}

// NewLightingTargets allocates the temporal histories and the five
// single-buffered intermediates (raw shadow/AO/reflection, lit, denoised).
func NewLightingTargets(device *wgpu.Device, w, h uint32) (*LightingTargets, error) {
	lt := &LightingTargets{}
	var err error
	storage := wgpu.TextureUsageStorageBinding
	if lt.Shadow, err = NewHistory(device, "Shadow History", w, h, wgpu.TextureFormatR8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.AO, err = NewHistory(device, "AO History", w, h, wgpu.TextureFormatR8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.Reflection, err = NewHistory(device, "Reflection History", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.TAAColor, err = NewHistory(device, "TAA History", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.RawShadow, lt.RawShadowView, err = createTarget(device, "Raw Shadow", w, h, wgpu.TextureFormatR8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.RawAO, lt.RawAOView, err = createTarget(device, "Raw AO", w, h, wgpu.TextureFormatR8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.RawReflection, lt.RawReflectionView, err = createTarget(device, "Raw Reflection", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.LitColor, lt.LitColorView, err = createTarget(device, "LitColor", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	if lt.Denoised, lt.DenoisedView, err = createTarget(device, "Denoised", w, h, wgpu.TextureFormatRGBA8Unorm, storage); err != nil {
		return nil, err
	}
	return lt, nil
}

// Release destroys every lighting target.
func (lt *LightingTargets) Release() {
	lt.Shadow.Release()
	lt.AO.Release()
	lt.Reflection.Release()
	lt.TAAColor.Release()
	for _, t := range []*wgpu.Texture{lt.RawShadow, lt.RawAO, lt.RawReflection} {
		if t != nil {
			t.Release()
		}
	}
	if lt.LitColor != nil {
		lt.LitColor.Release()
	}
	if lt.Denoised != nil {
		lt.Denoised.Release()
	}
}

// GICascade holds the four cascade levels. Levels are rgba16f,
// read-write storage textures: injected/propagated by compute, then
// sampled trilinearly by deferred lighting.
type GICascade struct {
	Levels [4]*wgpu.Texture
	Views  [4]*wgpu.TextureView
}

// NewGICascade allocates the four cascade textures at GICascadeDims.
func NewGICascade(device *wgpu.Device) (*GICascade, error) {
	gc := &GICascade{}
	for i, dim := range [4]uint32{128, 64, 32, 16} {
		tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         fmt.Sprintf("GI Cascade L%d", i),
			Size:          wgpu.Extent3D{Width: dim, Height: dim, DepthOrArrayLayers: dim},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension3D,
			Format:        wgpu.TextureFormatRGBA16Float,
			Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
		})
		if err != nil {
			return nil, fmt.Errorf("scheduler: create GI cascade level %d: %w", i, err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			return nil, fmt.Errorf("scheduler: create GI cascade view %d: %w", i, err)
		}
		gc.Levels[i] = tex
		gc.Views[i] = view
	}
	return gc, nil
}

// Release destroys every cascade level.
func (gc *GICascade) Release() {
	for _, t := range gc.Levels {
		if t != nil {
			t.Release()
		}
	}
}
