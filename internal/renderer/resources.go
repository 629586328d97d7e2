package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

const blueNoiseDim = 64

// createSharedResources allocates the handful of small fixed-size GPU
// objects every frame's bind groups reference regardless of volume/scene
// content: samplers, the blue-noise texture ao_raymarch.wgsl reads, the
// dummy GI cascade bound when GI quality is 0, and the forward view-
// projection uniform voxel_object_raster.wgsl/particle_raster.wgsl need
// alongside the raymarch push-constant block's inverse matrices.
func (r *Renderer) createSharedResources() error {
	var err error

	r.linearSampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter: wgpu.FilterModeLinear, MagFilter: wgpu.FilterModeLinear, MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create linear sampler: %w", err)
	}
	r.atlasSampler = r.linearSampler
	r.giSampler = r.linearSampler
	r.uiSampler = r.linearSampler

	r.blueNoise, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "BlueNoise",
		Size:          wgpu.Extent3D{Width: blueNoiseDim, Height: blueNoiseDim, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create blue noise texture: %w", err)
	}
	r.blueNoiseView, err = r.blueNoise.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create blue noise view: %w", err)
	}
	r.device.GetQueue().WriteTexture(
		&wgpu.ImageCopyTexture{Texture: r.blueNoise, MipLevel: 0, Aspect: wgpu.TextureAspectAll},
		generateBlueNoise(blueNoiseDim),
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: blueNoiseDim * 4, RowsPerImage: blueNoiseDim},
		&wgpu.Extent3D{Width: blueNoiseDim, Height: blueNoiseDim, DepthOrArrayLayers: 1},
	)

	r.dummyGI3D, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "DummyGICascade",
		Size:          wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension3D,
		Format:        wgpu.TextureFormatRGBA16Float,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageStorageBinding,
	})
	if err != nil {
		return fmt.Errorf("create dummy GI cascade: %w", err)
	}
	r.dummyGI3DView, err = r.dummyGI3D.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create dummy GI cascade view: %w", err)
	}

	r.viewProjBuf, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ViewProj", Size: 64, Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create view-proj buffer: %w", err)
	}

	r.uiOverlay, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "UIOverlayDefault",
		Size:          wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create default UI overlay: %w", err)
	}
	r.uiOverlayView, err = r.uiOverlay.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create default UI overlay view: %w", err)
	}
	r.device.GetQueue().WriteTexture(
		&wgpu.ImageCopyTexture{Texture: r.uiOverlay, MipLevel: 0, Aspect: wgpu.TextureAspectAll},
		[]byte{0, 0, 0, 0},
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: 4, RowsPerImage: 1},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)

	// A placeholder particle buffer keeps the Particles bind group always
	// constructible even before the first SetParticles call; uploadParticles
	// replaces it via EnsureBuffer once real particle data exists.
	r.particleBuf, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Particles", Size: 32, Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create placeholder particle buffer: %w", err)
	}

	r.atlasView, err = r.sched.VoxelObjects.Texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create voxel object atlas view: %w", err)
	}

	for i := range r.giPropParams {
		r.giPropParams[i], err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "GIPropagateParams", Size: 16, Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create gi propagate params %d: %w", i, err)
		}
		data := make([]byte, 16)
		falloff := float32(0.85)
		energyConserve := float32(4.0)
		putF32(data[0:], falloff)
		putF32(data[4:], energyConserve)
		r.device.GetQueue().WriteBuffer(r.giPropParams[i], 0, data)
	}

	return nil
}

// generateBlueNoise fills a dim*dim RGBA8 texture with a deterministic
// low-discrepancy pattern (an R2 sequence, not true blue noise, but cheap
// and free of the visible low-frequency banding flat random bytes give
// ao_raymarch.wgsl's cosine sampling).
func generateBlueNoise(dim int) []byte {
	const g = 1.32471795724474602596
	a1, a2 := float32(1.0/g), float32(1.0/(g*g))
	data := make([]byte, dim*dim*4)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			i := y*dim + x
			u := frac(a1 * float32(i))
			v := frac(a2 * float32(i))
			off := i * 4
			data[off+0] = byte(u * 255)
			data[off+1] = byte(v * 255)
			data[off+2] = 0
			data[off+3] = 255
		}
	}
	return data
}

func frac(v float32) float32 {
	return v - float32(int(v))
}

// giDirtyWords is ceil(128^3/32), the level-0 cascade dirty bitmap's word
// count (gi_inject.wgsl's dirty_bitmap, indexed by flattened level-0 texel).
const giDirtyWords = 128 * 128 * 128 / 32

// ensureGIDirtyBuffer lazily allocates the dirty bitmap and, when giDirtyAll
// is set, fills it with all-ones (every level-0 texel re-injected this
// dispatch) per the whole-cascade-rebuild simplification noted on
// Renderer.giDirtyAll.
func (r *Renderer) ensureGIDirtyBuffer() error {
	allDirty := make([]byte, giDirtyWords*4)
	if r.giDirtyAll {
		for i := range allDirty {
			allDirty[i] = 0xff
		}
	}
	if r.giDirtyBuf == nil {
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "GIDirtyBitmap", Size: uint64(len(allDirty)),
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create gi dirty bitmap: %w", err)
		}
		r.giDirtyBuf = buf
	}
	r.device.GetQueue().WriteBuffer(r.giDirtyBuf, 0, allDirty)
	return nil
}

func (r *Renderer) releaseSharedResources() {
	if r.linearSampler != nil {
		r.linearSampler.Release()
	}
	if r.blueNoiseView != nil {
		r.blueNoiseView.Release()
	}
	if r.blueNoise != nil {
		r.blueNoise.Release()
	}
	if r.dummyGI3DView != nil {
		r.dummyGI3DView.Release()
	}
	if r.dummyGI3D != nil {
		r.dummyGI3D.Release()
	}
	if r.viewProjBuf != nil {
		r.viewProjBuf.Release()
	}
	if r.uiOverlayView != nil {
		r.uiOverlayView.Release()
	}
	if r.uiOverlay != nil {
		r.uiOverlay.Release()
	}
	for _, b := range r.giPropParams {
		if b != nil {
			b.Release()
		}
	}
	if r.giDirtyBuf != nil {
		r.giDirtyBuf.Release()
	}
	if r.atlasView != nil {
		r.atlasView.Release()
	}
	if r.particleBuf != nil {
		r.particleBuf.Release()
	}
}
