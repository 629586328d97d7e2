// Package renderer implements the external interface: the façade a
// host embeds to drive one deferred voxel-raymarch frame loop. It owns
// device/surface lifetime and wires internal/scheduler, internal/volume,
// internal/object, internal/vobjatlas, internal/shadowvol and
// internal/material into the eleven operations the façade exposes.
//
// Device/adapter/surface bring-up, resize, and per-frame sequencing are
// split across renderer.go/volume.go/objects.go/material.go/frame.go along
// the façade's operation boundaries instead of one monolithic type.
package renderer

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxcore/voxrt/internal/logx"
	"github.com/voxcore/voxrt/internal/material"
	"github.com/voxcore/voxrt/internal/object"
	"github.com/voxcore/voxrt/internal/scheduler"
	"github.com/voxcore/voxrt/internal/shadowvol"
	"github.com/voxcore/voxrt/internal/vobjatlas"
	"github.com/voxcore/voxrt/internal/volume"
)

const logTag = "renderer"

// Renderer is the façade. Persisted state: none beyond what a caller
// builds up through these methods (the renderer itself holds no
// saved-scene concept and reads no environment variable —
// VOXRT_SCENE_HINT is read only by the host in cmd/voxrt-demo).
type Renderer struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	surface  *wgpu.Surface
	config   *wgpu.SurfaceConfiguration

	sched *scheduler.Scheduler

	palette     *material.Palette
	materialBuf *wgpu.Buffer
	vol         *volume.VoxelVolume
	headerBuf   *wgpu.Buffer
	voxelBuf    *wgpu.Buffer
	scene       *object.Scene
	shadow      *shadowvol.Pyramid
	bvhBuf      *wgpu.Buffer

	particles   []ParticleInstance
	particleBuf *wgpu.Buffer

	// giDirtyAll tracks the gi_inject.wgsl dirty-bitmap simplification:
	// rather than map chunk-space dirty indices into cascade-texel space,
	// any volume load, chunk upload or SetQuality call enabling GI marks
	// the whole cascade for re-injection. RenderFrame clears the flag after
	// every frame it records, whether or not GI ran in that frame.
	giDirtyAll    bool
	giDirtyBuf    *wgpu.Buffer
	giPropParams  [3]*wgpu.Buffer
	giSampler     *wgpu.Sampler
	dummyGI3D     *wgpu.Texture
	dummyGI3DView *wgpu.TextureView

	viewProjBuf *wgpu.Buffer

	atlasView    *wgpu.TextureView
	atlasSampler *wgpu.Sampler

	blueNoise     *wgpu.Texture
	blueNoiseView *wgpu.TextureView
	linearSampler *wgpu.Sampler

	uiOverlay     *wgpu.Texture
	uiOverlayView *wgpu.TextureView
	uiSampler     *wgpu.Sampler

	width, height uint32
}

// Create brings up the WebGPU instance/adapter/device against
// surfaceDesc (the host's platform surface, e.g. wgpuglfw.
// GetSurfaceDescriptor(window)) and configures a swapchain at
// initialWidth x initialHeight.
func Create(surfaceDesc *wgpu.SurfaceDescriptor, initialWidth, initialHeight uint32) (*Renderer, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(surfaceDesc)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 {
		return nil, fmt.Errorf("renderer: surface reports no supported formats")
	}
	format := caps.Formats[0]

	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       initialWidth,
		Height:      initialHeight,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	sched, err := scheduler.New(device, format, initialWidth, initialHeight)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r := &Renderer{
		instance: instance,
		adapter:  adapter,
		device:   device,
		surface:  surface,
		config:   config,
		sched:    sched,
		palette:  material.NewPalette(),
		scene:    object.NewScene(1.0),
		width:    initialWidth,
		height:   initialHeight,
	}
	if err := r.createSharedResources(); err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	logx.Infof(logTag, "device ready, swapchain %dx%d format=%v", initialWidth, initialHeight, format)
	return r, nil
}

// Resize tears down and rebuilds swapchain-sized resources only;
// idempotent if the extent hasn't changed.
func (r *Renderer) Resize(newWidth, newHeight uint32) error {
	if newWidth == r.width && newHeight == r.height {
		return nil
	}
	r.config.Width = newWidth
	r.config.Height = newHeight
	r.surface.Configure(r.adapter, r.device, r.config)
	if err := r.sched.Resize(newWidth, newHeight); err != nil {
		return fmt.Errorf("renderer: resize: %w", err)
	}
	r.width, r.height = newWidth, newHeight
	return nil
}

// SetQuality sets one of the eight tunable quality fields: rt, shadow,
// ao, reflection, lod, gi, taa, denoise; levels 0..3.
func (r *Renderer) SetQuality(field scheduler.QualityField, level int) {
	r.sched.Frame.Quality.Set(field, level)
	if field == scheduler.QualityGI && level > 0 {
		if err := r.sched.EnsureGI(); err != nil {
			logx.Errorf(logTag, "enable GI: %v", err)
			return
		}
		r.giDirtyAll = true
	}
}

// SetCamera updates the view/projection/position the next RenderFrame
// uses to build push constants and cull the scene.
func (r *Renderer) SetCamera(view, projection mgl32.Mat4, pos mgl32.Vec3, isOrthographic bool) {
	r.sched.Frame.SetCamera(view, projection, pos, isOrthographic)
}

// InitVoxelObjects caps the voxel-object atlas at maxObjects. The atlas
// itself is sized fixed at vobjatlas.MaxObjects; this simply validates
// the caller's expectation fits.
func (r *Renderer) InitVoxelObjects(maxObjects int) error {
	if maxObjects > vobjatlas.MaxObjects {
		return fmt.Errorf("renderer: init_voxel_objects: %d exceeds atlas capacity %d", maxObjects, vobjatlas.MaxObjects)
	}
	return nil
}

// Release tears down every GPU resource the renderer owns.
func (r *Renderer) Release() {
	r.releaseSharedResources()
	r.sched.Release()
	r.device.Release()
	r.adapter.Release()
	r.surface.Release()
	r.instance.Release()
}

func putF32(b []byte, v float32) {
	u := math.Float32bits(v)
	b[0] = byte(u)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}
