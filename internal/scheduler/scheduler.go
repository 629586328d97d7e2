package scheduler

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/gpualloc"
	"github.com/voxcore/voxrt/internal/logx"
	"github.com/voxcore/voxrt/internal/passes"
	"github.com/voxcore/voxrt/internal/respool"
	"github.com/voxcore/voxrt/internal/shadowvol"
	"github.com/voxcore/voxrt/internal/vobjatlas"
)

const logTag = "scheduler"

// Scheduler owns every pass module and the resources shared across a
// frame, and records one frame in the strict order defines:
// one CommandEncoder, a sequence of BeginComputePass/BeginRenderPass
// scopes each ended before the next begins, then one Submit (the renderer
// façade presents afterwards).
// wgpu tracks resource state automatically across those scope boundaries,
// with no explicit barrier call needed, so the scheduler's "minimal
// image-memory barrier" requirement is satisfied by simply ending each
// pass before the next reads its output.
type Scheduler struct {
	device *wgpu.Device

	GBufferRaymarch    *passes.GBufferRaymarchPass
	ShadowRaymarch     *passes.ShadowRaymarchPass
	AORaymarch         *passes.AORaymarchPass
	ReflectionRaymarch *passes.ReflectionRaymarchPass
	TemporalShadow     *passes.TemporalShadowPass
	TemporalAO         *passes.TemporalAOPass
	TemporalReflection *passes.TemporalReflectionPass
	GIInject           *passes.GIInjectPass
	GIPropagate        *passes.GIPropagatePass
	VoxelObjectRaster  *passes.VoxelObjectRasterPass
	ParticleRaster     *passes.ParticleRasterPass
	DeferredLighting   *passes.DeferredLightingPass
	TAA                *passes.TAAPass
	SpatialDenoise     *passes.SpatialDenoisePass
	Blit               *passes.BlitPass
	UIRaster           *passes.UIRasterPass

	ShadowVolume *shadowvol.Service
	VoxelObjects *vobjatlas.Manager
	Alloc        *gpualloc.Allocator

	Uniforms  *respool.FrameUniforms
	BindCache *respool.BindGroupCache
	State     *StateCache
	Profiler  *Profiler

	GBuffer  *GBuffer
	Lighting *LightingTargets
	GI       *GICascade

	Frame *FrameState

	width, height uint32
}

// New builds every pass, allocates frame-resolution targets, and wires
// the shadow-volume and voxel-object-atlas services into one scheduler.
//
// swapchainFormat is the surface's negotiated presentation format (the
// caller's caps.Formats[0]), used only by Blit and UIRaster, which draw
// straight onto the swapchain view. VoxelObjectRaster and ParticleRaster always
// target GBuffer.AlbedoView and so are built against GBufferColorFormat
// regardless of swapchainFormat.
func New(device *wgpu.Device, swapchainFormat wgpu.TextureFormat, width, height uint32) (*Scheduler, error) {
	s := &Scheduler{
		device:    device,
		State:     NewStateCache(),
		Profiler:  NewProfiler(),
		Frame:     NewFrameState(),
		Alloc:     gpualloc.New(device),
		BindCache: respool.NewBindGroupCache(device),
		width:     width,
		height:    height,
	}

	var err error
	if s.GBufferRaymarch, err = passes.CreateGBufferRaymarchPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.ShadowRaymarch, err = passes.CreateShadowRaymarchPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.AORaymarch, err = passes.CreateAORaymarchPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.ReflectionRaymarch, err = passes.CreateReflectionRaymarchPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.TemporalShadow, err = passes.CreateTemporalShadowPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.TemporalAO, err = passes.CreateTemporalAOPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.TemporalReflection, err = passes.CreateTemporalReflectionPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.GIInject, err = passes.CreateGIInjectPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.GIPropagate, err = passes.CreateGIPropagatePass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.VoxelObjectRaster, err = passes.CreateVoxelObjectRasterPass(device, GBufferColorFormat); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.ParticleRaster, err = passes.CreateParticleRasterPass(device, GBufferColorFormat); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.DeferredLighting, err = passes.CreateDeferredLightingPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.TAA, err = passes.CreateTAAPass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.SpatialDenoise, err = passes.CreateSpatialDenoisePass(device); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.Blit, err = passes.CreateBlitPass(device, swapchainFormat); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.UIRaster, err = passes.CreateUIRasterPass(device, swapchainFormat); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	if s.VoxelObjects, err = vobjatlas.New(device, s.Alloc); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.Uniforms, err = respool.NewFrameUniforms(device, FramesInFlight, PushConstantsSize); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	if err := s.resizeTargets(width, height); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	return s, nil
}

func (s *Scheduler) resizeTargets(width, height uint32) error {
	if s.GBuffer != nil {
		s.GBuffer.Release()
	}
	if s.Lighting != nil {
		s.Lighting.Release()
	}
	var err error
	if s.GBuffer, err = NewGBuffer(s.device, width, height); err != nil {
		return err
	}
	if s.Lighting, err = NewLightingTargets(s.device, width, height); err != nil {
		return err
	}
	s.width, s.height = width, height
	return nil
}

// Resize tears down and rebuilds swapchain-sized resources only
// (idempotent if the extent is unchanged) and forces history_valid=0
// for the next frame.
func (s *Scheduler) Resize(width, height uint32) error {
	if width == s.width && height == s.height {
		return nil
	}
	if err := s.resizeTargets(width, height); err != nil {
		return err
	}
	s.Frame.InvalidateHistory()
	return nil
}

// EnsureGI lazily allocates the GI cascade textures the first time GI
// quality is raised above 0; later calls return without reallocating.
// Full re-injection after enabling GI or replacing the volume is driven
// by the renderer façade's dirty bitmap, not by this call.
func (s *Scheduler) EnsureGI() error {
	if s.GI != nil {
		return nil
	}
	gi, err := NewGICascade(s.device)
	if err != nil {
		return err
	}
	s.GI = gi
	return nil
}

// EnsureShadowVolume lazily constructs the shadow-volume staging service
// once the volume's pyramid capacity is known (); the
// scheduler can't size it at New time since that depends on the volume
// the renderer façade loads afterward.
func (s *Scheduler) EnsureShadowVolume(capacity uint64) error {
	if s.ShadowVolume != nil {
		return nil
	}
	svc, err := shadowvol.New(s.device, s.Alloc, capacity)
	if err != nil {
		return err
	}
	s.ShadowVolume = svc
	return nil
}

// RecordFrame records and submits one frame in strict
// order, eliding any pass whose quality level is 0.
//
// Calling contract (begin_frame / end-of-frame bookkeeping):
// the caller — internal/renderer — must call s.Frame.Begin() first (which
// resolves in_flight_slot and history_valid for this frame), then build pc
// via s.Frame.BuildPushConstants and assemble bg against s.Frame.InFlightSlot
// (since only the renderer façade can see every resource's current
// generation: volume/atlas buffer growth, which history slot is being
// written this frame). After RecordFrame returns, the caller calls
// s.EndFrame() to record prev_view/prev_projection and retire timed-out
// pending-destroy resources.
func (s *Scheduler) RecordFrame(pc PushConstants, bg FrameBindGroups, instanceCount, particleCount uint32, swapchainView *wgpu.TextureView) error {
	s.Profiler.Reset()
	s.State.Reset()
	w := s.Frame.InFlightSlot

	s.Uniforms.Write(s.device, w, pc.Pack())

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("scheduler: create command encoder: %w", err)
	}

	s.Profiler.Begin("gbuffer")
	cPass := encoder.BeginComputePass(nil)
	s.GBufferRaymarch.Record(cPass, bg.GBuffer, s.width, s.height)
	if err := cPass.End(); err != nil {
		return fmt.Errorf("scheduler: end gbuffer pass: %w", err)
	}
	s.Profiler.End("gbuffer")

	if s.Frame.Quality.Level(QualityShadow) > 0 {
		s.Profiler.Begin("shadow")
		cPass = encoder.BeginComputePass(nil)
		s.ShadowRaymarch.Record(cPass, bg.Shadow, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end shadow pass: %w", err)
		}
		s.Profiler.End("shadow")
	}
	if s.Frame.Quality.Level(QualityAO) > 0 {
		s.Profiler.Begin("ao")
		cPass = encoder.BeginComputePass(nil)
		s.AORaymarch.Record(cPass, bg.AO, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end ao pass: %w", err)
		}
		s.Profiler.End("ao")
	}
	if s.Frame.Quality.Level(QualityReflection) > 0 {
		s.Profiler.Begin("reflection")
		cPass = encoder.BeginComputePass(nil)
		s.ReflectionRaymarch.Record(cPass, bg.Reflection, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end reflection pass: %w", err)
		}
		s.Profiler.End("reflection")
	}

	s.Profiler.Begin("temporal")
	if s.Frame.Quality.Level(QualityShadow) > 0 {
		cPass = encoder.BeginComputePass(nil)
		s.TemporalShadow.Record(cPass, bg.TemporalShadow, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end temporal-shadow pass: %w", err)
		}
	}
	if s.Frame.Quality.Level(QualityAO) > 0 {
		cPass = encoder.BeginComputePass(nil)
		s.TemporalAO.Record(cPass, bg.TemporalAO, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end temporal-ao pass: %w", err)
		}
	}
	if s.Frame.Quality.Level(QualityReflection) > 0 {
		cPass = encoder.BeginComputePass(nil)
		s.TemporalReflection.Record(cPass, bg.TemporalReflection, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end temporal-reflection pass: %w", err)
		}
	}
	s.Profiler.End("temporal")

	if s.Frame.Quality.Level(QualityGI) > 0 && s.GI != nil {
		s.Profiler.Begin("gi")
		cPass = encoder.BeginComputePass(nil)
		s.GIInject.Record(cPass, bg.GIInject)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end gi-inject pass: %w", err)
		}
		for level := 1; level < passes.GICascadeLevels; level++ {
			cPass = encoder.BeginComputePass(nil)
			s.GIPropagate.Record(cPass, bg.GIPropagate[level-1], level)
			if err := cPass.End(); err != nil {
				return fmt.Errorf("scheduler: end gi-propagate level %d: %w", level, err)
			}
		}
		s.Profiler.End("gi")
	}

	s.Profiler.Begin("vobj+particles")
	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    s.GBuffer.AlbedoView,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	s.VoxelObjectRaster.Record(rPass, bg.VoxelObjects, instanceCount)
	s.ParticleRaster.Record(rPass, bg.Particles, particleCount)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("scheduler: end vobj/particle pass: %w", err)
	}
	s.Profiler.End("vobj+particles")

	s.Profiler.Begin("deferred")
	cPass = encoder.BeginComputePass(nil)
	s.DeferredLighting.Record(cPass, bg.DeferredLighting, s.width, s.height)
	if err := cPass.End(); err != nil {
		return fmt.Errorf("scheduler: end deferred-lighting pass: %w", err)
	}
	s.Profiler.End("deferred")

	if s.Frame.Quality.Level(QualityTAA) > 0 {
		s.Profiler.Begin("taa")
		cPass = encoder.BeginComputePass(nil)
		s.TAA.Record(cPass, bg.TAA, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end taa pass: %w", err)
		}
		s.Profiler.End("taa")
	}

	if s.Frame.Quality.Level(QualityDenoise) > 0 {
		s.Profiler.Begin("denoise")
		cPass = encoder.BeginComputePass(nil)
		s.SpatialDenoise.Record(cPass, bg.SpatialDenoise, s.width, s.height)
		if err := cPass.End(); err != nil {
			return fmt.Errorf("scheduler: end spatial-denoise pass: %w", err)
		}
		s.Profiler.End("denoise")
	}

	s.Profiler.Begin("blit")
	rPass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       swapchainView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	s.Blit.Record(rPass, bg.Blit)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("scheduler: end blit pass: %w", err)
	}
	s.Profiler.End("blit")

	s.Profiler.Begin("ui")
	rPass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    swapchainView,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	s.UIRaster.Record(rPass, bg.UI)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("scheduler: end ui pass: %w", err)
	}
	s.Profiler.End("ui")

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("scheduler: finish command encoder: %w", err)
	}
	s.device.GetQueue().Submit(cmd)

	logx.Debugf(logTag, "frame %d slot %d: %s", s.Frame.FrameIndex, w, s.Profiler.Report())
	return nil
}

// EndFrame records prev_view/prev_projection for the next frame's
// reprojection and retires any GPU resource whose deferred-destroy
// timeline has passed. Call once after RecordFrame returns successfully.
func (s *Scheduler) EndFrame() {
	s.Frame.End()
	s.Alloc.Retire(s.Frame.FrameIndex)
}

// Release destroys every pass, target, and service the scheduler owns.
func (s *Scheduler) Release() {
	s.GBufferRaymarch.Destroy()
	s.ShadowRaymarch.Destroy()
	s.AORaymarch.Destroy()
	s.ReflectionRaymarch.Destroy()
	s.TemporalShadow.Destroy()
	s.TemporalAO.Destroy()
	s.TemporalReflection.Destroy()
	s.GIInject.Destroy()
	s.GIPropagate.Destroy()
	s.VoxelObjectRaster.Destroy()
	s.ParticleRaster.Destroy()
	s.DeferredLighting.Destroy()
	s.TAA.Destroy()
	s.SpatialDenoise.Destroy()
	s.Blit.Destroy()
	s.UIRaster.Destroy()

	if s.GBuffer != nil {
		s.GBuffer.Release()
	}
	if s.Lighting != nil {
		s.Lighting.Release()
	}
	if s.GI != nil {
		s.GI.Release()
	}
	if s.VoxelObjects != nil {
		s.VoxelObjects.Release()
	}
	if s.ShadowVolume != nil {
		s.ShadowVolume.Release()
	}
	if s.Uniforms != nil {
		s.Uniforms.Release()
	}
}
