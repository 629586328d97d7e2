package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/logx"
	"github.com/voxcore/voxrt/internal/mathx"
	"github.com/voxcore/voxrt/internal/object"
	"github.com/voxcore/voxrt/internal/scheduler"
	"github.com/voxcore/voxrt/internal/volume"
)

const bvhBufferName = "SceneBVH"

// SetParticles replaces the particle list RenderFrame uploads and draws
// this frame.
func (r *Renderer) SetParticles(particles []ParticleInstance) {
	r.particles = particles
}

// RenderFrame culls and commits the scene, uploads the particle buffer,
// assembles every pass's bind groups against this frame's resources, and
// records+submits+presents one frame.
//
// volume/objects/particles are already live on the Renderer via
// InitVolume/UploadDirtyChunks/AddVoxelObject/SetParticles; RenderFrame
// itself takes no scene arguments, since the facade's other methods are
// the only way scene state reaches the renderer.
func (r *Renderer) RenderFrame() error {
	if r.vol == nil {
		return fmt.Errorf("renderer: render_frame: init_volume was never called")
	}

	r.sched.Frame.Begin()
	slot := r.sched.Frame.InFlightSlot

	vp := r.sched.Frame.Projection.Mul4(r.sched.Frame.View)
	frustum := mathx.ExtractFrustum(vp)
	r.scene.Commit(frustum, nil)

	visible := make(map[*object.VoxelObject]bool, len(r.scene.VisibleObjects))
	for _, obj := range r.scene.VisibleObjects {
		visible[obj] = true
	}

	r.uploadParticles()
	r.sched.VoxelObjects.UploadDirty(r.sched.Frame.FrameIndex, scheduler.FramesInFlight, visible)
	r.uploadBVH()

	pc := r.sched.Frame.BuildPushConstants(r.volumeFields())

	bg, err := r.buildBindGroups(slot, vp)
	if err != nil {
		return fmt.Errorf("renderer: render_frame: %w", err)
	}

	nextTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		// Recoverable: reconfigure and drop this frame rather than
		// treating an out-of-date swapchain as fatal.
		logx.Warnf(logTag, "acquire swapchain texture: %v, reconfiguring", err)
		r.surface.Configure(r.adapter, r.device, r.config)
		return nil
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("renderer: render_frame: create swapchain view: %w", err)
	}
	defer view.Release()

	instanceCount := uint32(r.sched.VoxelObjects.Atlas.UsedBound())
	particleCount := uint32(len(r.particles))

	if err := r.sched.RecordFrame(pc, bg, instanceCount, particleCount, view); err != nil {
		return fmt.Errorf("renderer: render_frame: %w", err)
	}
	r.sched.EndFrame()
	r.giDirtyAll = false

	r.surface.Present()
	return nil
}

// volumeFields translates the live volume and scene into the
// scheduler.VolumeFields the scheduler needs every frame — wire fields
// not owned by FrameState.
func (r *Renderer) volumeFields() scheduler.VolumeFields {
	v := r.vol
	return scheduler.VolumeFields{
		BoundsMin:           v.BoundsMin,
		BoundsMax:           v.BoundsMax,
		VoxelSize:           v.VoxelSize,
		ChunkSize:           float32(volume.ChunkSize),
		GridSize:            [3]int32{int32(v.ChunksDim[0]), int32(v.ChunksDim[1]), int32(v.ChunksDim[2])},
		TotalChunks:         int32(v.TotalChunks()),
		ChunksDim:           [3]int32{int32(v.ChunksDim[0]), int32(v.ChunksDim[1]), int32(v.ChunksDim[2])},
		ObjectCount:         int32(len(r.scene.VisibleObjects)),
		NearPlane:           0.05,
		FarPlane:            1.0e8,
		DebugMode:           0,
		MaxSteps:            512,
		ObjectShadowQuality: int32(r.sched.Frame.Quality.Level(scheduler.QualityShadow)),
		ShadowContact:       1,
	}
}

func (r *Renderer) uploadParticles() {
	data := make([]byte, 0, len(r.particles)*32)
	for _, p := range r.particles {
		data = append(data, p.Bytes()...)
	}
	if len(data) == 0 {
		return
	}
	r.sched.Alloc.EnsureBuffer(particleBufferName, &r.particleBuf, data,
		wgpu.BufferUsageStorage, 0, r.sched.Frame.FrameIndex, scheduler.FramesInFlight)
}

func (r *Renderer) uploadBVH() {
	data := r.scene.BVHNodes
	if len(data) == 0 {
		data = make([]byte, 64)
	}
	r.sched.Alloc.EnsureBuffer(bvhBufferName, &r.bvhBuf, data,
		wgpu.BufferUsageStorage, 0, r.sched.Frame.FrameIndex, scheduler.FramesInFlight)
}

const particleBufferName = "Particles"
