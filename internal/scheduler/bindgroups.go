package scheduler

import "github.com/cogentcore/webgpu/wgpu"

// FrameBindGroups collects one bind-group slice per pass for a single
// RecordFrame call. The renderer façade (internal/renderer) assembles
// these every frame via Scheduler.BindCache, since only it tracks each
// underlying resource's current generation (volume/atlas buffers grow,
// history images ping-pong). Keeping assembly there and consumption here
// matches ownership split: "each pass module exclusively
// owns its shader+layout objects and shares bindings to volume/atlas
// buffers (weak read-only references)".
type FrameBindGroups struct {
	GBuffer            []*wgpu.BindGroup
	Shadow             []*wgpu.BindGroup
	AO                 []*wgpu.BindGroup
	Reflection         []*wgpu.BindGroup
	TemporalShadow     []*wgpu.BindGroup
	TemporalAO         []*wgpu.BindGroup
	TemporalReflection []*wgpu.BindGroup
	GIInject           []*wgpu.BindGroup
	// GIPropagate holds one bind-group slice per level transition
	// (length GICascadeLevels-1), indexed [outputLevel-1].
	GIPropagate      [][]*wgpu.BindGroup
	VoxelObjects     []*wgpu.BindGroup
	Particles        []*wgpu.BindGroup
	DeferredLighting []*wgpu.BindGroup
	TAA              []*wgpu.BindGroup
	SpatialDenoise   []*wgpu.BindGroup
	Blit             []*wgpu.BindGroup
	UI               []*wgpu.BindGroup
}
