package passes

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// temporalPass is the shared shape behind the three near-identical
// temporal-resolve stages (shadow r8, AO r8, reflection rgba8) — same
// reprojection/rejection/blend structure, different texture formats and
// rejection tests. Each gets its own named Create/Record/Destroy wrapper
// below so the scheduler never holds a bare temporalPass or dispatches
// through an interface.
type temporalPass struct {
	pipeline *wgpu.ComputePipeline
}

func newTemporalPass(device *wgpu.Device, label, source string) (*temporalPass, error) {
	pipeline, err := createComputePipeline(device, label, source)
	if err != nil {
		return nil, err
	}
	return &temporalPass{pipeline: pipeline}, nil
}

func (p *temporalPass) record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	pass.SetPipeline(p.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	wx, wy := workgroups2D(width, height)
	pass.DispatchWorkgroups(wx, wy, 1)
}

// Layout returns the pipeline's auto-derived bind group layout at index.
// Embedding *temporalPass gives each of the three named wrappers this
// method without repeating it.
func (p *temporalPass) Layout(index uint32) *wgpu.BindGroupLayout {
	return p.pipeline.GetBindGroupLayout(index)
}

func (p *temporalPass) destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}

// TemporalShadowPass resolves the shadow raymarch's r8 visibility image
// against its history buffer.
type TemporalShadowPass struct{ *temporalPass }

func CreateTemporalShadowPass(device *wgpu.Device) (*TemporalShadowPass, error) {
	p, err := newTemporalPass(device, "Temporal Shadow", shaders.TemporalShadowWGSL)
	if err != nil {
		return nil, err
	}
	return &TemporalShadowPass{p}, nil
}

func (p *TemporalShadowPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	p.record(pass, bindGroups, width, height)
}

func (p *TemporalShadowPass) Destroy() { p.destroy() }

// TemporalAOPass resolves the AO raymarch's r8 image.
type TemporalAOPass struct{ *temporalPass }

func CreateTemporalAOPass(device *wgpu.Device) (*TemporalAOPass, error) {
	p, err := newTemporalPass(device, "Temporal AO", shaders.TemporalAOWGSL)
	if err != nil {
		return nil, err
	}
	return &TemporalAOPass{p}, nil
}

func (p *TemporalAOPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	p.record(pass, bindGroups, width, height)
}

func (p *TemporalAOPass) Destroy() { p.destroy() }

// TemporalReflectionPass resolves the reflection raymarch's rgba8 image.
type TemporalReflectionPass struct{ *temporalPass }

func CreateTemporalReflectionPass(device *wgpu.Device) (*TemporalReflectionPass, error) {
	p, err := newTemporalPass(device, "Temporal Reflection", shaders.TemporalReflectionWGSL)
	if err != nil {
		return nil, err
	}
	return &TemporalReflectionPass{p}, nil
}

func (p *TemporalReflectionPass) Record(pass *wgpu.ComputePassEncoder, bindGroups []*wgpu.BindGroup, width, height uint32) {
	p.record(pass, bindGroups, width, height)
}

func (p *TemporalReflectionPass) Destroy() { p.destroy() }
