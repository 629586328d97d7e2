package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxcore/voxrt/internal/passes"
	"github.com/voxcore/voxrt/internal/scheduler"
)

// buildBindGroups assembles every pass's bind groups for this frame.
//
// Every bind group is rebuilt through Scheduler.BindCache with invalidate
// always set: several of the underlying buffers (chunk headers, voxel
// payload, material palette, particles, the scene BVH) can be reallocated
// by gpualloc.Allocator.EnsureBuffer on any frame a dirty-chunk or object
// upload grows them, and tracking each buffer's generation individually
// to skip unnecessary rebuilds would add bookkeeping this renderer doesn't
// need yet — wgpu bind group creation is cheap next to a raymarch compute
// dispatch. DESIGN.md records this as a deliberate simplification.
func (r *Renderer) buildBindGroups(slot int, viewProj mgl32.Mat4) (scheduler.FrameBindGroups, error) {
	var bg scheduler.FrameBindGroups
	s := r.sched
	pcBuf := s.Uniforms.Buffer(slot)

	r.device.GetQueue().WriteBuffer(r.viewProjBuf, 0, mat4Bytes(viewProj))

	pcEntry := func() wgpu.BindGroupEntry {
		return wgpu.BindGroupEntry{Binding: 0, Buffer: pcBuf, Size: wgpu.WholeSize}
	}
	bufEntry := func(binding uint32, buf *wgpu.Buffer) wgpu.BindGroupEntry {
		return wgpu.BindGroupEntry{Binding: binding, Buffer: buf, Size: wgpu.WholeSize}
	}
	viewEntry := func(binding uint32, view *wgpu.TextureView) wgpu.BindGroupEntry {
		return wgpu.BindGroupEntry{Binding: binding, TextureView: view}
	}
	samplerEntry := func(binding uint32, s *wgpu.Sampler) wgpu.BindGroupEntry {
		return wgpu.BindGroupEntry{Binding: binding, Sampler: s}
	}

	make0 := func(key string, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error) {
		return s.BindCache.GetOrCreate(key, true, func() *wgpu.BindGroupDescriptor {
			return &wgpu.BindGroupDescriptor{Layout: layout, Entries: []wgpu.BindGroupEntry{pcEntry()}}
		})
	}
	make1 := func(key string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
		return s.BindCache.GetOrCreate(key, true, func() *wgpu.BindGroupDescriptor {
			return &wgpu.BindGroupDescriptor{Layout: layout, Entries: entries}
		})
	}

	var err error
	errf := func(stage string, e error) bool {
		if e != nil {
			err = fmt.Errorf("renderer: build bind groups: %s: %w", stage, e)
			return true
		}
		return false
	}

	g := s.GBuffer
	lt := s.Lighting

	// --- GBuffer Raymarch ---
	gb0, e := make0("gbuffer/0", s.GBufferRaymarch.Layout(0))
	if errf("gbuffer g0", e) {
		return bg, err
	}
	gb1, e := make1("gbuffer/1", s.GBufferRaymarch.Layout(1), []wgpu.BindGroupEntry{
		bufEntry(0, r.headerBuf), bufEntry(1, r.voxelBuf), bufEntry(2, r.materialBuf), bufEntry(3, r.bvhBuf),
	})
	if errf("gbuffer g1", e) {
		return bg, err
	}
	gb2, e := make1("gbuffer/2", s.GBufferRaymarch.Layout(2), []wgpu.BindGroupEntry{
		viewEntry(0, g.AlbedoView), viewEntry(1, g.NormalView), viewEntry(2, g.MaterialView),
		viewEntry(3, g.DepthView), viewEntry(4, g.WorldPosView), viewEntry(5, g.MotionView),
	})
	if errf("gbuffer g2", e) {
		return bg, err
	}
	bg.GBuffer = []*wgpu.BindGroup{gb0, gb1, gb2}

	// --- Shadow Raymarch ---
	if s.Frame.Quality.Level(scheduler.QualityShadow) > 0 {
		sh0, e := make0("shadow/0", s.ShadowRaymarch.Layout(0))
		if errf("shadow g0", e) {
			return bg, err
		}
		sh1, e := make1("shadow/1", s.ShadowRaymarch.Layout(1), []wgpu.BindGroupEntry{
			bufEntry(0, r.headerBuf), viewEntry(1, g.WorldPosView), viewEntry(2, g.NormalView),
		})
		if errf("shadow g1", e) {
			return bg, err
		}
		sh2, e := make1("shadow/2", s.ShadowRaymarch.Layout(2), []wgpu.BindGroupEntry{
			viewEntry(0, lt.RawShadowView),
		})
		if errf("shadow g2", e) {
			return bg, err
		}
		bg.Shadow = []*wgpu.BindGroup{sh0, sh1, sh2}
	}

	// --- AO Raymarch ---
	if s.Frame.Quality.Level(scheduler.QualityAO) > 0 {
		ao0, e := make0("ao/0", s.AORaymarch.Layout(0))
		if errf("ao g0", e) {
			return bg, err
		}
		ao1, e := make1("ao/1", s.AORaymarch.Layout(1), []wgpu.BindGroupEntry{
			bufEntry(0, r.headerBuf), viewEntry(1, g.WorldPosView), viewEntry(2, g.NormalView), viewEntry(3, r.blueNoiseView),
		})
		if errf("ao g1", e) {
			return bg, err
		}
		ao2, e := make1("ao/2", s.AORaymarch.Layout(2), []wgpu.BindGroupEntry{viewEntry(0, lt.RawAOView)})
		if errf("ao g2", e) {
			return bg, err
		}
		bg.AO = []*wgpu.BindGroup{ao0, ao1, ao2}
	}

	// --- Reflection Raymarch ---
	if s.Frame.Quality.Level(scheduler.QualityReflection) > 0 {
		rf0, e := make0("reflection/0", s.ReflectionRaymarch.Layout(0))
		if errf("reflection g0", e) {
			return bg, err
		}
		rf1, e := make1("reflection/1", s.ReflectionRaymarch.Layout(1), []wgpu.BindGroupEntry{
			bufEntry(0, r.headerBuf), bufEntry(1, r.materialBuf), viewEntry(2, g.WorldPosView),
			viewEntry(3, g.NormalView), viewEntry(4, g.MaterialView), viewEntry(5, lt.RawShadowView),
		})
		if errf("reflection g1", e) {
			return bg, err
		}
		rf2, e := make1("reflection/2", s.ReflectionRaymarch.Layout(2), []wgpu.BindGroupEntry{viewEntry(0, lt.RawReflectionView)})
		if errf("reflection g2", e) {
			return bg, err
		}
		bg.Reflection = []*wgpu.BindGroup{rf0, rf1, rf2}
	}

	// --- Temporal resolves (read raw + opposite-slot history, write this slot) ---
	if s.Frame.Quality.Level(scheduler.QualityShadow) > 0 {
		ts0, e := make0("temporal-shadow/0", s.TemporalShadow.Layout(0))
		if errf("temporal-shadow g0", e) {
			return bg, err
		}
		ts1, e := make1("temporal-shadow/1", s.TemporalShadow.Layout(1), []wgpu.BindGroupEntry{
			viewEntry(0, lt.RawShadowView), viewEntry(1, lt.Shadow.Read(slot)), viewEntry(2, g.DepthView), viewEntry(3, g.MotionView),
		})
		if errf("temporal-shadow g1", e) {
			return bg, err
		}
		ts2, e := make1(fmt.Sprintf("temporal-shadow/2/%d", slot), s.TemporalShadow.Layout(2), []wgpu.BindGroupEntry{
			viewEntry(0, lt.Shadow.Write(slot)),
		})
		if errf("temporal-shadow g2", e) {
			return bg, err
		}
		bg.TemporalShadow = []*wgpu.BindGroup{ts0, ts1, ts2}
	}
	if s.Frame.Quality.Level(scheduler.QualityAO) > 0 {
		ta0, e := make0("temporal-ao/0", s.TemporalAO.Layout(0))
		if errf("temporal-ao g0", e) {
			return bg, err
		}
		ta1, e := make1("temporal-ao/1", s.TemporalAO.Layout(1), []wgpu.BindGroupEntry{
			viewEntry(0, lt.RawAOView), viewEntry(1, lt.AO.Read(slot)), viewEntry(2, g.DepthView),
			viewEntry(3, g.NormalView), viewEntry(4, g.MotionView),
		})
		if errf("temporal-ao g1", e) {
			return bg, err
		}
		ta2, e := make1(fmt.Sprintf("temporal-ao/2/%d", slot), s.TemporalAO.Layout(2), []wgpu.BindGroupEntry{
			viewEntry(0, lt.AO.Write(slot)),
		})
		if errf("temporal-ao g2", e) {
			return bg, err
		}
		bg.TemporalAO = []*wgpu.BindGroup{ta0, ta1, ta2}
	}
	if s.Frame.Quality.Level(scheduler.QualityReflection) > 0 {
		tr0, e := make0("temporal-reflection/0", s.TemporalReflection.Layout(0))
		if errf("temporal-reflection g0", e) {
			return bg, err
		}
		tr1, e := make1("temporal-reflection/1", s.TemporalReflection.Layout(1), []wgpu.BindGroupEntry{
			viewEntry(0, lt.RawReflectionView), viewEntry(1, lt.Reflection.Read(slot)), viewEntry(2, g.DepthView), viewEntry(3, g.MotionView),
		})
		if errf("temporal-reflection g1", e) {
			return bg, err
		}
		tr2, e := make1(fmt.Sprintf("temporal-reflection/2/%d", slot), s.TemporalReflection.Layout(2), []wgpu.BindGroupEntry{
			viewEntry(0, lt.Reflection.Write(slot)),
		})
		if errf("temporal-reflection g2", e) {
			return bg, err
		}
		bg.TemporalReflection = []*wgpu.BindGroup{tr0, tr1, tr2}
	}

	// --- GI inject + propagate ---
	giCascadeView := r.dummyGI3DView
	if s.Frame.Quality.Level(scheduler.QualityGI) > 0 && s.GI != nil {
		if err := r.ensureGIDirtyBuffer(); err != nil {
			return bg, fmt.Errorf("renderer: build bind groups: gi dirty buffer: %w", err)
		}
		gi0, e := make0("gi-inject/0", s.GIInject.Layout(0))
		if errf("gi-inject g0", e) {
			return bg, err
		}
		gi1, e := make1("gi-inject/1", s.GIInject.Layout(1), []wgpu.BindGroupEntry{
			bufEntry(0, r.headerBuf), bufEntry(1, r.materialBuf), bufEntry(2, r.giDirtyBuf),
		})
		if errf("gi-inject g1", e) {
			return bg, err
		}
		gi2, e := make1("gi-inject/2", s.GIInject.Layout(2), []wgpu.BindGroupEntry{viewEntry(0, s.GI.Views[0])})
		if errf("gi-inject g2", e) {
			return bg, err
		}
		bg.GIInject = []*wgpu.BindGroup{gi0, gi1, gi2}

		bg.GIPropagate = make([][]*wgpu.BindGroup, passes.GICascadeLevels-1)
		for level := 1; level < passes.GICascadeLevels; level++ {
			p0, e := make0(fmt.Sprintf("gi-propagate/0/%d", level), s.GIPropagate.Layout(0))
			if errf("gi-propagate g0", e) {
				return bg, err
			}
			p1, e := make1(fmt.Sprintf("gi-propagate/1/%d", level), s.GIPropagate.Layout(1), []wgpu.BindGroupEntry{
				viewEntry(0, s.GI.Views[level-1]), samplerEntry(1, r.giSampler),
			})
			if errf("gi-propagate g1", e) {
				return bg, err
			}
			p2, e := make1(fmt.Sprintf("gi-propagate/2/%d", level), s.GIPropagate.Layout(2), []wgpu.BindGroupEntry{
				viewEntry(0, s.GI.Views[level]),
			})
			if errf("gi-propagate g2", e) {
				return bg, err
			}
			p3, e := make1(fmt.Sprintf("gi-propagate/3/%d", level), s.GIPropagate.Layout(3), []wgpu.BindGroupEntry{
				bufEntry(0, r.giPropParams[level-1]),
			})
			if errf("gi-propagate g3", e) {
				return bg, err
			}
			bg.GIPropagate[level-1] = []*wgpu.BindGroup{p0, p1, p2, p3}
		}
		giCascadeView = s.GI.Views[0]
	}

	// --- Voxel object + particle raster ---
	vo0, e := make0("vobj/0", s.VoxelObjectRaster.Layout(0))
	if errf("vobj g0", e) {
		return bg, err
	}
	vo1, e := make1("vobj/1", s.VoxelObjectRaster.Layout(1), []wgpu.BindGroupEntry{
		bufEntry(0, s.VoxelObjects.Metadata), viewEntry(1, r.atlasView), samplerEntry(2, r.atlasSampler),
		bufEntry(3, r.materialBuf), viewEntry(4, g.DepthView),
	})
	if errf("vobj g1", e) {
		return bg, err
	}
	vo2, e := make1("vobj/2", s.VoxelObjectRaster.Layout(2), []wgpu.BindGroupEntry{bufEntry(0, r.viewProjBuf)})
	if errf("vobj g2", e) {
		return bg, err
	}
	bg.VoxelObjects = []*wgpu.BindGroup{vo0, vo1, vo2}

	pt0, e := make0("particles/0", s.ParticleRaster.Layout(0))
	if errf("particles g0", e) {
		return bg, err
	}
	pt1, e := make1("particles/1", s.ParticleRaster.Layout(1), []wgpu.BindGroupEntry{
		bufEntry(0, r.particleBuf), viewEntry(1, g.DepthView),
	})
	if errf("particles g1", e) {
		return bg, err
	}
	pt2, e := make1("particles/2", s.ParticleRaster.Layout(2), []wgpu.BindGroupEntry{bufEntry(0, r.viewProjBuf)})
	if errf("particles g2", e) {
		return bg, err
	}
	bg.Particles = []*wgpu.BindGroup{pt0, pt1, pt2}

	// --- Deferred lighting ---
	dl0, e := make0("deferred/0", s.DeferredLighting.Layout(0))
	if errf("deferred g0", e) {
		return bg, err
	}
	dl1, e := make1("deferred/1", s.DeferredLighting.Layout(1), []wgpu.BindGroupEntry{
		viewEntry(0, g.AlbedoView), viewEntry(1, g.NormalView), viewEntry(2, g.MaterialView), viewEntry(3, g.WorldPosView),
		viewEntry(4, lt.Shadow.Write(slot)), viewEntry(5, lt.AO.Write(slot)), viewEntry(6, lt.Reflection.Write(slot)),
		viewEntry(7, giCascadeView),
	})
	if errf("deferred g1", e) {
		return bg, err
	}
	dl2, e := make1("deferred/2", s.DeferredLighting.Layout(2), []wgpu.BindGroupEntry{viewEntry(0, lt.LitColorView)})
	if errf("deferred g2", e) {
		return bg, err
	}
	dl3, e := make1("deferred/3", s.DeferredLighting.Layout(3), []wgpu.BindGroupEntry{samplerEntry(0, r.giSampler)})
	if errf("deferred g3", e) {
		return bg, err
	}
	bg.DeferredLighting = []*wgpu.BindGroup{dl0, dl1, dl2, dl3}

	// --- TAA ---
	finalColor := lt.LitColorView
	if s.Frame.Quality.Level(scheduler.QualityTAA) > 0 {
		ta0, e := make0("taa/0", s.TAA.Layout(0))
		if errf("taa g0", e) {
			return bg, err
		}
		ta1, e := make1("taa/1", s.TAA.Layout(1), []wgpu.BindGroupEntry{
			viewEntry(0, lt.LitColorView), viewEntry(1, lt.TAAColor.Read(slot)), viewEntry(2, g.MotionView),
		})
		if errf("taa g1", e) {
			return bg, err
		}
		ta2, e := make1(fmt.Sprintf("taa/2/%d", slot), s.TAA.Layout(2), []wgpu.BindGroupEntry{
			viewEntry(0, lt.TAAColor.Write(slot)),
		})
		if errf("taa g2", e) {
			return bg, err
		}
		bg.TAA = []*wgpu.BindGroup{ta0, ta1, ta2}
		finalColor = lt.TAAColor.Write(slot)
	}

	// --- Spatial denoise ---
	if s.Frame.Quality.Level(scheduler.QualityDenoise) > 0 {
		sd0, e := make0("denoise/0", s.SpatialDenoise.Layout(0))
		if errf("denoise g0", e) {
			return bg, err
		}
		sd1, e := make1(fmt.Sprintf("denoise/1/%d", slot), s.SpatialDenoise.Layout(1), []wgpu.BindGroupEntry{
			viewEntry(0, finalColor), viewEntry(1, g.DepthView), viewEntry(2, g.NormalView),
		})
		if errf("denoise g1", e) {
			return bg, err
		}
		sd2, e := make1("denoise/2", s.SpatialDenoise.Layout(2), []wgpu.BindGroupEntry{viewEntry(0, lt.DenoisedView)})
		if errf("denoise g2", e) {
			return bg, err
		}
		bg.SpatialDenoise = []*wgpu.BindGroup{sd0, sd1, sd2}
		finalColor = lt.DenoisedView
	}

	// --- Blit, UI ---
	bl0, e := make0("blit/0", s.Blit.Layout(0))
	if errf("blit g0", e) {
		return bg, err
	}
	bl1, e := make1(fmt.Sprintf("blit/1/%d", slot), s.Blit.Layout(1), []wgpu.BindGroupEntry{
		viewEntry(0, finalColor), samplerEntry(1, r.linearSampler),
	})
	if errf("blit g1", e) {
		return bg, err
	}
	bg.Blit = []*wgpu.BindGroup{bl0, bl1}

	ui0, e := make0("ui/0", s.UIRaster.Layout(0))
	if errf("ui g0", e) {
		return bg, err
	}
	ui1, e := make1("ui/1", s.UIRaster.Layout(1), []wgpu.BindGroupEntry{
		viewEntry(0, r.uiOverlayView), samplerEntry(1, r.uiSampler),
	})
	if errf("ui g1", e) {
		return bg, err
	}
	bg.UI = []*wgpu.BindGroup{ui0, ui1}

	return bg, nil
}

func mat4Bytes(m mgl32.Mat4) []byte {
	buf := make([]byte, 64)
	for i, v := range m {
		putF32(buf[i*4:], v)
	}
	return buf
}
