// Package shaders embeds the WGSL source for every pipeline pass
// (), one file per pass, one var per embed.
package shaders

import (
	_ "embed"
)

//go:embed common.wgsl
var CommonWGSL string

//go:embed gbuffer_raymarch.wgsl
var GBufferRaymarchWGSL string

//go:embed shadow_raymarch.wgsl
var ShadowRaymarchWGSL string

//go:embed ao_raymarch.wgsl
var AORaymarchWGSL string

//go:embed reflection_raymarch.wgsl
var ReflectionRaymarchWGSL string

//go:embed temporal_shadow.wgsl
var TemporalShadowWGSL string

//go:embed temporal_ao.wgsl
var TemporalAOWGSL string

//go:embed temporal_reflection.wgsl
var TemporalReflectionWGSL string

//go:embed taa.wgsl
var TAAWGSL string

//go:embed spatial_denoise.wgsl
var SpatialDenoiseWGSL string

//go:embed deferred_lighting.wgsl
var DeferredLightingWGSL string

//go:embed gi_inject.wgsl
var GIInjectWGSL string

//go:embed gi_propagate.wgsl
var GIPropagateWGSL string

//go:embed voxel_object_raster.wgsl
var VoxelObjectRasterWGSL string

//go:embed particle_raster.wgsl
var ParticleRasterWGSL string

//go:embed ui_raster.wgsl
var UIRasterWGSL string

//go:embed blit.wgsl
var BlitWGSL string
