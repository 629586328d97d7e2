// Package passes implements the 15 standalone GPU pipeline stages
// calls for: "every pass is a standalone module with
// create/record/destroy... there is no polymorphism needed beyond that."
// Each file owns exactly one wgpu pipeline plus the bind-group-layout
// knowledge needed to build its bind groups; none references another
// pass's type, and none is reached through an interface — the scheduler
// (internal/scheduler) simply calls each pass's Record in a fixed order.
//
// Each pipeline gets its own Create/Record/Destroy trio and its own
// file, following one wgpu call sequence throughout (CreateShaderModule
// → CreateComputePipeline/CreateRenderPipeline → GetBindGroupLayout(n)
// for bind group construction) without coupling any pass to a monolithic
// owning struct.
package passes

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/shaders"
)

// ComputeEntryPoint is the entry point name every compute pass shader
// uses: each pass's shader is single-entry-point.
const ComputeEntryPoint = "main"

// workgroups2D returns the dispatch size for an 8x8 compute workgroup
// covering a width x height target.
func workgroups2D(width, height uint32) (uint32, uint32) {
	return (width + 7) / 8, (height + 7) / 8
}

// workgroups3D returns the dispatch size for a 4x4x4 compute workgroup
// covering a dims-sized 3D target (the GI cascade passes).
func workgroups3D(dims [3]uint32) (uint32, uint32, uint32) {
	return (dims[0] + 3) / 4, (dims[1] + 3) / 4, (dims[2] + 3) / 4
}

// createComputePipeline concatenates common.wgsl with a pass's own source
// (WGSL has no #include, push-constant block is shared by
// every pass) and builds a single-stage compute pipeline from it.
func createComputePipeline(device *wgpu.Device, label, source string) (*wgpu.ComputePipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaders.CommonWGSL + "\n" + source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: create shader module %s: %w", label, err)
	}
	defer module.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label + " Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: ComputeEntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: create compute pipeline %s: %w", label, err)
	}
	return pipeline, nil
}

// createRasterPipeline builds a render pipeline from common.wgsl +
// source, targeting a single color attachment of the given format. The
// four raster passes (voxel-object, particle, blit, UI) all share this shape.
func createRasterPipeline(device *wgpu.Device, label, source string, format wgpu.TextureFormat, blend *wgpu.BlendState, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaders.CommonWGSL + "\n" + source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: create shader module %s: %w", label, err)
	}
	defer module.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: label + " Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology: topology,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: create render pipeline %s: %w", label, err)
	}
	return pipeline, nil
}

// alphaBlend is the standard source-over blend state used by particle and
// UI overlay rasterization.
var alphaBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}
