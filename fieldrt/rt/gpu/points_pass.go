package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gekko3d/pointfield/fieldrt/rt/core"
	"github.com/gekko3d/pointfield/fieldrt/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PointsRenderPass draws the grid as instanced quads: one instance per point,
// displaced in vs_main and shaded as a round sprite in fs_main.
type PointsRenderPass struct {
	Device    *wgpu.Device
	Pipeline  *wgpu.RenderPipeline
	BindGroup *wgpu.BindGroup
	Buffers   *GpuBufferManager

	hasParams bool
}

func NewPointsRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*PointsRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "FieldParamsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   core.ParamsSize,
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "PointsPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof([2]float32{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(mgl32.Vec3{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: 4,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32, Offset: 0, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// No depth attachment: sprites never write depth and blend in draw order.
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	buffers, err := NewGpuBufferManager(device)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "FieldParamsBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffers.ParamsBuf,
				Size:    core.ParamsSize,
			},
		},
	})
	if err != nil {
		buffers.Release()
		pipeline.Release()
		return nil, err
	}

	return &PointsRenderPass{
		Device:    device,
		Pipeline:  pipeline,
		BindGroup: bindGroup,
		Buffers:   buffers,
	}, nil
}

// UploadGrid implements pointfield.Program.
func (p *PointsRenderPass) UploadGrid(grid *core.PointBuffer) error {
	if grid.Len() == 0 {
		return errors.New("empty point grid")
	}
	if _, err := p.Buffers.UpdateGrid(grid); err != nil {
		return fmt.Errorf("uploading point grid: %w", err)
	}
	return nil
}

// WriteParams implements pointfield.Program. The camera matrix is remapped to
// WebGPU clip depth before upload.
func (p *PointsRenderPass) WriteParams(block core.ParameterBlock) {
	block.ViewProj = core.WebGPUClip.Mul4(block.ViewProj)
	p.Buffers.UpdateParams(&block)
	p.hasParams = true
}

func (p *PointsRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	b := p.Buffers
	if !p.hasParams || b.PointCount == 0 || b.PositionsBuf == nil || b.SizesBuf == nil {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, b.QuadBuf, 0, b.QuadBuf.GetSize())
	pass.SetVertexBuffer(1, b.PositionsBuf, 0, b.PositionsBuf.GetSize())
	pass.SetVertexBuffer(2, b.SizesBuf, 0, b.SizesBuf.GetSize())
	pass.Draw(uint32(len(quadCorners)), b.PointCount, 0, 0)
}

func (p *PointsRenderPass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.Buffers != nil {
		p.Buffers.Release()
	}
}
