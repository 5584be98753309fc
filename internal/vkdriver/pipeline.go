package vkdriver

import (
	"errors"
	"fmt"

	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

// pipeline owns the quad pipeline and its layout. It has no descriptor sets:
// everything the shaders read arrives as push constants.
type pipeline struct {
	layout vulkan.PipelineLayout
	handle vulkan.Pipeline
}

func shaderStage(s render.Stage) vulkan.ShaderStageFlagBits {
	if s == render.StageFragment {
		return vulkan.ShaderStageFragmentBit
	}
	return vulkan.ShaderStageVertexBit
}

func pushConstantRanges() []vulkan.PushConstantRange {
	ranges := render.PushConstantRanges()
	out := make([]vulkan.PushConstantRange, len(ranges))
	for i, r := range ranges {
		out[i] = vulkan.PushConstantRange{
			StageFlags: vulkan.ShaderStageFlags(shaderStage(r.Stage)),
			Offset:     r.Offset,
			Size:       r.Size,
		}
	}
	return out
}

func newPipeline(device vulkan.Device, format vulkan.Format, extent vulkan.Extent2D) (*pipeline, error) {
	vertModule, err := createShaderModule(device, quadVertSPV)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer vulkan.DestroyShaderModule(device, vertModule, nil)
	fragModule, err := createShaderModule(device, quadFragSPV)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer vulkan.DestroyShaderModule(device, fragModule, nil)

	p := &pipeline{}
	ranges := pushConstantRanges()
	layoutInfo := vulkan.PipelineLayoutCreateInfo{
		SType:                  vulkan.StructureTypePipelineLayoutCreateInfo,
		PushConstantRangeCount: uint32(len(ranges)),
		PPushConstantRanges:    ranges,
	}
	if err := newError("vkCreatePipelineLayout", vulkan.CreatePipelineLayout(device, &layoutInfo, nil, &p.layout)); err != nil {
		return nil, err
	}

	rendering := newPipelineRenderingInfo(format)
	if rendering == nil {
		p.destroy(device)
		return nil, errors.New("allocate pipeline rendering info")
	}
	defer freeChain(rendering)

	mainName := "main\x00"
	stages := []vulkan.PipelineShaderStageCreateInfo{
		{
			SType:  vulkan.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vulkan.ShaderStageVertexBit,
			Module: vertModule,
			PName:  mainName,
		},
		{
			SType:  vulkan.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vulkan.ShaderStageFragmentBit,
			Module: fragModule,
			PName:  mainName,
		},
	}

	// Quad corners come from the vertex index.
	vertexInput := vulkan.PipelineVertexInputStateCreateInfo{
		SType: vulkan.StructureTypePipelineVertexInputStateCreateInfo,
	}
	inputAssembly := vulkan.PipelineInputAssemblyStateCreateInfo{
		SType:                  vulkan.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vulkan.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vulkan.False,
	}

	viewport := vulkan.Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
	scissor := vulkan.Rect2D{
		Offset: vulkan.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
	viewportState := vulkan.PipelineViewportStateCreateInfo{
		SType:         vulkan.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vulkan.Viewport{viewport},
		ScissorCount:  1,
		PScissors:     []vulkan.Rect2D{scissor},
	}

	rasterizer := vulkan.PipelineRasterizationStateCreateInfo{
		SType:                   vulkan.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vulkan.False,
		RasterizerDiscardEnable: vulkan.False,
		PolygonMode:             vulkan.PolygonModeFill,
		LineWidth:               1.0,
		CullMode:                vulkan.CullModeFlags(vulkan.CullModeNone),
		FrontFace:               vulkan.FrontFaceClockwise,
		DepthBiasEnable:         vulkan.False,
	}

	multisampling := vulkan.PipelineMultisampleStateCreateInfo{
		SType:                vulkan.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vulkan.SampleCount1Bit,
	}

	colorBlendAttachment := vulkan.PipelineColorBlendAttachmentState{
		ColorWriteMask: vulkan.ColorComponentFlags(vulkan.ColorComponentRBit | vulkan.ColorComponentGBit | vulkan.ColorComponentBBit | vulkan.ColorComponentABit),
		BlendEnable:    vulkan.False,
	}
	colorBlending := vulkan.PipelineColorBlendStateCreateInfo{
		SType:           vulkan.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vulkan.PipelineColorBlendAttachmentState{colorBlendAttachment},
	}

	pipelineInfo := vulkan.GraphicsPipelineCreateInfo{
		SType:               vulkan.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               rendering,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PColorBlendState:    &colorBlending,
		Layout:              p.layout,
		RenderPass:          vulkan.RenderPass(vulkan.NullHandle),
	}

	pipelines := make([]vulkan.Pipeline, 1)
	if err := newError("vkCreateGraphicsPipelines", vulkan.CreateGraphicsPipelines(device,
		vulkan.PipelineCache(vulkan.NullHandle), 1, []vulkan.GraphicsPipelineCreateInfo{pipelineInfo}, nil, pipelines)); err != nil {
		p.destroy(device)
		return nil, err
	}
	p.handle = pipelines[0]
	return p, nil
}

func createShaderModule(device vulkan.Device, code []byte) (vulkan.ShaderModule, error) {
	words, err := shaderWords(code)
	if err != nil {
		return vulkan.ShaderModule(vulkan.NullHandle), err
	}
	createInfo := vulkan.ShaderModuleCreateInfo{
		SType:    vulkan.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}
	var module vulkan.ShaderModule
	if err := newError("vkCreateShaderModule", vulkan.CreateShaderModule(device, &createInfo, nil, &module)); err != nil {
		return vulkan.ShaderModule(vulkan.NullHandle), err
	}
	return module, nil
}

func (p *pipeline) destroy(device vulkan.Device) {
	if p.handle != vulkan.Pipeline(vulkan.NullHandle) {
		vulkan.DestroyPipeline(device, p.handle, nil)
		p.handle = vulkan.Pipeline(vulkan.NullHandle)
	}
	if p.layout != vulkan.PipelineLayout(vulkan.NullHandle) {
		vulkan.DestroyPipelineLayout(device, p.layout, nil)
		p.layout = vulkan.PipelineLayout(vulkan.NullHandle)
	}
}
