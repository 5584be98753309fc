package vkdriver

import (
	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

type imageBarrier struct {
	srcStage  vulkan.PipelineStageFlagBits
	dstStage  vulkan.PipelineStageFlagBits
	srcAccess vulkan.AccessFlagBits
	dstAccess vulkan.AccessFlagBits
	oldLayout vulkan.ImageLayout
	newLayout vulkan.ImageLayout
}

// barrierFor returns the layout change recorded for t. The attachment is
// cleared on load, so the first transition discards the previous contents.
func barrierFor(t render.Transition) imageBarrier {
	if t == render.ToPresent {
		return imageBarrier{
			srcStage:  vulkan.PipelineStageColorAttachmentOutputBit,
			dstStage:  vulkan.PipelineStageBottomOfPipeBit,
			srcAccess: vulkan.AccessColorAttachmentWriteBit,
			dstAccess: 0,
			oldLayout: vulkan.ImageLayoutColorAttachmentOptimal,
			newLayout: vulkan.ImageLayoutPresentSrc,
		}
	}
	return imageBarrier{
		srcStage:  vulkan.PipelineStageTopOfPipeBit,
		dstStage:  vulkan.PipelineStageColorAttachmentOutputBit,
		srcAccess: 0,
		dstAccess: vulkan.AccessColorAttachmentWriteBit,
		oldLayout: vulkan.ImageLayoutUndefined,
		newLayout: vulkan.ImageLayoutColorAttachmentOptimal,
	}
}

func cmdImageBarrier(cmd vulkan.CommandBuffer, image vulkan.Image, b imageBarrier) {
	barrier := vulkan.ImageMemoryBarrier{
		SType:               vulkan.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vulkan.AccessFlags(b.srcAccess),
		DstAccessMask:       vulkan.AccessFlags(b.dstAccess),
		OldLayout:           b.oldLayout,
		NewLayout:           b.newLayout,
		SrcQueueFamilyIndex: vulkan.QueueFamilyIgnored,
		DstQueueFamilyIndex: vulkan.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    colorSubresourceRange(),
	}
	vulkan.CmdPipelineBarrier(cmd,
		vulkan.PipelineStageFlags(b.srcStage), vulkan.PipelineStageFlags(b.dstStage),
		0, 0, nil, 0, nil, 1, []vulkan.ImageMemoryBarrier{barrier})
}
