package vkdriver

import (
	"fmt"

	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

// frameSlot is the per-frame state reused round-robin. Its fence starts
// signalled so the first wait returns immediately.
type frameSlot struct {
	imageAcquired  vulkan.Semaphore
	renderFinished vulkan.Semaphore
	fence          vulkan.Fence
	cmd            vulkan.CommandBuffer
}

type frames struct {
	pool  vulkan.CommandPool
	slots [render.FramesInFlight]frameSlot
}

func newFrames(device vulkan.Device, queueFamily uint32) (*frames, error) {
	f := &frames{}
	poolInfo := vulkan.CommandPoolCreateInfo{
		SType:            vulkan.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: queueFamily,
		Flags:            vulkan.CommandPoolCreateFlags(vulkan.CommandPoolCreateResetCommandBufferBit),
	}
	if err := newError("vkCreateCommandPool", vulkan.CreateCommandPool(device, &poolInfo, nil, &f.pool)); err != nil {
		return nil, err
	}

	allocInfo := vulkan.CommandBufferAllocateInfo{
		SType:              vulkan.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        f.pool,
		Level:              vulkan.CommandBufferLevelPrimary,
		CommandBufferCount: render.FramesInFlight,
	}
	cmds := make([]vulkan.CommandBuffer, render.FramesInFlight)
	if err := newError("vkAllocateCommandBuffers", vulkan.AllocateCommandBuffers(device, &allocInfo, cmds)); err != nil {
		f.destroy(device)
		return nil, err
	}

	semInfo := vulkan.SemaphoreCreateInfo{
		SType: vulkan.StructureTypeSemaphoreCreateInfo,
	}
	fenceInfo := vulkan.FenceCreateInfo{
		SType: vulkan.StructureTypeFenceCreateInfo,
		Flags: vulkan.FenceCreateFlags(vulkan.FenceCreateSignaledBit),
	}
	for i := range f.slots {
		s := &f.slots[i]
		s.cmd = cmds[i]
		if err := newError("vkCreateSemaphore", vulkan.CreateSemaphore(device, &semInfo, nil, &s.imageAcquired)); err != nil {
			f.destroy(device)
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		if err := newError("vkCreateSemaphore", vulkan.CreateSemaphore(device, &semInfo, nil, &s.renderFinished)); err != nil {
			f.destroy(device)
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		if err := newError("vkCreateFence", vulkan.CreateFence(device, &fenceInfo, nil, &s.fence)); err != nil {
			f.destroy(device)
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return f, nil
}

// destroy releases every slot's sync objects and the pool, which frees the
// command buffers with it.
func (f *frames) destroy(device vulkan.Device) {
	for i := range f.slots {
		s := &f.slots[i]
		if s.renderFinished != vulkan.Semaphore(vulkan.NullHandle) {
			vulkan.DestroySemaphore(device, s.renderFinished, nil)
		}
		if s.imageAcquired != vulkan.Semaphore(vulkan.NullHandle) {
			vulkan.DestroySemaphore(device, s.imageAcquired, nil)
		}
		if s.fence != vulkan.Fence(vulkan.NullHandle) {
			vulkan.DestroyFence(device, s.fence, nil)
		}
		*s = frameSlot{}
	}
	if f.pool != vulkan.CommandPool(vulkan.NullHandle) {
		vulkan.DestroyCommandPool(device, f.pool, nil)
		f.pool = vulkan.CommandPool(vulkan.NullHandle)
	}
}
