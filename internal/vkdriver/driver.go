package vkdriver

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

// Driver is the Vulkan implementation of render.Driver. It draws into a
// glfw window with dynamic rendering and no render pass.
type Driver struct {
	ctx       *deviceContext
	swapchain *swapchain
	pipeline  *pipeline
	frames    *frames
}

var _ render.Driver = (*Driver)(nil)

// New brings up Vulkan for window. Every failure is a *render.InitError.
func New(window *glfw.Window, cfg Config) (*Driver, error) {
	ctx, err := newDeviceContext(window, cfg)
	if err != nil {
		return nil, err
	}
	d := &Driver{ctx: ctx}
	if err := d.init(); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

func (d *Driver) init() error {
	var err error
	if d.swapchain, err = newSwapchain(d.ctx); err != nil {
		return render.NewInitError("create swapchain", err)
	}
	if d.pipeline, err = newPipeline(d.ctx.device, d.swapchain.format, d.swapchain.extent); err != nil {
		return render.NewInitError("create pipeline", err)
	}
	if d.frames, err = newFrames(d.ctx.device, d.ctx.queueFamily); err != nil {
		return render.NewInitError("create frame slots", err)
	}
	return nil
}

// DeviceName returns the name of the selected GPU.
func (d *Driver) DeviceName() string {
	return d.ctx.gpuName
}

func (d *Driver) ImageCount() int {
	return len(d.swapchain.images)
}

func (d *Driver) slot(i int) *frameSlot {
	return &d.frames.slots[i]
}

func (d *Driver) WaitFrame(slot int) error {
	fence := d.slot(slot).fence
	return newError("vkWaitForFences",
		vulkan.WaitForFences(d.ctx.device, 1, []vulkan.Fence{fence}, vulkan.True, vulkan.MaxUint64))
}

func (d *Driver) AcquireImage(slot int) (uint32, error) {
	var image uint32
	res := vulkan.AcquireNextImage(d.ctx.device, d.swapchain.handle, vulkan.MaxUint64,
		d.slot(slot).imageAcquired, vulkan.Fence(vulkan.NullHandle), &image)
	switch res {
	case vulkan.Success, vulkan.Suboptimal:
		return image, nil
	case vulkan.ErrorOutOfDate:
		return 0, render.ErrOutOfDate
	default:
		return 0, newError("vkAcquireNextImageKHR", res)
	}
}

func (d *Driver) ResetFrame(slot int) error {
	fence := d.slot(slot).fence
	return newError("vkResetFences", vulkan.ResetFences(d.ctx.device, 1, []vulkan.Fence{fence}))
}

func (d *Driver) BeginCommands(slot int) error {
	cmd := d.slot(slot).cmd
	if err := newError("vkResetCommandBuffer", vulkan.ResetCommandBuffer(cmd, 0)); err != nil {
		return err
	}
	beginInfo := vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
		Flags: vulkan.CommandBufferUsageFlags(vulkan.CommandBufferUsageOneTimeSubmitBit),
	}
	return newError("vkBeginCommandBuffer", vulkan.BeginCommandBuffer(cmd, &beginInfo))
}

func (d *Driver) Barrier(slot int, image uint32, t render.Transition) {
	cmdImageBarrier(d.slot(slot).cmd, d.swapchain.images[image], barrierFor(t))
}

func (d *Driver) BeginRendering(slot int, image uint32, clear mgl32.Vec4) {
	cmdBeginRendering(d.slot(slot).cmd, d.swapchain.views[image], d.swapchain.extent, clear)
}

func (d *Driver) BindPipeline(slot int) {
	vulkan.CmdBindPipeline(d.slot(slot).cmd, vulkan.PipelineBindPointGraphics, d.pipeline.handle)
}

// PushConstants records data for stage at offset. The values are copied into
// the command buffer immediately, so every draw keeps the constants current
// when it was recorded.
func (d *Driver) PushConstants(slot int, stage render.Stage, offset uint32, data []float32) {
	if len(data) == 0 {
		return
	}
	vulkan.CmdPushConstants(d.slot(slot).cmd, d.pipeline.layout,
		vulkan.ShaderStageFlags(shaderStage(stage)), offset, uint32(len(data)*4), unsafe.Pointer(&data[0]))
}

func (d *Driver) Draw(slot int, vertexCount, instanceCount uint32) {
	vulkan.CmdDraw(d.slot(slot).cmd, vertexCount, instanceCount, 0, 0)
}

func (d *Driver) EndRendering(slot int) {
	cmdEndRendering(d.slot(slot).cmd)
}

func (d *Driver) EndCommands(slot int) error {
	return newError("vkEndCommandBuffer", vulkan.EndCommandBuffer(d.slot(slot).cmd))
}

// Submit queues the slot's commands. They wait for the acquired image only at
// colour attachment output and signal render-finished and the slot fence.
func (d *Driver) Submit(slot int) error {
	s := d.slot(slot)
	submitInfo := vulkan.SubmitInfo{
		SType:                vulkan.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vulkan.Semaphore{s.imageAcquired},
		PWaitDstStageMask:    []vulkan.PipelineStageFlags{vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vulkan.CommandBuffer{s.cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vulkan.Semaphore{s.renderFinished},
	}
	return newError("vkQueueSubmit", vulkan.QueueSubmit(d.ctx.queue, 1, []vulkan.SubmitInfo{submitInfo}, s.fence))
}

func (d *Driver) Present(slot int, image uint32) error {
	presentInfo := vulkan.PresentInfo{
		SType:              vulkan.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vulkan.Semaphore{d.slot(slot).renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vulkan.Swapchain{d.swapchain.handle},
		PImageIndices:      []uint32{image},
	}
	return presentError(vulkan.QueuePresent(d.ctx.queue, &presentInfo), d.extentChanged)
}

// presentError maps a present result to render's errors. A suboptimal
// present only asks for a rebuild once the surface extent has moved away
// from the swap extent; some platforms report suboptimal on every frame.
func presentError(res vulkan.Result, extentChanged func() (bool, error)) error {
	switch res {
	case vulkan.Success:
		return nil
	case vulkan.ErrorOutOfDate:
		return render.ErrOutOfDate
	case vulkan.Suboptimal:
		changed, err := extentChanged()
		if err != nil {
			return err
		}
		if changed {
			return render.ErrOutOfDate
		}
		return nil
	default:
		return newError("vkQueuePresentKHR", res)
	}
}

func (d *Driver) extentChanged() (bool, error) {
	caps, err := querySurfaceCapabilities(d.ctx)
	if err != nil {
		return false, err
	}
	extent := swapExtent(d.ctx, surfaceCapabilities(caps))
	return extent.Width != d.swapchain.extent.Width || extent.Height != d.swapchain.extent.Height, nil
}

// Recreate rebuilds the swapchain, its views and the pipeline, whose viewport
// is baked to the swap extent. Frame slots are kept.
func (d *Driver) Recreate() error {
	if err := d.WaitIdle(); err != nil {
		return err
	}
	d.pipeline.destroy(d.ctx.device)
	d.swapchain.destroy(d.ctx.device)

	sc, err := newSwapchain(d.ctx)
	if err != nil {
		return fmt.Errorf("swapchain: %w", err)
	}
	d.swapchain = sc
	p, err := newPipeline(d.ctx.device, sc.format, sc.extent)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	d.pipeline = p
	return nil
}

func (d *Driver) WaitIdle() error {
	return newError("vkDeviceWaitIdle", vulkan.DeviceWaitIdle(d.ctx.device))
}

// Destroy releases every object in reverse creation order. The caller must
// have waited for the device to go idle.
func (d *Driver) Destroy() {
	if d.ctx == nil {
		return
	}
	device := d.ctx.device
	if d.frames != nil {
		d.frames.destroy(device)
		d.frames = nil
	}
	if d.pipeline != nil {
		d.pipeline.destroy(device)
		d.pipeline = nil
	}
	if d.swapchain != nil {
		d.swapchain.destroy(device)
		d.swapchain = nil
	}
	d.ctx.destroy()
	d.ctx = nil
}
