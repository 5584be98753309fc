package vkdriver

// Dynamic rendering is core in Vulkan 1.3 but absent from the generated
// bindings, so the commands are resolved at runtime through the loader
// entry point glfw already found and called from C.

/*
#define VK_NO_PROTOTYPES
#include <stdlib.h>
#include <vulkan/vulkan.h>

static PFN_vkCmdBeginRendering cmdBeginRenderingFn;
static PFN_vkCmdEndRendering cmdEndRenderingFn;

static int loadDynamicRendering(void* getInstanceProcAddr, VkInstance instance, VkDevice device) {
	PFN_vkGetInstanceProcAddr gipa = (PFN_vkGetInstanceProcAddr)getInstanceProcAddr;
	PFN_vkGetDeviceProcAddr gdpa = (PFN_vkGetDeviceProcAddr)gipa(instance, "vkGetDeviceProcAddr");
	if (gdpa == NULL) {
		return 0;
	}
	cmdBeginRenderingFn = (PFN_vkCmdBeginRendering)gdpa(device, "vkCmdBeginRendering");
	cmdEndRenderingFn = (PFN_vkCmdEndRendering)gdpa(device, "vkCmdEndRendering");
	return cmdBeginRenderingFn != NULL && cmdEndRenderingFn != NULL;
}

static void cmdBeginRendering(VkCommandBuffer cmd, VkImageView view, uint32_t width, uint32_t height,
		float r, float g, float b, float a) {
	VkRenderingAttachmentInfo color = {0};
	color.sType = VK_STRUCTURE_TYPE_RENDERING_ATTACHMENT_INFO;
	color.imageView = view;
	color.imageLayout = VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL;
	color.resolveMode = VK_RESOLVE_MODE_NONE;
	color.loadOp = VK_ATTACHMENT_LOAD_OP_CLEAR;
	color.storeOp = VK_ATTACHMENT_STORE_OP_STORE;
	color.clearValue.color.float32[0] = r;
	color.clearValue.color.float32[1] = g;
	color.clearValue.color.float32[2] = b;
	color.clearValue.color.float32[3] = a;

	VkRenderingInfo info = {0};
	info.sType = VK_STRUCTURE_TYPE_RENDERING_INFO;
	info.renderArea.extent.width = width;
	info.renderArea.extent.height = height;
	info.layerCount = 1;
	info.colorAttachmentCount = 1;
	info.pColorAttachments = &color;
	cmdBeginRenderingFn(cmd, &info);
}

static void cmdEndRendering(VkCommandBuffer cmd) {
	cmdEndRenderingFn(cmd);
}

static VkPhysicalDeviceDynamicRenderingFeatures* newDynamicRenderingFeatures(void) {
	VkPhysicalDeviceDynamicRenderingFeatures* f = calloc(1, sizeof(*f));
	if (f != NULL) {
		f->sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_DYNAMIC_RENDERING_FEATURES;
		f->dynamicRendering = VK_TRUE;
	}
	return f;
}

// The colour format array lives in the same allocation, right after the struct.
static VkPipelineRenderingCreateInfo* newPipelineRenderingInfo(VkFormat format) {
	VkPipelineRenderingCreateInfo* info = calloc(1, sizeof(*info) + sizeof(VkFormat));
	if (info != NULL) {
		VkFormat* formats = (VkFormat*)(info + 1);
		formats[0] = format;
		info->sType = VK_STRUCTURE_TYPE_PIPELINE_RENDERING_CREATE_INFO;
		info->colorAttachmentCount = 1;
		info->pColorAttachmentFormats = formats;
	}
	return info;
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"
)

var errDynamicRendering = errors.New("vkCmdBeginRendering/vkCmdEndRendering not available")

// loadDynamicRendering resolves the rendering commands for device. It must
// run before any frame is recorded.
func loadDynamicRendering(getInstanceProcAddr unsafe.Pointer, instance vulkan.Instance, device vulkan.Device) error {
	ok := C.loadDynamicRendering(
		getInstanceProcAddr,
		C.VkInstance(unsafe.Pointer(instance)),
		C.VkDevice(unsafe.Pointer(device)),
	)
	if ok == 0 {
		return errDynamicRendering
	}
	return nil
}

func cmdBeginRendering(cmd vulkan.CommandBuffer, view vulkan.ImageView, extent vulkan.Extent2D, clear mgl32.Vec4) {
	C.cmdBeginRendering(
		C.VkCommandBuffer(unsafe.Pointer(cmd)),
		C.VkImageView(unsafe.Pointer(view)),
		C.uint32_t(extent.Width), C.uint32_t(extent.Height),
		C.float(clear[0]), C.float(clear[1]), C.float(clear[2]), C.float(clear[3]),
	)
}

func cmdEndRendering(cmd vulkan.CommandBuffer) {
	C.cmdEndRendering(C.VkCommandBuffer(unsafe.Pointer(cmd)))
}

// newDynamicRenderingFeatures returns a C-allocated feature struct for the
// pNext chain of VkDeviceCreateInfo. Release it with freeChain.
func newDynamicRenderingFeatures() unsafe.Pointer {
	return unsafe.Pointer(C.newDynamicRenderingFeatures())
}

// newPipelineRenderingInfo returns a C-allocated VkPipelineRenderingCreateInfo
// naming format as the only colour attachment. Release it with freeChain.
func newPipelineRenderingInfo(format vulkan.Format) unsafe.Pointer {
	return unsafe.Pointer(C.newPipelineRenderingInfo(C.VkFormat(format)))
}

func freeChain(p unsafe.Pointer) {
	C.free(p)
}
