package vkdriver

import (
	"fmt"

	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

const (
	swapFormat     = vulkan.FormatB8g8r8a8Unorm
	swapColorSpace = vulkan.ColorSpaceSrgbNonlinear
)

// swapchain owns the presentation swapchain and one view per image. The
// images themselves belong to the swapchain.
type swapchain struct {
	handle vulkan.Swapchain
	format vulkan.Format
	extent vulkan.Extent2D
	images []vulkan.Image
	views  []vulkan.ImageView
}

func newSwapchain(c *deviceContext) (*swapchain, error) {
	caps, err := querySurfaceCapabilities(c)
	if err != nil {
		return nil, err
	}

	formats, err := surfaceFormats(c)
	if err != nil {
		return nil, err
	}
	format := chooseSurfaceFormat(formats)

	limits := surfaceCapabilities(caps)
	extent := swapExtent(c, limits)
	imageCount, adjusted := render.ChooseImageCount(limits)
	if adjusted {
		render.Logger().Warn("swapchain image count adjusted by platform",
			"requested", render.SwapImageCount, "using", imageCount)
	}

	createInfo := vulkan.SwapchainCreateInfo{
		SType:            vulkan.StructureTypeSwapchainCreateInfo,
		Surface:          c.surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      vulkan.Extent2D{Width: extent.Width, Height: extent.Height},
		ImageArrayLayers: 1,
		ImageUsage:       vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit),
		ImageSharingMode: vulkan.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vulkan.CompositeAlphaOpaqueBit,
		PresentMode:      vulkan.PresentModeFifo,
		Clipped:          vulkan.True,
		OldSwapchain:     vulkan.Swapchain(vulkan.NullHandle),
	}

	s := &swapchain{
		format: format.Format,
		extent: createInfo.ImageExtent,
	}
	if err := newError("vkCreateSwapchainKHR", vulkan.CreateSwapchain(c.device, &createInfo, nil, &s.handle)); err != nil {
		return nil, err
	}

	var count uint32
	if err := newError("vkGetSwapchainImagesKHR", vulkan.GetSwapchainImages(c.device, s.handle, &count, nil)); err != nil {
		s.destroy(c.device)
		return nil, err
	}
	s.images = make([]vulkan.Image, count)
	if err := newError("vkGetSwapchainImagesKHR", vulkan.GetSwapchainImages(c.device, s.handle, &count, s.images)); err != nil {
		s.destroy(c.device)
		return nil, err
	}

	s.views = make([]vulkan.ImageView, 0, len(s.images))
	for i, img := range s.images {
		view, err := createImageView(c.device, img, s.format)
		if err != nil {
			s.destroy(c.device)
			return nil, fmt.Errorf("image view %d: %w", i, err)
		}
		s.views = append(s.views, view)
	}

	render.Logger().Info("swapchain created",
		"images", len(s.images), "width", s.extent.Width, "height", s.extent.Height, "format", int32(s.format))
	return s, nil
}

func querySurfaceCapabilities(c *deviceContext) (vulkan.SurfaceCapabilities, error) {
	var caps vulkan.SurfaceCapabilities
	if err := newError("vkGetPhysicalDeviceSurfaceCapabilitiesKHR",
		vulkan.GetPhysicalDeviceSurfaceCapabilities(c.gpu, c.surface, &caps)); err != nil {
		return caps, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

// swapExtent is the extent a swapchain created now would get.
func swapExtent(c *deviceContext, limits render.SurfaceCapabilities) render.Extent {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	return render.ChooseExtent(limits, fbWidth, fbHeight)
}

func surfaceCapabilities(caps vulkan.SurfaceCapabilities) render.SurfaceCapabilities {
	return render.SurfaceCapabilities{
		Current:       render.Extent{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		Min:           render.Extent{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		Max:           render.Extent{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
	}
}

func surfaceFormats(c *deviceContext) ([]vulkan.SurfaceFormat, error) {
	var count uint32
	if err := newError("vkGetPhysicalDeviceSurfaceFormatsKHR",
		vulkan.GetPhysicalDeviceSurfaceFormats(c.gpu, c.surface, &count, nil)); err != nil {
		return nil, err
	}
	formats := make([]vulkan.SurfaceFormat, count)
	if count > 0 {
		if err := newError("vkGetPhysicalDeviceSurfaceFormatsKHR",
			vulkan.GetPhysicalDeviceSurfaceFormats(c.gpu, c.surface, &count, formats)); err != nil {
			return nil, err
		}
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

// chooseSurfaceFormat prefers B8G8R8A8_UNORM with the sRGB non-linear colour
// space and otherwise takes the first pair the surface reports.
func chooseSurfaceFormat(available []vulkan.SurfaceFormat) vulkan.SurfaceFormat {
	preferred := vulkan.SurfaceFormat{Format: swapFormat, ColorSpace: swapColorSpace}
	for _, f := range available {
		if f.Format == swapFormat && f.ColorSpace == swapColorSpace {
			return f
		}
	}
	if len(available) == 0 || (len(available) == 1 && available[0].Format == vulkan.FormatUndefined) {
		return preferred
	}
	return available[0]
}

func createImageView(device vulkan.Device, image vulkan.Image, format vulkan.Format) (vulkan.ImageView, error) {
	viewInfo := vulkan.ImageViewCreateInfo{
		SType:    vulkan.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vulkan.ImageViewType2d,
		Format:   format,
		Components: vulkan.ComponentMapping{
			R: vulkan.ComponentSwizzleIdentity,
			G: vulkan.ComponentSwizzleIdentity,
			B: vulkan.ComponentSwizzleIdentity,
			A: vulkan.ComponentSwizzleIdentity,
		},
		SubresourceRange: colorSubresourceRange(),
	}
	var view vulkan.ImageView
	if err := newError("vkCreateImageView", vulkan.CreateImageView(device, &viewInfo, nil, &view)); err != nil {
		return vulkan.ImageView(vulkan.NullHandle), err
	}
	return view, nil
}

func colorSubresourceRange() vulkan.ImageSubresourceRange {
	return vulkan.ImageSubresourceRange{
		AspectMask:     vulkan.ImageAspectFlags(vulkan.ImageAspectColorBit),
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

// destroy releases the views and then the swapchain.
func (s *swapchain) destroy(device vulkan.Device) {
	for _, view := range s.views {
		vulkan.DestroyImageView(device, view, nil)
	}
	s.views = nil
	s.images = nil
	if s.handle != vulkan.Swapchain(vulkan.NullHandle) {
		vulkan.DestroySwapchain(device, s.handle, nil)
		s.handle = vulkan.Swapchain(vulkan.NullHandle)
	}
}
