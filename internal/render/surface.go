package render

import "math"

// SwapImageCount is the number of presentable images requested from the
// platform.
const SwapImageCount = 2

// undefinedExtent is the currentExtent value meaning the surface size is
// decided by the swapchain.
const undefinedExtent = math.MaxUint32

type Extent struct {
	Width, Height uint32
}

// SurfaceCapabilities is the subset of the platform's surface limits that
// swapchain negotiation depends on. MaxImageCount 0 means unbounded.
type SurfaceCapabilities struct {
	Current       Extent
	Min           Extent
	Max           Extent
	MinImageCount uint32
	MaxImageCount uint32
}

// ChooseExtent returns the platform's current extent unless it is the
// undefined sentinel, in which case the framebuffer size is clamped into the
// supported range.
func ChooseExtent(caps SurfaceCapabilities, fbWidth, fbHeight int) Extent {
	if caps.Current.Width != undefinedExtent {
		return caps.Current
	}
	return Extent{
		Width:  uint32(clamp(uint64(max(fbWidth, 0)), uint64(caps.Min.Width), uint64(caps.Max.Width))),
		Height: uint32(clamp(uint64(max(fbHeight, 0)), uint64(caps.Min.Height), uint64(caps.Max.Height))),
	}
}

// ChooseImageCount returns SwapImageCount raised or lowered into the range
// the platform supports. The second result reports whether it was adjusted.
func ChooseImageCount(caps SurfaceCapabilities) (uint32, bool) {
	count := uint32(SwapImageCount)
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count, count != SwapImageCount
}

func clamp(val, min, max uint64) uint64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
