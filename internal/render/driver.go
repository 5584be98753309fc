package render

import "github.com/go-gl/mathgl/mgl32"

// FramesInFlight is the number of frame slots a Driver must provide. A slot
// owns one command buffer, an image-acquired and a render-finished semaphore,
// and a fence that starts signalled.
const FramesInFlight = 2

// Transition selects one of the two image layout changes recorded per frame.
type Transition int

const (
	// ToColorAttachment moves an acquired image from an undefined layout to
	// colour-attachment-optimal before rendering.
	ToColorAttachment Transition = iota
	// ToPresent moves the rendered image to the presentable layout.
	ToPresent
)

func (t Transition) String() string {
	if t == ToPresent {
		return "present"
	}
	return "color-attachment"
}

// Driver is the graphics backend the Renderer records frames through. Every
// per-frame call names the frame slot it operates on.
//
// AcquireImage and Present return ErrOutOfDate when the surface no longer
// matches the swapchain; Recreate rebuilds everything that depends on it.
type Driver interface {
	// ImageCount returns the number of swapchain images.
	ImageCount() int

	WaitFrame(slot int) error
	AcquireImage(slot int) (uint32, error)
	ResetFrame(slot int) error

	BeginCommands(slot int) error
	Barrier(slot int, image uint32, t Transition)
	BeginRendering(slot int, image uint32, clear mgl32.Vec4)
	BindPipeline(slot int)
	PushConstants(slot int, stage Stage, offset uint32, data []float32)
	Draw(slot int, vertexCount, instanceCount uint32)
	EndRendering(slot int)
	EndCommands(slot int) error

	Submit(slot int) error
	Present(slot int, image uint32) error

	Recreate() error
	WaitIdle() error
	Destroy()
}
