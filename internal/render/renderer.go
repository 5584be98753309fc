package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// QuadVertexCount is the number of vertices of the two triangles the vertex
// shader generates for a unit quad.
const QuadVertexCount = 6

type slotState int

const (
	slotIdle slotState = iota
	slotRecording
	slotSubmitted
	// slotLost marks a slot whose fence was reset but never submitted.
	slotLost
)

func (s slotState) String() string {
	switch s {
	case slotRecording:
		return "recording"
	case slotSubmitted:
		return "submitted"
	case slotLost:
		return "lost"
	default:
		return "idle"
	}
}

// Renderer records one command buffer per frame and draws unit quads
// positioned by caller-supplied transforms. Frames are bracketed by Begin and
// End; any number of SetColor and DrawQuad calls may sit between them.
//
// A Renderer is not safe for concurrent use. It must be driven from the
// thread that owns the window.
type Renderer struct {
	drv Driver

	currentFrame int
	currentImage uint32
	slots        [FramesInFlight]slotState

	stats *frameStats
}

// New returns a Renderer recording through drv. The Renderer takes ownership
// of drv and destroys it on Close.
func New(drv Driver) *Renderer {
	return newRenderer(drv, time.Now)
}

func newRenderer(drv Driver, now func() time.Time) *Renderer {
	return &Renderer{
		drv:   drv,
		stats: newFrameStats(now),
	}
}

// Begin starts a frame cleared to clear. It blocks until the GPU has finished
// the previous frame recorded on the same slot and a swapchain image is
// available.
//
// A failure after the slot's fence was reset leaves that fence unsignalled.
// Later calls on the slot then return ErrFrameLost instead of waiting on it.
func (r *Renderer) Begin(clear mgl32.Vec4) error {
	slot := r.currentFrame
	switch r.slots[slot] {
	case slotRecording:
		return fmt.Errorf("begin: frame slot %d is already recording", slot)
	case slotLost:
		return fmt.Errorf("begin: frame slot %d: %w", slot, ErrFrameLost)
	}

	if err := r.drv.WaitFrame(slot); err != nil {
		return err
	}
	r.slots[slot] = slotIdle

	image, err := r.drv.AcquireImage(slot)
	if errors.Is(err, ErrOutOfDate) {
		if err := r.recreate(); err != nil {
			return err
		}
		image, err = r.drv.AcquireImage(slot)
	}
	if err != nil {
		return err
	}
	if n := r.drv.ImageCount(); int(image) >= n {
		return fmt.Errorf("begin: acquired image %d outside [0, %d)", image, n)
	}
	r.currentImage = image

	// The fence is reset only once an image is in hand, so a failed acquire
	// leaves it signalled and the next wait cannot hang.
	if err := r.drv.ResetFrame(slot); err != nil {
		return err
	}
	r.slots[slot] = slotLost
	if err := r.drv.BeginCommands(slot); err != nil {
		return err
	}
	r.drv.Barrier(slot, image, ToColorAttachment)
	r.drv.BeginRendering(slot, image, clear)
	r.drv.BindPipeline(slot)
	r.slots[slot] = slotRecording
	return nil
}

// SetColor sets the fill colour of subsequent quads in the current frame.
func (r *Renderer) SetColor(rgb mgl32.Vec3) {
	if r.slots[r.currentFrame] != slotRecording {
		return
	}
	r.drv.PushConstants(r.currentFrame, StageFragment, ColorOffset, rgb[:])
}

// DrawQuad draws the unit square [0,1]x[0,1] mapped through transform.
func (r *Renderer) DrawQuad(transform mgl32.Mat4) {
	if r.slots[r.currentFrame] != slotRecording {
		return
	}
	r.drv.PushConstants(r.currentFrame, StageVertex, TransformOffset, transform[:])
	r.drv.Draw(r.currentFrame, QuadVertexCount, 1)
}

// End finishes the frame started by Begin, submits it and queues it for
// presentation. The frame cursor advances even when presentation reports a
// stale surface; the swapchain is then rebuilt before returning.
func (r *Renderer) End() error {
	slot := r.currentFrame
	if r.slots[slot] != slotRecording {
		return fmt.Errorf("end: frame slot %d is %s, not recording", slot, r.slots[slot])
	}

	r.drv.EndRendering(slot)
	r.drv.Barrier(slot, r.currentImage, ToPresent)
	r.slots[slot] = slotLost
	if err := r.drv.EndCommands(slot); err != nil {
		return err
	}
	if err := r.drv.Submit(slot); err != nil {
		return err
	}
	r.slots[slot] = slotSubmitted

	err := r.drv.Present(slot, r.currentImage)
	r.currentFrame = (r.currentFrame + 1) % FramesInFlight
	r.stats.frame()

	if errors.Is(err, ErrOutOfDate) {
		return r.recreate()
	}
	return err
}

// Close waits for the GPU to go idle and releases every resource.
func (r *Renderer) Close() error {
	if r.drv == nil {
		return nil
	}
	err := r.drv.WaitIdle()
	r.drv.Destroy()
	r.drv = nil
	return err
}

func (r *Renderer) recreate() error {
	Logger().Info("recreating swapchain")
	if err := r.drv.Recreate(); err != nil {
		return fmt.Errorf("recreate swapchain: %w", err)
	}
	return nil
}
