package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevice is returned when the instance enumerates no physical devices.
	ErrNoDevice = errors.New("failed to find GPU with Vulkan support")
	// ErrNoQueueFamily is returned when no queue family supports both
	// graphics and presentation to the window surface.
	ErrNoQueueFamily = errors.New("failed to find appropriate queue family")
	// ErrOutOfDate is returned by a Driver when the presentation surface no
	// longer matches the swapchain and must be recreated.
	ErrOutOfDate = errors.New("swapchain out of date")
	// ErrFrameLost is returned by Begin for a frame slot whose fence was
	// reset by a frame that then failed before submission.
	ErrFrameLost = errors.New("frame slot fence will never signal")
)

// InitError reports a failure while bringing up the renderer.
// Startup is never retried.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// NewInitError wraps err with the startup stage it happened in.
// It returns nil when err is nil.
func NewInitError(stage string, err error) error {
	if err == nil {
		return nil
	}
	var initErr *InitError
	if errors.As(err, &initErr) {
		return err
	}
	return &InitError{Stage: stage, Err: err}
}
