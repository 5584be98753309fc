package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type call struct {
	op     string
	slot   int
	image  uint32
	trans  Transition
	stage  Stage
	offset uint32
	data   []float32
	clear  mgl32.Vec4

	vertices, instances uint32
}

// fakeDriver records every call and models the fences of each slot. The GPU
// finishes a submission only when the CPU waits for it, which makes the
// number of unfenced submissions observable.
type fakeDriver struct {
	images int
	calls  []call

	signaled    [FramesInFlight]bool
	pending     [FramesInFlight]bool
	inFlight    int
	maxInFlight int

	nextImage   uint32
	acquireErrs []error
	presentErrs []error
	forceImage  *uint32

	beginCommandsErr error
	endCommandsErr   error

	recreated  int
	waitedIdle bool
	destroyed  bool
}

func newFakeDriver(images int) *fakeDriver {
	f := &fakeDriver{images: images}
	for i := range f.signaled {
		f.signaled[i] = true
	}
	return f
}

func (f *fakeDriver) record(c call) { f.calls = append(f.calls, c) }

func (f *fakeDriver) ImageCount() int { return f.images }

func (f *fakeDriver) WaitFrame(slot int) error {
	f.record(call{op: "wait", slot: slot})
	if f.pending[slot] {
		f.pending[slot] = false
		f.inFlight--
		f.signaled[slot] = true
	}
	if !f.signaled[slot] {
		return fmt.Errorf("wait on slot %d would never return", slot)
	}
	return nil
}

func (f *fakeDriver) AcquireImage(slot int) (uint32, error) {
	f.record(call{op: "acquire", slot: slot})
	if len(f.acquireErrs) > 0 {
		err := f.acquireErrs[0]
		f.acquireErrs = f.acquireErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	if f.forceImage != nil {
		return *f.forceImage, nil
	}
	img := f.nextImage
	f.nextImage = (f.nextImage + 1) % uint32(f.images)
	return img, nil
}

func (f *fakeDriver) ResetFrame(slot int) error {
	f.record(call{op: "reset", slot: slot})
	if !f.signaled[slot] {
		return fmt.Errorf("reset of unsignalled fence on slot %d", slot)
	}
	f.signaled[slot] = false
	return nil
}

func (f *fakeDriver) BeginCommands(slot int) error {
	f.record(call{op: "begin-commands", slot: slot})
	return f.beginCommandsErr
}

func (f *fakeDriver) Barrier(slot int, image uint32, t Transition) {
	f.record(call{op: "barrier", slot: slot, image: image, trans: t})
}

func (f *fakeDriver) BeginRendering(slot int, image uint32, clear mgl32.Vec4) {
	f.record(call{op: "begin-rendering", slot: slot, image: image, clear: clear})
}

func (f *fakeDriver) BindPipeline(slot int) {
	f.record(call{op: "bind", slot: slot})
}

func (f *fakeDriver) PushConstants(slot int, stage Stage, offset uint32, data []float32) {
	f.record(call{op: "push", slot: slot, stage: stage, offset: offset, data: append([]float32(nil), data...)})
}

func (f *fakeDriver) Draw(slot int, vertexCount, instanceCount uint32) {
	f.record(call{op: "draw", slot: slot, vertices: vertexCount, instances: instanceCount})
}

func (f *fakeDriver) EndRendering(slot int) {
	f.record(call{op: "end-rendering", slot: slot})
}

func (f *fakeDriver) EndCommands(slot int) error {
	f.record(call{op: "end-commands", slot: slot})
	return f.endCommandsErr
}

func (f *fakeDriver) Submit(slot int) error {
	f.record(call{op: "submit", slot: slot})
	if f.signaled[slot] {
		return errors.New("submit with a signalled fence")
	}
	f.pending[slot] = true
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	return nil
}

func (f *fakeDriver) Present(slot int, image uint32) error {
	f.record(call{op: "present", slot: slot, image: image})
	if len(f.presentErrs) > 0 {
		err := f.presentErrs[0]
		f.presentErrs = f.presentErrs[1:]
		return err
	}
	return nil
}

func (f *fakeDriver) Recreate() error {
	f.record(call{op: "recreate"})
	f.recreated++
	f.nextImage = 0
	return nil
}

func (f *fakeDriver) WaitIdle() error {
	f.record(call{op: "wait-idle"})
	f.waitedIdle = true
	return nil
}

func (f *fakeDriver) Destroy() {
	f.record(call{op: "destroy"})
	f.destroyed = true
}

func (f *fakeDriver) ops() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.op
	}
	return out
}

func (f *fakeDriver) filter(op string) []call {
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// frames splits the recorded calls into per-frame groups, each starting at a
// fence wait.
func (f *fakeDriver) frames() [][]call {
	var out [][]call
	for _, c := range f.calls {
		if c.op == "wait" || len(out) == 0 {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], c)
	}
	return out
}
