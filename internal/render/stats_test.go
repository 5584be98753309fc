package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestFrameStats(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newFrameStats(clock.now)

	for i := 0; i < 59; i++ {
		clock.t = clock.t.Add(10 * time.Millisecond)
		assert.False(t, s.frame())
	}
	clock.t = time.Unix(1, 0)
	assert.True(t, s.frame())
	assert.InDelta(t, 60.0, s.fps, 0.001)
	assert.Zero(t, s.frameCount)

	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, s.frame())
	assert.Equal(t, 1, s.frameCount)
}

func TestRendererCountsFrames(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	drv := newFakeDriver(2)
	r := newRenderer(drv, clock.now)

	drawFrame(t, r, testClear, 0)
	drawFrame(t, r, testClear, 0)
	assert.Equal(t, 2, r.stats.frameCount)

	clock.t = clock.t.Add(2 * time.Second)
	drawFrame(t, r, testClear, 0)
	assert.InDelta(t, 1.5, r.stats.fps, 0.001)
}
