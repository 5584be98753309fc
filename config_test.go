package main

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vksnake/internal/snake"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("VK_VALIDATION", "")
	t.Setenv("VKSNAKE_DEBUG", "")
	t.Setenv("VKSNAKE_TICK", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.validation)
	assert.False(t, cfg.debug)
	assert.Equal(t, 100*time.Millisecond, cfg.tickDelay)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("VK_VALIDATION", "1")
	t.Setenv("VKSNAKE_DEBUG", "false")
	t.Setenv("VKSNAKE_TICK", "250ms")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.validation)
	assert.False(t, cfg.debug)
	assert.Equal(t, 250*time.Millisecond, cfg.tickDelay)
}

func TestLoadConfigRejectsBadTick(t *testing.T) {
	for _, val := range []string{"fast", "0s", "-1s"} {
		t.Setenv("VKSNAKE_TICK", val)
		_, err := loadConfig()
		assert.Error(t, err, val)
	}
}

func TestCellTransform(t *testing.T) {
	projection := mgl32.Ortho2D(0, snake.Width, snake.Height, 0)

	// The unit quad of the bottom-left cell spans the bottom-left of clip space.
	m := cellTransform(projection, snake.Cell{X: 0, Y: 0})
	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -1, origin.X(), 1e-6)
	assert.InDelta(t, 1, origin.Y(), 1e-6)

	m = cellTransform(projection, snake.Cell{X: snake.Width - 1, Y: snake.Height - 1})
	corner := m.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.InDelta(t, 1, corner.X(), 1e-6)
	assert.InDelta(t, -1, corner.Y(), 1e-6)
}
