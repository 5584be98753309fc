package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vulkan-go/glfw/v3.3/glfw"

	"vksnake/internal/input"
)

func TestKeyDirection(t *testing.T) {
	cases := []struct {
		key  glfw.Key
		want input.Direction
	}{
		{glfw.KeyW, input.Up},
		{glfw.KeyUp, input.Up},
		{glfw.KeyS, input.Down},
		{glfw.KeyDown, input.Down},
		{glfw.KeyA, input.Left},
		{glfw.KeyLeft, input.Left},
		{glfw.KeyD, input.Right},
		{glfw.KeyRight, input.Right},
	}
	for _, c := range cases {
		got, ok := keyDirection(c.key)
		assert.True(t, ok, "key %d", c.key)
		assert.Equal(t, c.want, got, "key %d", c.key)
	}
}

func TestKeyDirectionIgnoresOtherKeys(t *testing.T) {
	for _, key := range []glfw.Key{glfw.KeySpace, glfw.KeyEscape, glfw.KeyQ} {
		_, ok := keyDirection(key)
		assert.False(t, ok, "key %d", key)
	}
}
