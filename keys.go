package main

import (
	"github.com/vulkan-go/glfw/v3.3/glfw"

	"vksnake/internal/input"
)

func keyDirection(key glfw.Key) (input.Direction, bool) {
	switch key {
	case glfw.KeyW, glfw.KeyUp:
		return input.Up, true
	case glfw.KeyS, glfw.KeyDown:
		return input.Down, true
	case glfw.KeyA, glfw.KeyLeft:
		return input.Left, true
	case glfw.KeyD, glfw.KeyRight:
		return input.Right, true
	default:
		return 0, false
	}
}

// onKey queues a direction for every movement key press. Repeats and
// releases are ignored. Escape closes the window.
func onKey(queue *input.Queue) glfw.KeyCallback {
	return func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		if d, ok := keyDirection(key); ok {
			queue.Push(d)
		}
	}
}
