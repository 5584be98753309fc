package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	windowTitle   = "Vulkan Snake"
	pixelsPerCell = 25

	defaultTickDelay = 100 * time.Millisecond
)

var (
	clearColor = mgl32.Vec4{0.08, 0.08, 0.08, 1}
	snakeColor = mgl32.Vec3{1, 1, 1}
	foodColor  = mgl32.Vec3{1, 0, 0}
)

type appConfig struct {
	validation bool
	debug      bool
	tickDelay  time.Duration
}

func loadConfig() (appConfig, error) {
	cfg := appConfig{
		validation: envBool("VK_VALIDATION"),
		debug:      envBool("VKSNAKE_DEBUG"),
		tickDelay:  defaultTickDelay,
	}
	if val := os.Getenv("VKSNAKE_TICK"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("VKSNAKE_TICK: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("VKSNAKE_TICK: must be positive, got %s", d)
		}
		cfg.tickDelay = d
	}
	return cfg, nil
}

// envBool reports whether the variable is set to anything but an explicit
// false value.
func envBool(name string) bool {
	switch os.Getenv(name) {
	case "", "0", "false", "False", "FALSE":
		return false
	default:
		return true
	}
}
