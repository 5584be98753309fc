package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/glfw/v3.3/glfw"

	"vksnake/internal/input"
	"vksnake/internal/render"
	"vksnake/internal/snake"
	"vksnake/internal/vkdriver"
)

func init() {
	// GLFW/Vulkan require the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		var apiErr *vkdriver.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "Vulkan error: %v (%d)\n", err, apiErr.Code())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	window, err := glfw.CreateWindow(snake.Width*pixelsPerCell, snake.Height*pixelsPerCell, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	queue := input.NewQueue(input.DefaultQueueSize)
	window.SetKeyCallback(onKey(queue))

	drv, err := vkdriver.New(window, vkdriver.Config{AppName: windowTitle, Validation: cfg.validation})
	if err != nil {
		return err
	}
	renderer := render.New(drv)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Printf("close renderer: %v", err)
		}
	}()

	log.Printf("Entering main loop")
	return loop(window, renderer, queue, cfg)
}

func loop(window *glfw.Window, renderer *render.Renderer, queue *input.Queue, cfg appConfig) error {
	game := snake.New()
	projection := mgl32.Ortho2D(0, snake.Width, snake.Height, 0)
	tickDelay := cfg.tickDelay.Seconds()
	lastTick := glfw.GetTime()

	for !window.ShouldClose() {
		glfw.PollEvents()
		queue.Drain(game.Enqueue)

		if now := glfw.GetTime(); now-lastTick >= tickDelay {
			game.Tick()
			lastTick = now
		}

		if err := renderer.Begin(clearColor); err != nil {
			return err
		}
		renderer.SetColor(snakeColor)
		for _, c := range game.Body() {
			renderer.DrawQuad(cellTransform(projection, c))
		}
		renderer.SetColor(foodColor)
		renderer.DrawQuad(cellTransform(projection, game.Food()))
		if err := renderer.End(); err != nil {
			return err
		}
	}
	return nil
}

func cellTransform(projection mgl32.Mat4, c snake.Cell) mgl32.Mat4 {
	return projection.Mul4(mgl32.Translate3D(float32(c.X), float32(c.Y), 0))
}
