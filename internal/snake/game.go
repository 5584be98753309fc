// Package snake implements the grid game driven by the main loop.
package snake

import (
	"math/rand/v2"
	"slices"

	"vksnake/internal/input"
)

const (
	Width  = 25
	Height = 21
)

// Cell is a grid position. The origin is the bottom-left cell.
type Cell struct {
	X, Y int
}

func (c Cell) add(o Cell) Cell {
	return Cell{c.X + o.X, c.Y + o.Y}
}

func (c Cell) inBounds() bool {
	return c.X >= 0 && c.X < Width && c.Y >= 0 && c.Y < Height
}

var start = Cell{1, Height / 2}

// Game is the snake state machine. The snake is stationary until the first
// direction is applied; it resets on leaving the grid, on hitting itself and
// on filling the grid.
type Game struct {
	rng       *rand.Rand
	body      []Cell // head first
	food      Cell
	direction Cell
	pending   []Cell
}

// New returns a game seeded from the runtime's random source.
func New() *Game {
	return NewWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithRand returns a game placing food with rng.
func NewWithRand(rng *rand.Rand) *Game {
	g := &Game{rng: rng}
	g.reset()
	return g
}

// Enqueue schedules a direction change for a later tick.
func (g *Game) Enqueue(d input.Direction) {
	dx, dy := d.Vector()
	g.pending = append(g.pending, Cell{dx, dy})
}

// Tick advances the game by one step.
func (g *Game) Tick() {
	// A reversal would run the head into the neck, so it is skipped and the
	// next queued direction considered.
	for len(g.pending) > 0 {
		dir := g.pending[0]
		g.pending = g.pending[1:]
		if dir.add(g.direction) != (Cell{}) {
			g.direction = dir
			break
		}
	}

	head := g.body[0].add(g.direction)
	if !head.inBounds() {
		g.reset()
		return
	}

	if head == g.food {
		g.body = slices.Insert(g.body, 0, head)
		if len(g.body) == Width*Height {
			g.reset()
			return
		}
		g.placeFood()
		return
	}

	g.body = g.body[:len(g.body)-1]
	if slices.Contains(g.body, head) {
		g.reset()
		return
	}
	g.body = slices.Insert(g.body, 0, head)
}

func (g *Game) reset() {
	g.body = []Cell{start}
	g.direction = Cell{}
	g.pending = nil
	g.placeFood()
}

func (g *Game) placeFood() {
	for {
		c := Cell{g.rng.IntN(Width), g.rng.IntN(Height)}
		if !slices.Contains(g.body, c) {
			g.food = c
			return
		}
	}
}

// Body returns the snake's cells, head first. The slice must not be modified.
func (g *Game) Body() []Cell {
	return g.body
}

func (g *Game) Food() Cell {
	return g.food
}

// Direction returns the current step vector; zero while stationary.
func (g *Game) Direction() (dx, dy int) {
	return g.direction.X, g.direction.Y
}
