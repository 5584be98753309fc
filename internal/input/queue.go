// Package input turns key presses into direction events for the game loop.
package input

// Direction is a logical move on the grid, with y growing upwards.
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Vector returns the unit grid step of d.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// DefaultQueueSize bounds the number of presses buffered between two drains.
const DefaultQueueSize = 16

// Queue buffers press events from the window callback until the game loop
// drains them.
type Queue struct {
	events chan Direction
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{events: make(chan Direction, size)}
}

// Push records d without blocking. It reports false when the queue is full
// and the press was dropped.
func (q *Queue) Push(d Direction) bool {
	select {
	case q.events <- d:
		return true
	default:
		return false
	}
}

// Drain calls fn for every pending event in arrival order.
func (q *Queue) Drain(fn func(Direction)) {
	for {
		select {
		case d := <-q.events:
			fn(d)
		default:
			return
		}
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}
