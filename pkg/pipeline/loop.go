package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/graphweave/pkg/engine"
)

// DefaultFrameInterval targets roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop drives a simulator one tick per frame and hands each frame's frozen
// state to a callback.
//
// All state mutation happens on the loop's goroutine: external input (drag,
// release) is queued through [Loop.Do] and applied between ticks, so there
// is exactly one writer per tick and the callback only ever reads a settled
// frame. Canceling the context stops scheduling; no cleanup is required
// because the state is plain data.
type Loop struct {
	sim      *engine.Simulator
	st       *engine.State
	interval time.Duration
	onFrame  func(*engine.State)
	input    chan func(*engine.State)
}

// NewLoop creates a frame loop over a simulator and its state. A zero
// interval takes [DefaultFrameInterval]; a nil onFrame runs the simulation
// without observation.
func NewLoop(sim *engine.Simulator, st *engine.State, interval time.Duration, onFrame func(*engine.State)) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if onFrame == nil {
		onFrame = func(*engine.State) {}
	}
	return &Loop{
		sim:      sim,
		st:       st,
		interval: interval,
		onFrame:  onFrame,
		input:    make(chan func(*engine.State), 16),
	}
}

// Do queues fn to run on the loop goroutine before the next tick. Use this
// for drag input and other state mutation while the loop is running.
func (l *Loop) Do(fn func(*engine.State)) {
	l.input <- fn
}

// Run ticks the simulation until the context is canceled. It returns the
// context's error, or nil if the context was never canceled and the caller
// stopped the loop by other means.
//
// Frames keep running after the simulation settles so drag input continues
// to be serviced.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.input:
			fn(l.st)
		case <-ticker.C:
			l.drainInput()
			l.sim.Step(l.st)
			l.onFrame(l.st)
		}
	}
}

// drainInput applies all queued input without blocking.
func (l *Loop) drainInput() {
	for {
		select {
		case fn := <-l.input:
			fn(l.st)
		default:
			return
		}
	}
}
