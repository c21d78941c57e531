// Package engine holds the host timing primitives: clocks, tick schedulers and the frame loop
package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// FrameLoop is a fixed-interval host loop handing the measured delta to an update function
// Stands in for the render loop when the rig runs headless
type FrameLoop struct {
	interval time.Duration
	maxDelta time.Duration
	clock    TimeProvider
	update   func(dt time.Duration)

	frames atomic.Uint64
}

// NewFrameLoop creates a loop calling update every interval
// Deltas larger than maxDelta are clamped; zero disables clamping
func NewFrameLoop(interval, maxDelta time.Duration, clock TimeProvider, update func(dt time.Duration)) *FrameLoop {
	return &FrameLoop{
		interval: interval,
		maxDelta: maxDelta,
		clock:    clock,
		update:   update,
	}
}

// Run blocks until ctx is cancelled
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := l.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last)
			last = now
			l.Step(dt)
		}
	}
}

// Step runs one frame with an explicit delta
func (l *FrameLoop) Step(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if l.maxDelta > 0 && dt > l.maxDelta {
		dt = l.maxDelta
	}
	l.update(dt)
	l.frames.Add(1)
}

// Frames returns the number of frames run so far
func (l *FrameLoop) Frames() uint64 {
	return l.frames.Load()
}
