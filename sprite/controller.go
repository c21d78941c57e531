package sprite

import (
	"sync"
	"time"

	"github.com/lixenwraith/moodrig/engine"
)

// Controller steps through a frame list on its own scheduler tick
// The tick period is derived from fps and is independent of the host frame delta
// Safe for concurrent use: ticks arrive on the scheduler goroutine
type Controller struct {
	mu sync.Mutex

	frames []Frame
	fps    float64
	loop   bool

	sched   engine.Scheduler
	onFrame func(Frame)

	ticker     engine.Ticker
	onComplete func()
	gen        uint64 // bumped on every start and stop, stale ticks compare against it

	next    int // index of the next frame to show
	current Frame
	shown   bool
	paused  bool
	running bool
	done    bool
}

// NewController creates a stopped controller; onFrame receives every shown frame
func NewController(frames []Frame, fps float64, loop bool, sched engine.Scheduler, onFrame func(Frame)) (*Controller, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if fps <= 0 {
		return nil, ErrInvalidFPS
	}
	return &Controller{
		frames:  append([]Frame(nil), frames...),
		fps:     fps,
		loop:    loop,
		sched:   sched,
		onFrame: onFrame,
	}, nil
}

// Period returns the tick interval for the frame rate
func (c *Controller) Period() time.Duration {
	return time.Duration(float64(time.Second) / c.fps)
}

// Start rewinds to frame 0, shows it immediately and schedules the ticker
// onComplete runs once when a non-looping animation plays out, never for looping ones
func (c *Controller) Start(onComplete func()) {
	c.Stop()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.next = 0
	c.shown = false
	c.done = false
	c.running = true
	c.onComplete = onComplete
	c.mu.Unlock()

	ticker := c.sched.Every(c.Period(), func() { c.tick(gen) })

	c.mu.Lock()
	if c.gen == gen {
		c.ticker = ticker
	} else {
		// Stopped concurrently before the ticker was stored
		ticker.Stop()
	}
	c.mu.Unlock()

	c.tick(gen)
}

// Stop cancels the ticker; the last shown frame stays current
func (c *Controller) Stop() {
	c.mu.Lock()
	ticker := c.ticker
	c.ticker = nil
	c.running = false
	c.gen++
	c.mu.Unlock()

	if ticker != nil {
		ticker.Stop()
	}
}

// Pause holds the current frame; ticks keep arriving and are ignored
func (c *Controller) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume continues from the held frame
func (c *Controller) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.advance()
}

// Step shows the next frame
// Past the last frame a looping animation wraps to 0, otherwise the controller stops and
// completes. A paused, stopped or completed controller ignores Step
func (c *Controller) Step() {
	c.mu.Lock()
	c.advance()
}

// advance runs with mu held and releases it before calling out
func (c *Controller) advance() {
	if c.paused || !c.running || c.done {
		c.mu.Unlock()
		return
	}

	if c.next >= len(c.frames) {
		if !c.loop {
			c.done = true
			c.running = false
			c.gen++
			ticker := c.ticker
			c.ticker = nil
			complete := c.onComplete
			c.onComplete = nil
			c.mu.Unlock()

			if ticker != nil {
				ticker.Stop()
			}
			if complete != nil {
				complete()
			}
			return
		}
		c.next = 0
	}

	f := c.frames[c.next]
	c.next++
	c.current = f
	c.shown = true
	onFrame := c.onFrame
	c.mu.Unlock()

	if onFrame != nil {
		onFrame(f)
	}
}

// Frame returns the last shown frame and whether any frame has been shown
func (c *Controller) Frame() (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.shown
}

// Position returns the index of the last shown frame, -1 before the first
func (c *Controller) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next - 1
}

// Running reports whether the ticker is active
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Done reports whether a non-looping animation has completed
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Paused reports the pause flag
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Len returns the number of frames
func (c *Controller) Len() int { return len(c.frames) }

// FPS returns the frame rate
func (c *Controller) FPS() float64 { return c.fps }

// Loop reports whether the animation wraps
func (c *Controller) Loop() bool { return c.loop }
