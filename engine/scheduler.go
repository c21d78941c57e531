package engine

import (
	"sync"
	"time"
)

// Ticker is a running periodic callback
type Ticker interface {
	// Stop halts further callbacks, safe to call from inside the callback and more than once
	// A callback already in flight on another goroutine may still complete
	Stop()
}

// Scheduler runs periodic callbacks independent of the host frame loop
type Scheduler interface {
	Every(period time.Duration, fn func()) Ticker
}

// RealScheduler runs each ticker on its own goroutine against the wall clock
type RealScheduler struct{}

// NewRealScheduler creates a wall-clock scheduler
func NewRealScheduler() *RealScheduler {
	return &RealScheduler{}
}

// Every starts a drift-corrected ticker calling fn once per period
func (s *RealScheduler) Every(period time.Duration, fn func()) Ticker {
	t := &realTicker{
		period:   period,
		fn:       fn,
		stopChan: make(chan struct{}),
	}
	Go(t.loop)
	return t
}

type realTicker struct {
	period   time.Duration
	fn       func()
	stopChan chan struct{}
	stopOnce sync.Once
}

func (t *realTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
	})
}

// loop fires against absolute deadlines so callback time does not accumulate as drift
func (t *realTicker) loop() {
	nextDeadline := time.Now().Add(t.period)

	timer := time.NewTimer(t.period)
	defer timer.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-timer.C:
		}

		// Stop may have raced the timer
		select {
		case <-t.stopChan:
			return
		default:
		}

		t.fn()

		now := time.Now()
		nextDeadline = nextDeadline.Add(t.period)

		// Skip missed ticks instead of bursting after a stall
		maxBehind := t.period * 2
		if now.Sub(nextDeadline) > maxBehind {
			nextDeadline = now.Add(t.period)
		}

		wait := nextDeadline.Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

// ManualScheduler fires tickers only when Advance is called
// Time is taken from a MockTimeProvider that Advance moves forward tick by tick
type ManualScheduler struct {
	mu      sync.Mutex
	clock   *MockTimeProvider
	tickers []*manualTicker
}

type manualTicker struct {
	sched   *ManualScheduler
	period  time.Duration
	next    time.Time
	fn      func()
	stopped bool
}

// NewManualScheduler creates a scheduler bound to clock
func NewManualScheduler(clock *MockTimeProvider) *ManualScheduler {
	return &ManualScheduler{clock: clock}
}

// Clock returns the mock clock driven by Advance
func (m *ManualScheduler) Clock() *MockTimeProvider {
	return m.clock
}

// Every registers a ticker whose first callback is one period from now
func (m *ManualScheduler) Every(period time.Duration, fn func()) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTicker{
		sched:  m,
		period: period,
		next:   m.clock.Now().Add(period),
		fn:     fn,
	}
	m.tickers = append(m.tickers, t)
	return t
}

func (t *manualTicker) Stop() {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.stopped = true
}

// Advance moves the clock forward by d, firing every due callback in time order
// Equal deadlines fire in registration order; callbacks may register or stop tickers
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)

	for {
		m.mu.Lock()
		var due *manualTicker
		for _, t := range m.tickers {
			if t.stopped || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			m.compact()
			m.mu.Unlock()
			break
		}
		at := due.next
		due.next = due.next.Add(due.period)
		fn := due.fn
		m.mu.Unlock()

		m.clock.SetTime(at)
		fn()
	}

	m.clock.SetTime(target)
}

// Active returns the number of tickers not yet stopped
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// compact drops stopped tickers, caller holds mu
func (m *ManualScheduler) compact() {
	kept := m.tickers[:0]
	for _, t := range m.tickers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(m.tickers); i++ {
		m.tickers[i] = nil
	}
	m.tickers = kept
}
