package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TestManualSchedulerFiresInOrder verifies interleaved tickers fire by deadline
func TestManualSchedulerFiresInOrder(t *testing.T) {
	clock := NewMockTimeProvider(testEpoch)
	sched := NewManualScheduler(clock)

	var log []string
	sched.Every(30*time.Millisecond, func() { log = append(log, "a") })
	sched.Every(20*time.Millisecond, func() { log = append(log, "b") })

	sched.Advance(60 * time.Millisecond)

	// b@20 a@30 b@40 a@60 b@60 (a registered first wins the tie)
	want := []string{"b", "a", "b", "a", "b"}
	if len(log) != len(want) {
		t.Fatalf("Expected %d callbacks, got %d (%v)", len(want), len(log), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("Callback %d: expected %s, got %s", i, want[i], log[i])
		}
	}

	if !clock.Now().Equal(testEpoch.Add(60 * time.Millisecond)) {
		t.Errorf("Expected clock at +60ms, got %v", clock.Now().Sub(testEpoch))
	}
}

// TestManualSchedulerClockDuringCallback verifies the clock reads the deadline inside a callback
func TestManualSchedulerClockDuringCallback(t *testing.T) {
	clock := NewMockTimeProvider(testEpoch)
	sched := NewManualScheduler(clock)

	var seen []time.Duration
	sched.Every(25*time.Millisecond, func() {
		seen = append(seen, clock.Now().Sub(testEpoch))
	})

	sched.Advance(80 * time.Millisecond)

	want := []time.Duration{25 * time.Millisecond, 50 * time.Millisecond, 75 * time.Millisecond}
	if len(seen) != len(want) {
		t.Fatalf("Expected %d ticks, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Tick %d: expected clock at %v, got %v", i, want[i], seen[i])
		}
	}
}

// TestManualSchedulerStopFromCallback verifies a ticker can stop itself mid-advance
func TestManualSchedulerStopFromCallback(t *testing.T) {
	sched := NewManualScheduler(NewMockTimeProvider(testEpoch))

	calls := 0
	var tk Ticker
	tk = sched.Every(10*time.Millisecond, func() {
		calls++
		if calls == 2 {
			tk.Stop()
		}
	})

	sched.Advance(100 * time.Millisecond)

	if calls != 2 {
		t.Errorf("Expected 2 calls before self-stop, got %d", calls)
	}
	if sched.Active() != 0 {
		t.Errorf("Expected no active tickers, got %d", sched.Active())
	}

	// Stop is idempotent
	tk.Stop()
}

func TestManualSchedulerRegisterFromCallback(t *testing.T) {
	sched := NewManualScheduler(NewMockTimeProvider(testEpoch))

	inner := 0
	var outer Ticker
	outer = sched.Every(10*time.Millisecond, func() {
		outer.Stop()
		sched.Every(10*time.Millisecond, func() { inner++ })
	})

	// Outer fires at 10, inner registered at 10 fires at 20 and 30
	sched.Advance(30 * time.Millisecond)

	if inner != 2 {
		t.Errorf("Expected inner ticker to fire twice, got %d", inner)
	}
}

// TestRealSchedulerTicks verifies the wall-clock ticker fires and stops
func TestRealSchedulerTicks(t *testing.T) {
	sched := NewRealScheduler()

	var count atomic.Int32
	tk := sched.Every(5*time.Millisecond, func() { count.Add(1) })

	time.Sleep(60 * time.Millisecond)
	tk.Stop()
	stoppedAt := count.Load()

	if stoppedAt < 3 {
		t.Errorf("Expected at least 3 ticks in 60ms at 5ms period, got %d", stoppedAt)
	}

	time.Sleep(30 * time.Millisecond)
	// One in-flight tick may land after Stop
	if after := count.Load(); after > stoppedAt+1 {
		t.Errorf("Expected ticks to stop, went from %d to %d", stoppedAt, after)
	}
}

func TestFrameLoopClampsDelta(t *testing.T) {
	var got []time.Duration
	loop := NewFrameLoop(time.Millisecond, 100*time.Millisecond, NewMockTimeProvider(testEpoch), func(dt time.Duration) {
		got = append(got, dt)
	})

	loop.Step(16 * time.Millisecond)
	loop.Step(5 * time.Second)
	loop.Step(-time.Millisecond)

	want := []time.Duration{16 * time.Millisecond, 100 * time.Millisecond, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Frame %d: expected dt %v, got %v", i, want[i], got[i])
		}
	}
	if loop.Frames() != 3 {
		t.Errorf("Expected 3 frames, got %d", loop.Frames())
	}
}
