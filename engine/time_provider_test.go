package engine

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMockClockSetAndAdvance(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	if !clock.Now().Equal(epoch) {
		t.Fatalf("Expected %v, got %v", epoch, clock.Now())
	}

	steps := []struct {
		name string
		do   func()
		want time.Time
	}{
		{"advance", func() { clock.Advance(3 * time.Second) }, epoch.Add(3 * time.Second)},
		{"advance again", func() { clock.Advance(250 * time.Millisecond) }, epoch.Add(3250 * time.Millisecond)},
		{"set back", func() { clock.SetTime(epoch) }, epoch},
	}
	for _, s := range steps {
		s.do()
		if got := clock.Now(); !got.Equal(s.want) {
			t.Errorf("%s: expected %v, got %v", s.name, s.want, got)
		}
	}
}

// A wall-clock gate reading the scheduler's clock sees ticker time, not frame time
func TestGateFollowsSchedulerClock(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	sched := NewManualScheduler(clock)
	lastChange := clock.Now()

	var seen []time.Duration
	sched.Every(time.Second, func() {
		seen = append(seen, clock.Now().Sub(lastChange))
	})

	sched.Advance(2500 * time.Millisecond)
	if len(seen) != 2 || seen[0] != time.Second || seen[1] != 2*time.Second {
		t.Errorf("Expected callbacks at 1s and 2s, got %v", seen)
	}
	if gate := clock.Now().Sub(lastChange); gate < 2500*time.Millisecond {
		t.Errorf("Expected the clock at the advance target, got %v", gate)
	}
}

func TestMockClockConcurrentReaders(t *testing.T) {
	clock := NewMockTimeProvider(epoch)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := clock.Now()
			for j := 0; j < 200; j++ {
				now := clock.Now()
				if now.Before(prev) {
					t.Errorf("Expected a non-decreasing clock, got %v after %v", now, prev)
					return
				}
				prev = now
			}
		}()
	}
	for j := 0; j < 100; j++ {
		clock.Advance(time.Millisecond)
	}
	wg.Wait()

	if want := epoch.Add(100 * time.Millisecond); !clock.Now().Equal(want) {
		t.Errorf("Expected %v, got %v", want, clock.Now())
	}
}

func TestMonotonicClockAdvances(t *testing.T) {
	var clock TimeProvider = NewMonotonicTimeProvider()
	start := clock.Now()
	time.Sleep(5 * time.Millisecond)
	if d := clock.Now().Sub(start); d < 5*time.Millisecond {
		t.Errorf("Expected at least 5ms elapsed, got %v", d)
	}
}
