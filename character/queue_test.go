package character

import (
	"sync"
	"testing"

	"github.com/lixenwraith/moodrig/parameter"
)

func TestCommandQueueFIFO(t *testing.T) {
	q := newCommandQueue()
	for i := 0; i < 5; i++ {
		q.Push(SetMood(float64(i), 0))
	}
	if q.Len() != 5 {
		t.Errorf("Expected 5 pending, got %d", q.Len())
	}

	cmds := q.Drain()
	for i, cmd := range cmds {
		if cmd.X != float64(i) {
			t.Errorf("Position %d: expected x=%d, got %f", i, i, cmd.X)
		}
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Error("Expected empty queue after drain")
	}
}

func TestCommandQueueRejectsWhenFull(t *testing.T) {
	q := newCommandQueue()
	for i := 0; i < parameter.CommandQueueSize; i++ {
		if !q.Push(Pause()) {
			t.Fatalf("Push %d rejected before capacity", i)
		}
	}
	if q.Push(Resume()) {
		t.Error("Expected push beyond capacity rejected")
	}

	// Wraps cleanly after a drain
	if n := len(q.Drain()); n != parameter.CommandQueueSize {
		t.Fatalf("Expected %d drained, got %d", parameter.CommandQueueSize, n)
	}
	for i := 0; i < 10; i++ {
		q.Push(PlayEmote("emote_wave"))
	}
	cmds := q.Drain()
	if len(cmds) != 10 || cmds[9].Op != OpPlayEmote {
		t.Errorf("Expected 10 emote commands after wrap, got %d", len(cmds))
	}
}

func TestCommandQueueConcurrentProducers(t *testing.T) {
	q := newCommandQueue()
	const producers, each = 4, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(Command{Op: OpSetMood, X: float64(p), Y: float64(i)})
			}
		}(p)
	}
	wg.Wait()

	cmds := q.Drain()
	if len(cmds) != producers*each {
		t.Fatalf("Expected %d commands, got %d", producers*each, len(cmds))
	}

	// Per-producer order survives interleaving
	last := make(map[float64]float64)
	for _, cmd := range cmds {
		if prev, ok := last[cmd.X]; ok && cmd.Y <= prev {
			t.Fatalf("Producer %v out of order: %v after %v", cmd.X, cmd.Y, prev)
		}
		last[cmd.X] = cmd.Y
	}
}

func TestParseOp(t *testing.T) {
	for op := OpSetMood; op <= OpBodyPartChanged; op++ {
		got, ok := ParseOp(op.String())
		if !ok || got != op {
			t.Errorf("Expected %s to round trip, got %v %v", op, got, ok)
		}
	}
	if _, ok := ParseOp("dance"); ok {
		t.Error("Expected unknown op rejected")
	}
}
