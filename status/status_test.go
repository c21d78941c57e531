package status

import (
	"sync"
	"testing"
)

func TestMetricMapCachesPointer(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("rig.weight")
	b := m.Get("rig.weight")
	if a != b {
		t.Error("Expected the same pointer for repeated Get")
	}
	a.Set(0.75)
	if b.Get() != 0.75 {
		t.Errorf("Expected 0.75, got %f", b.Get())
	}
}

func TestAtomicFloatConcurrentAdd(t *testing.T) {
	var f AtomicFloat
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				f.Add(0.5)
			}
		}()
	}
	wg.Wait()
	if f.Get() != 4000 {
		t.Errorf("Expected 4000, got %f", f.Get())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Errorf("Expected empty zero value, got %q", s.Load())
	}
	long := make([]byte, MaxStringLen+10)
	for i := range long {
		long[i] = 'a'
	}
	s.Store(string(long))
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected length %d, got %d", MaxStringLen, len(s.Load()))
	}
}

func TestRegistrySnapshotAndForget(t *testing.T) {
	r := NewRegistry()
	r.Bools.Get(Key("a", "paused")).Store(true)
	r.Ints.Get(Key("a", "frames")).Store(42)
	r.Floats.Get(Key("b", "x")).Set(-1)
	r.Strings.Get(Key("a", "state")).Store("playing")
	r.Ints.Get(Key("", "instances")).Store(2)

	snap := r.Snapshot()
	if snap["a.paused"] != true || snap["a.frames"] != int64(42) || snap["b.x"] != -1.0 || snap["a.state"] != "playing" {
		t.Errorf("Unexpected snapshot %v", snap)
	}
	if snap["instances"] != int64(2) {
		t.Errorf("Expected unscoped key, got %v", snap)
	}

	r.Forget("a")
	if r.TotalCount() != 2 {
		t.Errorf("Expected 2 metrics left after forgetting a, got %d", r.TotalCount())
	}
	if !r.Floats.Has("b.x") {
		t.Error("Expected other instance kept")
	}

	r.Forget("")
	if r.TotalCount() != 2 {
		t.Error("Expected empty instance id to forget nothing")
	}
}
