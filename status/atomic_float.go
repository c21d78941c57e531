package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat stores a float64 as its bit pattern
// Zero value is 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores val
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Get loads the value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add adds delta with a CAS loop and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
