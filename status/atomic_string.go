package status

import "sync/atomic"

// MaxStringLen caps stored strings; clip names fit comfortably
const MaxStringLen = 64

// AtomicString is a string readable and writable without locks
// Zero value is the empty string
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncated to MaxStringLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

// Load returns the current value
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
