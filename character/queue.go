package character

import (
	"sync/atomic"

	"github.com/lixenwraith/moodrig/parameter"
)

// commandQueue is a lock-free MPSC ring buffer of commands
// Thread-Safety:
//   - Push: lock-free CAS, multiple producers OK
//   - Drain: single consumer (host loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Push fails when full, commands are never overwritten
type commandQueue struct {
	cmds      [parameter.CommandQueueSize]Command
	published [parameter.CommandQueueSize]atomic.Bool
	head      atomic.Uint64 // read index
	tail      atomic.Uint64 // write index
}

func newCommandQueue() *commandQueue {
	return &commandQueue{}
}

// Push claims a slot and publishes cmd, false when the ring is full
func (q *commandQueue) Push(cmd Command) bool {
	for {
		tail := q.tail.Load()
		if tail-q.head.Load() >= parameter.CommandQueueSize {
			return false
		}
		if q.tail.CompareAndSwap(tail, tail+1) {
			idx := tail & parameter.CommandBufferMask
			q.cmds[idx] = cmd
			q.published[idx].Store(true) // MUST be after write
			return true
		}
	}
}

// Drain returns pending commands in FIFO order
// Stops at the first slot still being written; it is picked up next time
func (q *commandQueue) Drain() []Command {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail == head {
		return nil
	}

	out := make([]Command, 0, tail-head)
	for i := head; i < tail; i++ {
		idx := i & parameter.CommandBufferMask
		if !q.published[idx].Load() {
			break
		}
		out = append(out, q.cmds[idx])
		q.cmds[idx] = Command{}
		q.published[idx].Store(false)
	}

	q.head.Store(head + uint64(len(out)))
	return out
}

// Len returns the approximate pending count
func (q *commandQueue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	return int(tail - head)
}
