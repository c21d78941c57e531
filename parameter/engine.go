package parameter

import "time"

// Host Loop Timing
const (
	// FrameUpdateInterval is the host render loop interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta clamps the delta handed to the rig after a stall (debugger, suspended terminal)
	MaxFrameDelta = 250 * time.Millisecond

	// StatusPublishInterval is the cadence for copying rig state into the status registry
	StatusPublishInterval = 100 * time.Millisecond
)

// Command Queue Limits
const (
	// CommandQueueSize is the fixed capacity of the per-instance command ring buffer
	CommandQueueSize = 256

	// CommandBufferMask is the bitmask for fast modulo operations (256 - 1)
	CommandBufferMask = 255
)
