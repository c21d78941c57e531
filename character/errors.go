package character

import "errors"

var (
	// ErrUnknownInstance is returned for an instance id not in the roster
	ErrUnknownInstance = errors.New("unknown instance")

	// ErrQueueFull is returned when the command queue cannot take more commands
	ErrQueueFull = errors.New("command queue full")

	// ErrDisposed is returned for commands sent to a disposed character
	ErrDisposed = errors.New("character disposed")

	// ErrUnknownOp is returned for a command with an unrecognized op
	ErrUnknownOp = errors.New("unknown command op")

	// ErrDuplicateInstance is returned when adding an id already in the roster
	ErrDuplicateInstance = errors.New("duplicate instance")
)
