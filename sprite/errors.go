package sprite

import "errors"

var (
	// ErrNoFrames is returned for a definition or controller with an empty frame list
	ErrNoFrames = errors.New("sprite animation has no frames")

	// ErrInvalidFPS is returned for a non-positive frame rate
	ErrInvalidFPS = errors.New("sprite fps must be positive")
)
