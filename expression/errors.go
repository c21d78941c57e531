package expression

import "errors"

var (
	// ErrInvalidDefinition is returned when a sprite definition has neither frames nor a valid range
	ErrInvalidDefinition = errors.New("invalid sprite animation definition")

	// ErrNotInitialized is returned by operations that need the atlas before Init succeeded
	ErrNotInitialized = errors.New("expression manager not initialized")

	// ErrMaterialNotFound is returned when no face material matches
	ErrMaterialNotFound = errors.New("face material not found")
)
