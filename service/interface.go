// Package service runs the long-lived subsystems of a host in dependency order
package service

// Service is the lifecycle of a host subsystem: rig loop, control server, audio
//
// Lifecycle:
//  1. Construction
//  2. Init() - resolve configuration and allocate
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init and Start before this one
	Dependencies() []string

	// Init prepares the service; no goroutines yet
	Init() error

	// Start begins service operation, called after every service initialized
	Start() error

	// Stop halts the service; must be idempotent
	Stop() error
}
