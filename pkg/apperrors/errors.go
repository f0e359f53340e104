package apperrors

import "errors"

var (
	// ErrNotFound covers both a missing entity and an entity owned by a
	// different user. The two are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	ErrUnauthenticated = errors.New("authentication required")
	ErrUnknownAgent    = errors.New("unknown agent")
	ErrValidation      = errors.New("validation failed")

	// ErrAgentRunning is returned when an agent run is rejected because
	// another run is already in flight for the same project.
	ErrAgentRunning = errors.New("agent already running for project")

	ErrConflict = errors.New("conflict")
)
