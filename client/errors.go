package client

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection marks transport or liveness failures. Fatal, never
	// retried at this layer.
	ErrConnection = errors.New("connection failed")

	// ErrEmptyObservation marks a reset or step response carrying no
	// observations, a contract violation by the service.
	ErrEmptyObservation = errors.New("no observations in response")

	// ErrClosed marks use of a session after Close.
	ErrClosed = errors.New("session is closed")
)

// CreationError reports a create request the service rejected. The session
// stays usable; a later Reset retries the create.
type CreationError struct {
	EnvID   string
	Message string
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create environment %s: %s", e.EnvID, e.Message)
}

// UnsupportedActionError reports an action value no encoding rule could
// handle. The failed call has no effect on session state.
type UnsupportedActionError struct {
	Value any
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("cannot encode action of type %T: %v", e.Value, e.Value)
}
