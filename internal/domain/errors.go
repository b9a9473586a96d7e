package domain

import "fmt"

// Error types for consistent error handling across the client.
// Services never swallow these; they propagate to the UI layer, which
// decides what the user sees.

// ErrValidation indicates bad input caught before any network call.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotFound indicates the remote API answered 404 for a single entity.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates a 401: the session is gone. The HTTP adapter has
// already cleared the stored token by the time callers see this.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrServer indicates a non-2xx the taxonomy has no better name for:
// 5xx or an unexpected payload shape.
type ErrServer struct {
	Status int
	Detail string
}

func (e *ErrServer) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
}

// ErrNetwork indicates the request could not complete at all.
type ErrNetwork struct {
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *ErrNetwork) Unwrap() error { return e.Err }

// ErrCircuitOpen indicates the breaker is refusing calls to the remote API.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}
