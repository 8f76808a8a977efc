package scoringapi

import "fmt"

// The three error classes a call against the scoring backend can produce.
// Handlers translate them to user-visible messages; none of them is ever
// rethrown past the HTTP boundary.

// ValidationError is a user-fixable input problem (4xx). The detail text is
// the backend's diagnostic body and safe to show inline.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request rejected: %s", e.Detail)
}

// NotFoundError means the addressed run does not resolve. Terminal for the
// view that asked; the UI offers a "start new request" affordance instead of
// a retry.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.RunID)
}

// ServiceError is a backend or network failure (5xx, transport). The
// operation committed no partial state and is safely retryable by the user.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("scoring service unreachable: %s", e.Detail)
	}
	return fmt.Sprintf("scoring service failed (status %d): %s", e.Status, e.Detail)
}
