package orderclient

import "fmt"

// ValidationError reports malformed or incomplete local input. It is raised
// before any network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NetworkError reports a transport-level failure talking to the API.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network: %s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError reports a referenced resource the API does not know.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// SubmissionError reports a failed order-creation call after local
// validation passed. Local state is left untouched when it is returned.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("order submission failed: %v", e.Err) }
func (e *SubmissionError) Unwrap() error { return e.Err }
