package domain

import "fmt"

// ValidationError marks input the aggregate refuses. Handlers map it to
// a 400 response, everything else falls through to 409 or 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	ErrEmptyTitle         = &ValidationError{msg: "title must not be empty"}
	ErrTitleTooLong       = &ValidationError{msg: "title must be at most 200 characters"}
	ErrDescriptionTooLong = &ValidationError{msg: "description must be at most 2000 characters"}
	ErrReasonRequired     = &ValidationError{msg: "a reason is required for this transition"}
	ErrReasonTooLong      = &ValidationError{msg: "reason must be at most 500 characters"}
	ErrInvalidTimestamp   = &ValidationError{msg: "timestamp precedes the verb's last update"}
)

// InvalidTransitionError reports a forbidden state-machine edge.
type InvalidTransitionError struct {
	From VerbState
	To   VerbState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Invalid state transition: %s -> %s", e.From, e.To)
}

// UnsupportedStateError reports a state name that is not part of the
// lifecycle.
type UnsupportedStateError struct {
	Value string
}

func (e *UnsupportedStateError) Error() string {
	return fmt.Sprintf("unsupported state %q", e.Value)
}

// UnsupportedActionTypeError reports an unknown action type name.
type UnsupportedActionTypeError struct {
	Value string
}

func (e *UnsupportedActionTypeError) Error() string {
	return fmt.Sprintf("unsupported action type %q", e.Value)
}
