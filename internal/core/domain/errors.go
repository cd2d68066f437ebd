// Package domain holds the value types and typed errors shared by every
// engine and the command router. None of it talks to hardware directly.
package domain

import "fmt"

// Kind enumerates the abstract error categories of the command plane.
type Kind int

const (
	KindNotReady Kind = iota
	KindBusy
	KindInvalidArgument
	KindInvalidState
	KindTimeout
	KindNotFound
	KindCapacityExceeded
	KindHardwareError
)

func (k Kind) String() string {
	switch k {
	case KindNotReady:
		return "not_ready"
	case KindBusy:
		return "busy"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidState:
		return "invalid_state"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindHardwareError:
		return "hardware_error"
	default:
		return "unknown"
	}
}

// Error wraps an error with one of the abstract Kinds so the command
// router can map it to a verb-specific reply string without a type
// switch per call site.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError constructs an *Error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError constructs an *Error of the given kind wrapping a lower-level error.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	de, ok := err.(*Error)
	return ok && de.Kind == kind
}
