package ledger

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so that boundary layers can translate
// them into transport-specific responses. The core never formats responses
// itself.
type ErrorKind int

const (
	// InvalidArgument marks malformed or out-of-range input, including
	// insufficient funds or shares.
	InvalidArgument ErrorKind = iota
	// NotFound marks an unknown account, stock, position or reference.
	NotFound
	// Unauthorized marks a caller that does not own the touched resource.
	Unauthorized
	// InvalidState marks an operation rejected by the current state of the
	// resource, like a frozen account or a missing portfolio.
	InvalidState
)

func (ek ErrorKind) String() string {
	switch ek {
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case NotFound:
		return "NOT_FOUND"
	case Unauthorized:
		return "UNAUTHORIZED"
	case InvalidState:
		return "INVALID_STATE"
	default:
		panic("unknown error kind")
	}
}

type Error struct {
	Kind    ErrorKind
	message string
}

func (e *Error) Error() string {
	return e.message
}

func errInvalidArgument(format string, args ...interface{}) error {
	return &Error{InvalidArgument, fmt.Sprintf(format, args...)}
}

// NewNotFoundError is exported for store adapters which report missing
// aggregates themselves.
func NewNotFoundError(format string, args ...interface{}) error {
	return &Error{NotFound, fmt.Sprintf(format, args...)}
}

func errNotFound(format string, args ...interface{}) error {
	return NewNotFoundError(format, args...)
}

func errUnauthorized(format string, args ...interface{}) error {
	return &Error{Unauthorized, fmt.Sprintf(format, args...)}
}

func errInvalidState(format string, args ...interface{}) error {
	return &Error{InvalidState, fmt.Sprintf(format, args...)}
}

func isKind(err error, kind ErrorKind) bool {
	var domainError *Error
	return errors.As(err, &domainError) && domainError.Kind == kind
}

func IsInvalidArgument(err error) bool {
	return isKind(err, InvalidArgument)
}

func IsNotFound(err error) bool {
	return isKind(err, NotFound)
}

func IsUnauthorized(err error) bool {
	return isKind(err, Unauthorized)
}

func IsInvalidState(err error) bool {
	return isKind(err, InvalidState)
}
