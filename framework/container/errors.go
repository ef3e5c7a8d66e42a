package container

import "fmt"

// Reason classifies an *Error. Reasons are themselves errors, so callers can
// match them with errors.Is:
//
//	if errors.Is(err, container.ErrCircularDependency) { ... }
type Reason string

func (r Reason) Error() string { return string(r) }

const (
	ErrInvalidType            Reason = "invalid type"
	ErrDuplicateMapping       Reason = "duplicate mapping"
	ErrCircularDependency     Reason = "circular dependency"
	ErrCreationFailure        Reason = "creation failure"
	ErrFactoryFailure         Reason = "factory failure"
	ErrInvalidInstanceMapping Reason = "invalid instance mapping"
	ErrInvalidSubTypeMapping  Reason = "invalid subtype mapping"
	ErrInvalidFactoryMapping  Reason = "invalid factory mapping"
	ErrUnresolvableDependency Reason = "unresolvable dependency"
	ErrContainerProtected     Reason = "container protected"
	ErrInvalidLoader          Reason = "invalid loader"
)

// Error is the only error kind returned by the container.
type Error struct {
	// Reason is the machine readable failure class.
	Reason Reason
	// Type is the display name of the Type involved, if any.
	Type string
	// Msg is the human readable message.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "container: " + e.Msg + ": " + e.Err.Error()
	}
	return "container: " + e.Msg
}

// Unwrap exposes both the reason and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Reason, e.Err}
	}
	return []error{e.Reason}
}

func newError(reason Reason, typ string, format string, args ...any) *Error {
	return &Error{Reason: reason, Type: typ, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(reason Reason, typ string, cause error, format string, args ...any) *Error {
	e := newError(reason, typ, format, args...)
	e.Err = cause
	return e
}
