// Package service implements the booking admission engine, the
// cancellation policy and the utilization reporter on top of the
// repository layer's unit-of-work abstraction.
package service

import "fmt"

// Kind labels the closed set of failure categories the service layer
// can report. Handlers map kinds to HTTP status codes at the boundary;
// nothing else about an error leaks to callers.
type Kind string

const (
    // KindValidation marks malformed or out-of-policy input. Raised
    // before any mutation.
    KindValidation Kind = "ValidationError"
    // KindNotFound marks a referenced entity that does not exist.
    KindNotFound Kind = "NotFound"
    // KindConflict marks an overlap detected during admission; the
    // enclosing transaction has been rolled back in full.
    KindConflict Kind = "Conflict"
    // KindInProgress marks an idempotent retry whose first attempt has
    // not finished yet. Not a failure of the caller's intent — retry
    // later with the same key.
    KindInProgress Kind = "InProgress"
    // KindBusinessRule marks a policy violation such as a late
    // cancellation.
    KindBusinessRule Kind = "BusinessRule"
    // KindInternal marks an unexpected persistence or transaction
    // failure. The caller sees no partial state.
    KindInternal Kind = "Internal"
)

// Error is a tagged service error carrying a kind and a human-readable
// message. It intentionally wraps nothing caller-visible: internal
// identifiers and driver errors stay behind the boundary.
type Error struct {
    Kind    Kind
    Message string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

func newError(kind Kind, format string, args ...any) *Error {
    return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationErr(format string, args ...any) *Error {
    return newError(KindValidation, format, args...)
}

func notFoundErr(format string, args ...any) *Error {
    return newError(KindNotFound, format, args...)
}

func conflictErr(format string, args ...any) *Error {
    return newError(KindConflict, format, args...)
}

func inProgressErr(format string, args ...any) *Error {
    return newError(KindInProgress, format, args...)
}

func businessRuleErr(format string, args ...any) *Error {
    return newError(KindBusinessRule, format, args...)
}

func internalErr(format string, args ...any) *Error {
    return newError(KindInternal, format, args...)
}
