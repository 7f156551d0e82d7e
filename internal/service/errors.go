package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the HTTP layer can pick a status code
// without inspecting message text. This replaces the stored-procedure
// success/message output-parameter convention of the original system with a
// tagged result: callers get either data or an *Error carrying a Kind.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound — requested user/establishment/record does not exist
	// or is inactive.
	KindNotFound
	// KindValidation — duplicate email/document, malformed input,
	// missing required field.
	KindValidation
	// KindConflict — state conflicts: session already open, no open
	// session to close, capacity exceeded, establishment already open.
	KindConflict
	// KindDataAccess — any failure talking to the persistent store.
	// The underlying driver error is wrapped for logs, never for clients.
	KindDataAccess
)

// Error is the only error type services return to handlers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }

// DataAccess wraps a storage error behind a generic client-safe message.
func DataAccess(err error) *Error {
	return &Error{Kind: KindDataAccess, Message: "a storage error occurred, please retry", Err: err}
}

func dataAccessf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindDataAccess, Message: "a storage error occurred, please retry", Err: fmt.Errorf(format+": %w", append(args, err)...)}
}

// KindOf extracts the Kind from any error returned by a service.
// Non-service errors report KindUnknown and should be treated as internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
