// Package apperr defines the closed set of failure kinds that the forum core
// reports. Front-ends render these kinds; anything that is not an *Error is an
// internal failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for rendering
type Kind int

const (
	// KindInternal is any failure outside the taxonomy (store down, bug)
	KindInternal Kind = iota
	// KindValidation means one or more field rules failed
	KindValidation
	// KindNotFound means the id was malformed or no record exists
	KindNotFound
	// KindUnauthenticated means a mutating action has no caller identity
	KindUnauthenticated
	// KindForbidden means the caller does not own the target record
	KindForbidden
	// KindConflict means a uniqueness constraint was violated
	KindConflict
	// KindInvalidUpload means the attachment type is not accepted
	KindInvalidUpload
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidUpload:
		return "invalid_upload"
	default:
		return "internal"
	}
}

// Fixed user-facing messages
const (
	MsgDataNotFound    = "Data not found"
	MsgUnauthenticated = "You do not have access to this action"
	MsgForbidden       = "You are forbidden from doing this action"
	MsgInvalidUpload   = "File must be an image or audio file"
	MsgUserTaken       = "This username/email has been taken"
	MsgForumNameTaken  = "Forum name already exists"
	MsgInternal        = "Internal server error"
)

// FieldViolation is a single failed field rule
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure
type Error struct {
	Kind Kind
	// Entity names the record kind for NotFound ("User", "Post", ...)
	Entity string
	// Message is the user-facing text for Conflict and Validation
	Message string
	// Violations holds every failed rule, in schema order
	Violations []FieldViolation
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		if e.Entity != "" {
			return e.Entity + " not found"
		}
		return MsgDataNotFound
	case KindUnauthenticated:
		return MsgUnauthenticated
	case KindForbidden:
		return MsgForbidden
	case KindInvalidUpload:
		return MsgInvalidUpload
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err,
// apperr.ErrForbidden) works regardless of details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Entity == "" || t.Entity == e.Entity)
}

// Sentinels for errors.Is checks
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrInvalidUpload   = &Error{Kind: KindInvalidUpload}
)

// Validation builds a validation failure. The first violation is the one
// shown to callers.
func Validation(violations ...FieldViolation) *Error {
	e := &Error{Kind: KindValidation, Violations: violations}
	if len(violations) > 0 {
		e.Message = violations[0].Message
	}
	return e
}

// NotFound reports a missing or malformed id for the given entity kind
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity}
}

// Unauthenticated reports a missing caller identity
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated}
}

// Forbidden reports an ownership mismatch
func Forbidden() *Error {
	return &Error{Kind: KindForbidden}
}

// Conflict reports a uniqueness violation
func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// InvalidUpload reports a rejected attachment
func InvalidUpload(contentType string) *Error {
	return &Error{Kind: KindInvalidUpload, Err: fmt.Errorf("content type %q", contentType)}
}

// KindOf returns the kind of err, KindInternal when it is not classified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As extracts the classified error, if any
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
