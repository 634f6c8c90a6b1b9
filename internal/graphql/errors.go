package graphql

import (
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/hacklingo-backend/internal/apperr"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error codes carried in extensions.code
const (
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeInvalidUpload   = "INVALID_UPLOAD"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
	CodeValidation      = "GRAPHQL_VALIDATION_FAILED"
)

func codeFor(kind apperr.Kind) string {
	switch kind {
	case apperr.KindValidation:
		return CodeBadUserInput
	case apperr.KindNotFound:
		return CodeNotFound
	case apperr.KindUnauthenticated:
		return CodeUnauthenticated
	case apperr.KindForbidden:
		return CodeForbidden
	case apperr.KindConflict:
		return CodeConflict
	case apperr.KindInvalidUpload:
		return CodeInvalidUpload
	default:
		return CodeInternal
	}
}

// resolverError is what resolvers return. The executor copies Extensions
// into the response, so clients see the failure class in extensions.code.
type resolverError struct {
	message    string
	extensions map[string]interface{}
	cause      error
}

// newResolverError renders a service failure. NotFound names the entity,
// internal failures are masked.
func newResolverError(err error) *resolverError {
	kind := apperr.KindOf(err)

	message := apperr.MsgInternal
	if kind != apperr.KindInternal {
		message = err.Error()
	}

	rerr := &resolverError{
		message:    message,
		extensions: map[string]interface{}{"code": codeFor(kind)},
		cause:      err,
	}
	if e, ok := apperr.As(err); ok && len(e.Violations) > 0 && e.Violations[0].Field != "" {
		rerr.extensions["field"] = e.Violations[0].Field
	}
	return rerr
}

func (e *resolverError) Error() string {
	return e.message
}

func (e *resolverError) Extensions() map[string]interface{} {
	return e.extensions
}

func (e *resolverError) Unwrap() error {
	return e.cause
}

// fromQueryError converts an executor error into the response shape.
// Errors without a code are tagged as validation failures when nothing
// executed and as internal failures otherwise.
func fromQueryError(qerr *gqlerrors.QueryError, executed bool) *gqlerror.Error {
	gerr := &gqlerror.Error{Message: qerr.Message, Extensions: map[string]interface{}{}}
	for k, v := range qerr.Extensions {
		gerr.Extensions[k] = v
	}
	if _, ok := gerr.Extensions["code"]; !ok {
		gerr.Extensions["code"] = CodeValidation
		if executed {
			gerr.Extensions["code"] = CodeInternal
		}
	}
	for _, loc := range qerr.Locations {
		gerr.Locations = append(gerr.Locations, gqlerror.Location{Line: loc.Line, Column: loc.Column})
	}
	for _, elem := range qerr.Path {
		switch v := elem.(type) {
		case string:
			gerr.Path = append(gerr.Path, ast.PathName(v))
		case int:
			gerr.Path = append(gerr.Path, ast.PathIndex(v))
		}
	}
	return gerr
}

// requestError renders a failure that prevents execution altogether
func requestError(message string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Extensions: map[string]interface{}{"code": CodeValidation},
	}
}

// withCode tags parser and validator errors that arrive without a code
func withCode(errs gqlerror.List) gqlerror.List {
	for _, e := range errs {
		if e.Extensions == nil {
			e.Extensions = map[string]interface{}{}
		}
		if _, ok := e.Extensions["code"]; !ok {
			e.Extensions["code"] = CodeValidation
		}
	}
	return errs
}
