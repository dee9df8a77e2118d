package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so handlers can pick a response status without
// inspecting message text.
type Kind int

const (
	// BadRequest is returned for malformed or missing input, e.g. an empty
	// caption or an empty share-target list.
	BadRequest Kind = iota + 1
	// NotFound is returned when a referenced post, user or request does not
	// exist, or the post is flagged deleted.
	NotFound
	// Forbidden is returned when the authenticated caller lacks rights over
	// the target resource.
	Forbidden
	// Conflict is returned for duplicate relationships.
	Conflict
	// Unavailable wraps transient store failures; callers may retry since
	// every operation here is read-only or no-op-on-repeat.
	Unavailable
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func BadRequestf(format string, a ...any) error {
	return New(BadRequest, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error {
	return New(NotFound, fmt.Sprintf(format, a...))
}

func Forbiddenf(format string, a ...any) error {
	return New(Forbidden, fmt.Sprintf(format, a...))
}

func Conflictf(format string, a ...any) error {
	return New(Conflict, fmt.Sprintf(format, a...))
}

func Unavailablef(format string, a ...any) error {
	return New(Unavailable, fmt.Sprintf(format, a...))
}

// KindOf returns the kind carried by err, or zero when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Status maps an error to the HTTP status a handler should respond with.
func Status(err error) int {
	switch KindOf(err) {
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
