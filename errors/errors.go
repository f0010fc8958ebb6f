package errors

import (
	"errors"
	"net/http"
)

var (
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Forbidden           = HttpError{http.StatusForbidden, errors.New("forbidden")}
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	Duplicate           = HttpError{http.StatusBadRequest, errors.New("duplicate")}
	TooManyRequests     = HttpError{http.StatusTooManyRequests, errors.New("too many requests")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// Error carries a client facing message on top of one of the base http errors.
// errors.Is(err, NotFound) keeps matching the base.
type Error struct {
	base    HttpError
	message string
}

func New(base HttpError, message string) error {
	return &Error{base: base, message: message}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.base
}

func (e *Error) Code() int {
	return e.base.Code
}
