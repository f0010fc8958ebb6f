package store

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	internalErrs "github.com/wardbook/records/errors"
)

func IsDuplicateKeyError(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(mongo.ServerError); ok {
			return e.HasErrorCode(11000) || e.HasErrorCode(11001) || e.HasErrorCode(12582) ||
				e.HasErrorCodeWithMessage(16460, " E11000 ")
		}
	}
	return false
}

// ConnectionError is returned when the database is not configured or cannot be reached
type ConnectionError struct {
	Message string
	Err     error
}

func NewConnectionError(message string, err error) *ConnectionError {
	return &ConnectionError{Message: message, Err: err}
}

func (c *ConnectionError) Error() string {
	if c.Err == nil {
		return c.Message
	}
	return fmt.Sprintf("%s: %v", c.Message, c.Err)
}

func (c *ConnectionError) Unwrap() []error {
	if c.Err == nil {
		return []error{internalErrs.InternalServerError}
	}
	return []error{internalErrs.InternalServerError, c.Err}
}
