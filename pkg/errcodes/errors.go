package errcodes

import (
	"github.com/pkg/errors"
)

const (
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeStorageFatal    = "storage_fatal"
)

type Error struct {
	Message string
	Code    string

	cause error
}

func (err *Error) Error() string {
	if err.cause != nil {
		return err.Message + ": " + err.cause.Error()
	}
	return err.Message
}

func (err *Error) Unwrap() error {
	return err.cause
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.Message = err.Message
	te.Code = err.Code
	te.cause = err.cause
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns an error with a message indicating the given resource
// couldn't be found. Callers treat it as a soft failure.
func NotFound(resource string) error {
	return &Error{
		Message: resource + " not found.",
		Code:    CodeNotFound,
	}
}

// ValidationError returns an error for input that was rejected before any
// write happened.
func ValidationError(msg string) error {
	return &Error{
		Message: msg,
		Code:    CodeValidationError,
	}
}

// StorageFatal wraps a failure to open or initialize the catalog store. The
// process can't continue after one of these.
func StorageFatal(err error) error {
	return &Error{
		Message: "Catalog storage is unavailable.",
		Code:    CodeStorageFatal,
		cause:   err,
	}
}

// HasCode reports whether err, or anything it wraps, is an *Error with the
// given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
