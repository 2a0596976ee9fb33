package failure

import (
	"errors"
	"net/http"
)

// Failure is an error the transport layer answers with Code and Message as they are.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusCoder is implemented by domain errors that carry their own status and payload,
// such as a booking conflict report.
type StatusCoder interface {
	error
	StatusCode() int
}

var ForbiddenError = New(http.StatusForbidden, "You don't have the required permissions")

func (e *Failure) Error() string {
	return e.Message
}

// New returns a Failure with the given status code.
func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func wrap(code int, err error) error {
	if err == nil {
		return nil
	}

	return New(code, err.Error())
}

// BadRequest turns a validation error into a 400. A nil err stays nil.
func BadRequest(err error) error {
	return wrap(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound reports a missing entity; message is shown to the client as is.
func NotFound(message string) error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) error {
	return New(http.StatusConflict, message)
}

// Unprocessable is for well-formed requests that would break a state rule,
// e.g. confirming a booking that holds no resource.
func Unprocessable(message string) error {
	return New(http.StatusUnprocessableEntity, message)
}

// InternalError marks err as a server side failure. A nil err stays nil.
func InternalError(err error) error {
	return wrap(http.StatusInternalServerError, err)
}

// GetCode returns the status carried by err, or 500 for anything unclassified.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}

	return http.StatusInternalServerError
}
