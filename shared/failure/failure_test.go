package failure_test

import (
	"errors"
	"fieldbook/shared/failure"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teapot struct{}

func (teapot) Error() string   { return "short and stout" }
func (teapot) StatusCode() int { return http.StatusTeapot }

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("weekdays required")), code: http.StatusBadRequest, message: "weekdays required"},
		{name: "bad request from string", err: failure.BadRequestFromString("end before start"), code: http.StatusBadRequest, message: "end before start"},
		{name: "unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "internal", err: failure.InternalError(errors.New("db down")), code: http.StatusInternalServerError, message: "db down"},
		{name: "not found", err: failure.NotFound("booking"), code: http.StatusNotFound, message: "booking"},
		{name: "conflict", err: failure.Conflict("slot taken"), code: http.StatusConflict, message: "slot taken"},
		{name: "unprocessable", err: failure.Unprocessable("no resource"), code: http.StatusUnprocessableEntity, message: "no resource"},
		{name: "forbidden", err: failure.Forbidden("denied"), code: http.StatusForbidden, message: "denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			require.ErrorAs(t, tt.err, &f)
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Error())
		})
	}
}

func TestNilPassThrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{name: "failure", input: failure.New(http.StatusTooManyRequests, "slow down"), expected: http.StatusTooManyRequests},
		{name: "forbidden sentinel", input: failure.ForbiddenError, expected: http.StatusForbidden},
		{name: "wrapped failure", input: fmt.Errorf("create: %w", failure.NotFound("booking")), expected: http.StatusNotFound},
		{name: "status coder", input: teapot{}, expected: http.StatusTeapot},
		{name: "wrapped status coder", input: fmt.Errorf("convert: %w", teapot{}), expected: http.StatusTeapot},
		{name: "plain error", input: errors.New("boom"), expected: http.StatusInternalServerError},
		{name: "nil", input: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.GetCode(tt.input))
		})
	}
}
