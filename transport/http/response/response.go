package response

import (
	"encoding/json"
	"errors"
	"fieldbook/shared/constant"
	"fieldbook/shared/failure"
	"fieldbook/shared/logger"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Data wraps a successful payload.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the failure envelope. Details holds structured context such as the bookings a
// write collided with.
type Error struct {
	Error   *string `json:"error,omitempty"`
	Details any     `json:"details,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

type detailer interface {
	Details() any
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its status code. Server side failures are logged and answered with a
// generic message so store errors never reach the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	message := err.Error()
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("code", code).Msg("request failed")

		message = constant.ResponseErrorInternal
	}

	payload := Error{Error: &message}

	var withDetails detailer
	if errors.As(err, &withDetails) {
		payload.Details = withDetails.Details()
	}

	write(writer, code, payload)
}

// WithRequestLimitExceeded tells the client how many seconds to back off for.
func WithRequestLimitExceeded(writer http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		writer.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(retryAfter))
	}

	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
