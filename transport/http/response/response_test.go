package response_test

import (
	"encoding/json"
	"errors"
	"fieldbook/internal/domains/booking/conflict"
	"fieldbook/shared/failure"
	gModel "fieldbook/shared/model"
	"fieldbook/transport/http/response"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithError(t *testing.T) {
	window := conflict.Window{
		ResourceID: "field-a",
		Date:       time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		Start:      gModel.MustClock(18, 0),
		End:        gModel.MustClock(20, 0),
	}

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "failure",
			err:         failure.NotFound("booking not found"),
			wantCode:    http.StatusNotFound,
			wantMessage: "booking not found",
		},
		{
			name:        "wrapped conflict carries details",
			err:         fmt.Errorf("create: %w", &conflict.Error{Conflicts: []conflict.Conflict{{BookingID: "held", Existing: window, Candidate: window}}}),
			wantCode:    http.StatusConflict,
			wantMessage: "create: booking overlaps existing booking(s): held",
			wantDetails: true,
		},
		{
			name:        "plain error is masked",
			err:         errors.New("pq: connection refused"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "INTERNAL SERVER ERROR",
		},
		{
			name:        "unprocessable keeps its message",
			err:         failure.Unprocessable("confirmed booking needs a resource"),
			wantCode:    http.StatusUnprocessableEntity,
			wantMessage: "confirmed booking needs a resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			var body struct {
				Error   string           `json:"error"`
				Details []map[string]any `json:"details"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

			assert.Equal(t, tt.wantMessage, body.Error)

			if !tt.wantDetails {
				assert.Empty(t, body.Details)

				return
			}

			require.Len(t, body.Details, 1)
			assert.Equal(t, "held", body.Details[0]["booking_id"])
			assert.Equal(t, map[string]any{
				"resource_id": "field-a",
				"date":        "2026-01-12",
				"start_time":  "18:00",
				"end_time":    "20:00",
			}, body.Details[0]["candidate"])
		})
	}
}

func TestWithJSONAndMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithJSON(recorder, http.StatusCreated, map[string]int{"count": 4})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"count":4}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder, 30)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "30", recorder.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	response.WithPreparingShutdown(recorder)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, recorder.Body.String())
}
