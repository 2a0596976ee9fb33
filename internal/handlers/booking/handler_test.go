package booking_test

import (
	"encoding/json"
	otelMocks "fieldbook/infras/otel/mocks"
	"fieldbook/internal/domains/booking/conflict"
	"fieldbook/internal/domains/booking/model"
	"fieldbook/internal/domains/booking/model/dto"
	"fieldbook/internal/domains/booking/service"
	"fieldbook/internal/domains/booking/service/mocks"
	"fieldbook/internal/handlers/booking"
	gDto "fieldbook/shared/dto"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func setup(t *testing.T) (*mocks.MockBooking, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)

	handler := booking.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func serve(t *testing.T, router http.Handler, method, target, body string) (int, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	var res envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res), recorder.Body.String())

	return recorder.Code, res
}

func TestHandler_CreateBooking(t *testing.T) {
	field := "field-a"
	valid := `{"resource_id":"field-a","booking_date":"2026-01-05","start_time":"18:00","end_time":"20:00","classification":"practice","recurrence":{"weekdays":[1,3],"end_date":"2026-01-16"}}`

	tests := []struct {
		name      string
		body      string
		mock      func(svc *mocks.MockBooking)
		wantCode  int
		wantError string
	}{
		{
			name: "created",
			body: valid,
			mock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, req dto.CreateBookingRequest) (dto.BookingsResponse, error) {
					assert.Equal(t, []int{1, 3}, req.Recurrence.Weekdays)

					return dto.BookingsResponse{Bookings: []dto.BookingResponse{{ID: "b1", ResourceID: &field}}}, nil
				})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "unknown field",
			body:      `{"bogus":1}`,
			wantCode:  http.StatusBadRequest,
			wantError: "failed to decode request body",
		},
		{
			name:      "missing classification",
			body:      `{"booking_date":"2026-01-05","start_time":"18:00","end_time":"20:00"}`,
			wantCode:  http.StatusBadRequest,
			wantError: "classification is required",
		},
		{
			name:      "weekday out of range",
			body:      `{"booking_date":"2026-01-05","start_time":"18:00","end_time":"20:00","classification":"game","recurrence":{"weekdays":[0]}}`,
			wantCode:  http.StatusBadRequest,
			wantError: "weekday number",
		},
		{
			name:      "bad clock",
			body:      `{"booking_date":"2026-01-05","start_time":"6pm","end_time":"20:00","classification":"game"}`,
			wantCode:  http.StatusBadRequest,
			wantError: "start_time must be a time of day",
		},
		{
			name: "confirmed without resource",
			body: valid,
			mock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingsResponse{}, service.ErrConfirmWithoutResource)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setup(t)
			if tt.mock != nil {
				tt.mock(svc)
			}

			code, res := serve(t, router, http.MethodPost, "/bookings/", tt.body)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, res.Error, tt.wantError)
		})
	}
}

func TestHandler_CreateBooking_Conflict(t *testing.T) {
	svc, router := setup(t)

	day := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	conflictErr := &conflict.Error{Conflicts: []conflict.Conflict{{
		BookingID: "existing-1",
		Existing:  conflict.Window{ResourceID: "field-a", Date: day},
		Candidate: conflict.Window{ResourceID: "field-a", Date: day},
	}}}

	svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingsResponse{}, conflictErr)

	code, res := serve(t, router, http.MethodPost, "/bookings/",
		`{"resource_id":"field-a","booking_date":"2026-01-05","start_time":"18:00","end_time":"20:00","classification":"practice","recurrence":{"weekdays":[3]}}`)

	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, res.Error, "existing-1")

	var details []map[string]any
	require.NoError(t, json.Unmarshal(res.Details, &details))
	require.Len(t, details, 1)
	assert.Equal(t, "existing-1", details[0]["booking_id"])
}

func TestHandler_GetBookings(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		mock     func(svc *mocks.MockBooking)
		wantCode int
	}{
		{
			name:  "filters passed through",
			query: "?resource_id=field-a&status=confirmed&from=2026-01-01&to=2026-01-31&page=2&limit=5",
			mock: func(svc *mocks.MockBooking) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
						assert.Equal(t, 2, params.Page)
						assert.Equal(t, 5, params.Limit)
						assert.Equal(t, model.DefaultSort, params.SortBy)
						assert.NotEmpty(t, filter.Filters)

						return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}}, nil
					})
			},
			wantCode: http.StatusOK,
		},
		{
			name:  "unknown sort column falls back to chronological order",
			query: "?sort_by=notes%3BDROP%20TABLE%20bookings&sort_dir=desc",
			mock: func(svc *mocks.MockBooking) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, params gDto.QueryParams, _ gDto.FilterGroup) (dto.GetBookingsResponse, error) {
						assert.Equal(t, model.DefaultSort, params.SortBy)
						assert.Equal(t, gDto.SortDirAsc, params.SortDir)

						return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}}, nil
					})
			},
			wantCode: http.StatusOK,
		},
		{
			name:  "allowed sort column kept",
			query: "?sort_by=status&sort_dir=desc",
			mock: func(svc *mocks.MockBooking) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, params gDto.QueryParams, _ gDto.FilterGroup) (dto.GetBookingsResponse, error) {
						assert.Equal(t, model.FieldStatus, params.SortBy)
						assert.Equal(t, gDto.SortDirDesc, params.SortDir)

						return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}}, nil
					})
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "bad status",
			query:    "?status=pending",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad date",
			query:    "?from=01-01-2026",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setup(t)
			if tt.mock != nil {
				tt.mock(svc)
			}

			code, _ := serve(t, router, http.MethodGet, "/bookings/"+tt.query, "")

			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestHandler_ByID(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().Get(gomock.Any(), "b1").Return(dto.BookingResponse{ID: "b1"}, nil)
	svc.EXPECT().Get(gomock.Any(), "missing").Return(dto.BookingResponse{}, service.ErrBookingNotFound)
	svc.EXPECT().Delete(gomock.Any(), "b1").Return(nil)
	svc.EXPECT().Update(gomock.Any(), gomock.Any(), "b1").DoAndReturn(
		func(_ any, req dto.UpdateBookingRequest, _ string) (dto.BookingResponse, error) {
			require.NotNil(t, req.Status)
			assert.Equal(t, "cancelled", *req.Status)

			return dto.BookingResponse{ID: "b1", Status: "cancelled"}, nil
		})
	svc.EXPECT().ConvertToRecurring(gomock.Any(), gomock.Any(), "b1").Return(dto.BookingsResponse{Rule: "weekly"}, nil)

	code, res := serve(t, router, http.MethodGet, "/bookings/b1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"id":"b1"`)

	code, _ = serve(t, router, http.MethodGet, "/bookings/missing", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, res = serve(t, router, http.MethodPatch, "/bookings/b1", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"status":"cancelled"`)

	code, _ = serve(t, router, http.MethodPatch, "/bookings/b1", `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = serve(t, router, http.MethodPost, "/bookings/b1/recurrence", `{"recurrence":{"weekdays":[2,4]}}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Contains(t, string(res.Data), `"rule":"weekly"`)

	code, res = serve(t, router, http.MethodDelete, "/bookings/b1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Booking deleted successfully", res.Message)
}

func TestHandler_CheckAvailability(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().CheckAvailability(gomock.Any(), gomock.Any()).Return(dto.AvailabilityResponse{Available: true, Checked: 2, Conflicts: []conflict.Conflict{}}, nil)

	code, res := serve(t, router, http.MethodPost, "/bookings/availability",
		`{"resource_id":"field-a","booking_date":"2026-01-05","start_time":"18:00","end_time":"20:00","recurrence":{"weekdays":[1]}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"available":true`)

	code, res = serve(t, router, http.MethodPost, "/bookings/availability", `{"booking_date":"2026-01-05","start_time":"18:00","end_time":"20:00"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Error, "resource_id is required")
}
