package dto

import (
	"errors"
	"fieldbook/internal/domains/booking/conflict"
	"fieldbook/internal/domains/booking/model"
	"fieldbook/internal/domains/booking/recurrence"
	"fieldbook/shared"
	"fieldbook/shared/constant"
	gDto "fieldbook/shared/dto"
	gModel "fieldbook/shared/model"
	"fieldbook/shared/timezone"
	"strings"
	"time"
)

var (
	ErrMalformedRecurrence = errors.New("recurrence requires both weekdays and an end date")
	ErrEmptyUpdate         = errors.New("update request cannot be empty")
)

// RecurrenceRequest is the optional weekly pattern attached to a create or convert request.
// Weekdays use 1 (Monday) through 7 (Sunday).
type RecurrenceRequest struct {
	Weekdays  []int  `json:"weekdays"   validate:"omitempty,unique,dive,weekday" example:"1,3"`
	StartDate string `json:"start_date" validate:"omitempty,date"             example:"2026-01-05"`
	EndDate   string `json:"end_date"   validate:"omitempty,date"             example:"2026-01-16"`
}

// ToRule builds the rule anchored on the booking's window. The start date defaults to the anchor date.
func (r *RecurrenceRequest) ToRule(anchor time.Time, start, end gModel.Clock) (recurrence.Rule, error) {
	if len(r.Weekdays) == 0 || r.EndDate == "" {
		return recurrence.Rule{}, ErrMalformedRecurrence
	}

	weekdays, err := recurrence.ParseWeekdays(r.Weekdays)
	if err != nil {
		return recurrence.Rule{}, err
	}

	startDate := gModel.Date(anchor)
	if r.StartDate != "" {
		if startDate, err = gModel.ParseDate(r.StartDate); err != nil {
			return recurrence.Rule{}, err
		}
	}

	endDate, err := gModel.ParseDate(r.EndDate)
	if err != nil {
		return recurrence.Rule{}, err
	}

	rule := recurrence.Rule{
		Weekdays:  weekdays,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: start,
		EndTime:   end,
	}

	return rule, rule.Validate()
}

func parseWindow(date, start, end string) (time.Time, gModel.Clock, gModel.Clock, error) {
	day, err := gModel.ParseDate(date)
	if err != nil {
		return time.Time{}, gModel.Clock{}, gModel.Clock{}, err
	}

	startTime, err := gModel.ParseClock(start)
	if err != nil {
		return time.Time{}, gModel.Clock{}, gModel.Clock{}, err
	}

	endTime, err := gModel.ParseClock(end)
	if err != nil {
		return time.Time{}, gModel.Clock{}, gModel.Clock{}, err
	}

	if !startTime.Before(endTime) {
		return time.Time{}, gModel.Clock{}, gModel.Clock{}, recurrence.ErrTimeWindow
	}

	return day, startTime, endTime, nil
}

func normalizeResource(resourceID *string) *string {
	if resourceID == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*resourceID)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

type CreateBookingRequest struct {
	ResourceID         *string            `json:"resource_id"         validate:"omitempty,max=64"                                   example:"field-a"`
	BookingDate        string             `json:"booking_date"        validate:"required,date"                                      example:"2026-01-05"`
	StartTime          string             `json:"start_time"          validate:"required,clock"                                     example:"18:00"`
	EndTime            string             `json:"end_time"            validate:"required,clock"                                     example:"20:00"`
	TeamIDs            []string           `json:"team_ids"            validate:"omitempty,dive,required,max=64"`
	Classification     string             `json:"classification"      validate:"required,oneof=practice game meeting other"         example:"practice"`
	Status             string             `json:"status"              validate:"omitempty,oneof=planned confirmed"                  example:"planned"`
	Notes              string             `json:"notes"               validate:"omitempty,max=2000"`
	Opponent           *string            `json:"opponent"            validate:"omitempty,max=100"`
	ExpectedAttendance *int               `json:"expected_attendance" validate:"omitempty,gte=0"`
	Recurrence         *RecurrenceRequest `json:"recurrence"`
}

// ToModel returns the booking the request describes. For a recurring request it is the
// template every expanded instance is copied from.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	day, start, end, err := parseWindow(c.BookingDate, c.StartTime, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	status := model.StatusPlanned
	if c.Status != "" {
		status = c.Status
	}

	return model.Booking{
		ResourceID:         normalizeResource(c.ResourceID),
		BookingDate:        day,
		StartTime:          start,
		EndTime:            end,
		TeamIDs:            shared.UniqueSorted(c.TeamIDs),
		Classification:     c.Classification,
		Status:             status,
		Notes:              c.Notes,
		Opponent:           c.Opponent,
		ExpectedAttendance: c.ExpectedAttendance,
		Metadata:           gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

// ToPlan decides between the single and the recurring path. A recurrence object that
// lacks weekdays or an end date is rejected rather than read as single.
func (c *CreateBookingRequest) ToPlan() (recurrence.Plan, error) {
	if c.Recurrence == nil {
		return recurrence.Single(), nil
	}

	day, start, end, err := parseWindow(c.BookingDate, c.StartTime, c.EndTime)
	if err != nil {
		return recurrence.Plan{}, err
	}

	rule, err := c.Recurrence.ToRule(day, start, end)
	if err != nil {
		return recurrence.Plan{}, err
	}

	return recurrence.Recurring(rule), nil
}

// UpdateBookingRequest carries only the fields to change. An empty resource_id unassigns the resource.
type UpdateBookingRequest struct {
	ResourceID         *string  `json:"resource_id"         validate:"omitempty,max=64"`
	BookingDate        *string  `json:"booking_date"        validate:"omitempty,date"`
	StartTime          *string  `json:"start_time"          validate:"omitempty,clock"`
	EndTime            *string  `json:"end_time"            validate:"omitempty,clock"`
	TeamIDs            []string `json:"team_ids"            validate:"omitempty,dive,required,max=64"`
	Classification     *string  `json:"classification"      validate:"omitempty,oneof=practice game meeting other"`
	Status             *string  `json:"status"              validate:"omitempty,oneof=planned confirmed cancelled"`
	Notes              *string  `json:"notes"               validate:"omitempty,max=2000"`
	Opponent           *string  `json:"opponent"            validate:"omitempty,max=100"`
	ExpectedAttendance *int     `json:"expected_attendance" validate:"omitempty,gte=0"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.ResourceID == nil && u.BookingDate == nil && u.StartTime == nil && u.EndTime == nil &&
		u.TeamIDs == nil && u.Classification == nil && u.Status == nil && u.Notes == nil &&
		u.Opponent == nil && u.ExpectedAttendance == nil
}

// Apply merges the changes onto current and returns the result. current is not modified.
func (u *UpdateBookingRequest) Apply(current model.Booking, user string) (model.Booking, error) {
	next := current

	if u.ResourceID != nil {
		next.ResourceID = normalizeResource(u.ResourceID)
	}

	date := current.Day().Format(constant.DateFormat)
	if u.BookingDate != nil {
		date = *u.BookingDate
	}

	start := current.StartTime.String()
	if u.StartTime != nil {
		start = *u.StartTime
	}

	end := current.EndTime.String()
	if u.EndTime != nil {
		end = *u.EndTime
	}

	day, startTime, endTime, err := parseWindow(date, start, end)
	if err != nil {
		return current, err
	}

	next.BookingDate, next.StartTime, next.EndTime = day, startTime, endTime

	if u.TeamIDs != nil {
		next.TeamIDs = shared.UniqueSorted(u.TeamIDs)
	}

	if u.Classification != nil {
		next.Classification = *u.Classification
	}

	if u.Status != nil {
		next.Status = *u.Status
	}

	if u.Notes != nil {
		next.Notes = *u.Notes
	}

	if u.Opponent != nil {
		next.Opponent = u.Opponent
	}

	if u.ExpectedAttendance != nil {
		next.ExpectedAttendance = u.ExpectedAttendance
	}

	next.Touch(user, timezone.Now())

	return next, nil
}

// ConvertToRecurringRequest replaces a single booking with an expanded series. Booking fields
// left out keep the original's values; the recurrence start date defaults to the original date.
type ConvertToRecurringRequest struct {
	UpdateBookingRequest
	Recurrence RecurrenceRequest `json:"recurrence" validate:"required"`
}

// ToTemplate returns the booking every instance of the series is copied from, and the rule.
func (c *ConvertToRecurringRequest) ToTemplate(original model.Booking, user string) (model.Booking, recurrence.Rule, error) {
	template, err := c.Apply(original, user)
	if err != nil {
		return model.Booking{}, recurrence.Rule{}, err
	}

	rule, err := c.Recurrence.ToRule(template.Day(), template.StartTime, template.EndTime)
	if err != nil {
		return model.Booking{}, recurrence.Rule{}, err
	}

	template.ID = ""
	template.Metadata = gModel.NewMetadata(user, timezone.Now())

	return template, rule, nil
}

// AvailabilityRequest asks whether a window, or every instance of a recurrence, is free.
type AvailabilityRequest struct {
	ResourceID  string             `json:"resource_id"  validate:"required,max=64"  example:"field-a"`
	BookingDate string             `json:"booking_date" validate:"required,date"    example:"2026-01-05"`
	StartTime   string             `json:"start_time"   validate:"required,clock"   example:"18:00"`
	EndTime     string             `json:"end_time"     validate:"required,clock"   example:"20:00"`
	Recurrence  *RecurrenceRequest `json:"recurrence"`
	ExcludeIDs  []string           `json:"exclude_ids"  validate:"omitempty,dive,required"`
}

func (a *AvailabilityRequest) ToCreateRequest() CreateBookingRequest {
	resourceID := a.ResourceID

	return CreateBookingRequest{
		ResourceID:  &resourceID,
		BookingDate: a.BookingDate,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Recurrence:  a.Recurrence,
	}
}

type AvailabilityResponse struct {
	Available bool                `json:"available"`
	Checked   int                 `json:"checked"`
	Conflicts []conflict.Conflict `json:"conflicts"`
}

type BookingResponse struct {
	ID                 string   `json:"id"`
	ResourceID         *string  `json:"resource_id"`
	BookingDate        string   `json:"booking_date"`
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	TeamIDs            []string `json:"team_ids"`
	Classification     string   `json:"classification"`
	Status             string   `json:"status"`
	Notes              string   `json:"notes"`
	Opponent           *string  `json:"opponent,omitempty"`
	ExpectedAttendance *int     `json:"expected_attendance,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ResourceID = model.ResourceID
	r.BookingDate = model.Day().Format(constant.DateFormat)
	r.StartTime = model.StartTime.String()
	r.EndTime = model.EndTime.String()
	r.TeamIDs = append([]string{}, model.TeamIDs...)
	r.Classification = model.Classification
	r.Status = model.Status
	r.Notes = model.Notes
	r.Opponent = model.Opponent
	r.ExpectedAttendance = model.ExpectedAttendance
	r.Metadata.FromModel(model.Metadata)
}

// BookingsResponse is the ordered batch written by a create or convert call.
type BookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Rule     string            `json:"rule,omitempty"`
}

func (r *BookingsResponse) FromModels(models []model.Booking, rule string) {
	r.Rule = rule
	r.Bookings = make([]BookingResponse, len(models))

	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ListFilter is the query-string filter for listing bookings.
type ListFilter struct {
	ResourceID string `validate:"omitempty,max=64"`
	TeamID     string `validate:"omitempty,max=64"`
	Status     string `validate:"omitempty,oneof=planned confirmed cancelled"`
	From       string `validate:"omitempty,date"`
	To         string `validate:"omitempty,date"`
}

// ToFilterGroup translates the filter into the repository's where clause.
func (f *ListFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if f.ResourceID != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldResourceID, Value: f.ResourceID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.TeamID != "" {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "team_id", Field: model.FieldTeamIDs, Value: f.TeamID, Operator: gDto.FilterOperatorContains, Table: model.TableName})
	}

	if f.From != "" {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "date_from", Field: model.FieldBookingDate, Value: f.From, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName})
	}

	if f.To != "" {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "date_to", Field: model.FieldBookingDate, Value: f.To, Operator: gDto.FilterOperatorLessEq, Table: model.TableName})
	}

	return group
}
