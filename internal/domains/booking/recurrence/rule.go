package recurrence

import (
	"errors"
	"fieldbook/shared/model"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var (
	ErrEmptyWeekdays      = errors.New("recurrence requires at least one weekday")
	ErrInvalidWeekday     = errors.New("weekday must be between 1 (Monday) and 7 (Sunday)")
	ErrMissingEndDate     = errors.New("recurrence requires an end date")
	ErrDateRange          = errors.New("recurrence end date is before its start date")
	ErrTimeWindow         = errors.New("end time must be after start time")
	ErrNoOccurrences      = errors.New("recurrence produces no dates in its range")
	ErrTooManyOccurrences = errors.New("recurrence produces too many dates")
)

// Rule is a weekly pattern: every listed weekday between StartDate and EndDate, both inclusive,
// from StartTime to EndTime. Dates are calendar days; only their year, month and day are used.
type Rule struct {
	Weekdays  []Weekday
	StartDate time.Time
	EndDate   time.Time
	StartTime model.Clock
	EndTime   model.Clock
}

// Validate checks the rule without expanding it.
func (r Rule) Validate() error {
	if len(r.Weekdays) == 0 {
		return ErrEmptyWeekdays
	}

	for _, day := range r.Weekdays {
		if !day.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, int(day))
		}
	}

	if r.EndDate.IsZero() {
		return ErrMissingEndDate
	}

	if model.Date(r.EndDate).Before(model.Date(r.StartDate)) {
		return ErrDateRange
	}

	if !r.StartTime.Before(r.EndTime) {
		return ErrTimeWindow
	}

	return nil
}

// Duration is the length every generated booking inherits.
func (r Rule) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r Rule) options() rrule.ROption {
	days := normalize(r.Weekdays)
	byDay := make([]rrule.Weekday, len(days))

	for i, day := range days {
		byDay[i] = day.rrule()
	}

	return rrule.ROption{
		Freq:      rrule.WEEKLY,
		Wkst:      rrule.MO,
		Dtstart:   model.Date(r.StartDate),
		Until:     model.Date(r.EndDate),
		Byweekday: byDay,
	}
}

// String renders the rule as RFC 5545 text, e.g. for logs and events.
func (r Rule) String() string {
	options := r.options()

	return fmt.Sprintf("%s %s-%s", options.String(), r.StartTime, r.EndTime)
}
