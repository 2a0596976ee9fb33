package model

import (
	"fieldbook/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldResourceID         = "resource_id"
	FieldBookingDate        = "booking_date"
	FieldStartTime          = "start_time"
	FieldEndTime            = "end_time"
	FieldTeamIDs            = "team_ids"
	FieldClassification     = "classification"
	FieldStatus             = "status"
	FieldNotes              = "notes"
	FieldOpponent           = "opponent"
	FieldExpectedAttendance = "expected_attendance"

	// DefaultSort orders listings chronologically; the sort direction is appended to start_time.
	DefaultSort = FieldBookingDate + " ASC, " + FieldStartTime
)

// SortableFields are the columns a listing may be sorted by.
var SortableFields = []string{
	FieldBookingDate,
	FieldStartTime,
	FieldResourceID,
	FieldStatus,
	FieldClassification,
}

const (
	StatusPlanned   = "planned"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	ClassificationPractice = "practice"
	ClassificationGame     = "game"
	ClassificationMeeting  = "meeting"
	ClassificationOther    = "other"
)

// Booking is one dated, timed occupation of a resource. Instances expanded from a recurrence
// keep no reference to it and are edited and deleted one by one.
type Booking struct {
	ID                 string         `db:"id"`
	ResourceID         *string        `db:"resource_id"`
	BookingDate        time.Time      `db:"booking_date"`
	StartTime          model.Clock    `db:"start_time"`
	EndTime            model.Clock    `db:"end_time"`
	TeamIDs            pq.StringArray `db:"team_ids"`
	Classification     string         `db:"classification"`
	Status             string         `db:"status"`
	Notes              string         `db:"notes"`
	Opponent           *string        `db:"opponent"`
	ExpectedAttendance *int           `db:"expected_attendance"`
	model.Metadata
}

// Resource returns the assigned resource id, or "" when none is assigned.
func (b Booking) Resource() string {
	if b.ResourceID == nil {
		return ""
	}

	return *b.ResourceID
}

// Active reports whether the booking still occupies its resource.
func (b Booking) Active() bool {
	return b.Status != StatusCancelled
}

// Day returns the booking date as UTC midnight regardless of how the driver scanned it.
func (b Booking) Day() time.Time {
	return model.Date(b.BookingDate)
}
