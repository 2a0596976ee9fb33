package conflict

import (
	"context"
	"encoding/json"
	"fieldbook/internal/domains/booking/model"
	"fieldbook/shared/constant"
	gModel "fieldbook/shared/model"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

// Reader loads the bookings a resource holds between two calendar dates, inclusive.
type Reader interface {
	FindByResourceAndWindow(ctx context.Context, resourceID string, from, to time.Time) ([]model.Booking, error)
}

// Window is a candidate occupation of a resource on one day, half-open: [Start, End).
type Window struct {
	ResourceID string
	Date       time.Time
	Start      gModel.Clock
	End        gModel.Clock
}

// WindowOf returns the window an existing booking occupies.
func WindowOf(b model.Booking) Window {
	return Window{
		ResourceID: b.Resource(),
		Date:       b.Day(),
		Start:      b.StartTime,
		End:        b.EndTime,
	}
}

// Overlaps reports whether both windows hold the same resource on the same day at overlapping
// times. Touching windows, where one ends as the other starts, do not overlap.
func (w Window) Overlaps(other Window) bool {
	if w.ResourceID == "" || w.ResourceID != other.ResourceID {
		return false
	}

	if !gModel.Date(w.Date).Equal(gModel.Date(other.Date)) {
		return false
	}

	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ResourceID string `json:"resource_id"`
		Date       string `json:"date"`
		StartTime  string `json:"start_time"`
		EndTime    string `json:"end_time"`
	}{
		ResourceID: w.ResourceID,
		Date:       w.Date.Format(constant.DateFormat),
		StartTime:  w.Start.String(),
		EndTime:    w.End.String(),
	})
}

// Conflict names an existing booking and the candidate window that would overlap it.
type Conflict struct {
	BookingID string `json:"booking_id"`
	Existing  Window `json:"existing"`
	Candidate Window `json:"candidate"`
}

// Detect compares candidates with existing bookings without touching any store. Cancelled
// bookings, bookings without a resource and bookings listed in exclude never conflict.
// Results follow candidate order, then existing booking order.
func Detect(candidates []Window, existing []model.Booking, exclude []string) []Conflict {
	conflicts := []Conflict{}

	for _, candidate := range candidates {
		if candidate.ResourceID == "" {
			continue
		}

		for _, booking := range existing {
			if !booking.Active() || booking.Resource() == "" || slices.Contains(exclude, booking.ID) {
				continue
			}

			held := WindowOf(booking)
			if candidate.Overlaps(held) {
				conflicts = append(conflicts, Conflict{
					BookingID: booking.ID,
					Existing:  held,
					Candidate: candidate,
				})
			}
		}
	}

	return conflicts
}

// Find loads existing bookings once per resource, spanning the earliest to the latest
// candidate date, and runs Detect over the whole candidate set.
func Find(ctx context.Context, reader Reader, candidates []Window, exclude []string) ([]Conflict, error) {
	type span struct{ from, to time.Time }

	spans := map[string]span{}

	for _, candidate := range candidates {
		if candidate.ResourceID == "" {
			continue
		}

		day := gModel.Date(candidate.Date)

		s, ok := spans[candidate.ResourceID]
		if !ok {
			spans[candidate.ResourceID] = span{from: day, to: day}

			continue
		}

		if day.Before(s.from) {
			s.from = day
		}

		if day.After(s.to) {
			s.to = day
		}

		spans[candidate.ResourceID] = s
	}

	resources := make([]string, 0, len(spans))
	for resourceID := range spans {
		resources = append(resources, resourceID)
	}

	slices.Sort(resources)

	existing := []model.Booking{}

	for _, resourceID := range resources {
		s := spans[resourceID]

		bookings, err := reader.FindByResourceAndWindow(ctx, resourceID, s.from, s.to)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings for resource %s: %w", resourceID, err)
		}

		existing = append(existing, bookings...)
	}

	return Detect(candidates, existing, exclude), nil
}

// Error reports conflicting bookings. It carries its own status so the HTTP layer can
// render the conflicts as the response details.
type Error struct {
	Conflicts []Conflict
}

func (e *Error) Error() string {
	return fmt.Sprintf("booking overlaps existing booking(s): %s", strings.Join(e.BookingIDs(), ", "))
}

func (e *Error) StatusCode() int {
	return http.StatusConflict
}

func (e *Error) Details() any {
	return e.Conflicts
}

// BookingIDs returns the distinct conflicting booking ids in first-seen order.
func (e *Error) BookingIDs() []string {
	ids := []string{}

	for _, c := range e.Conflicts {
		if !slices.Contains(ids, c.BookingID) {
			ids = append(ids, c.BookingID)
		}
	}

	return ids
}
