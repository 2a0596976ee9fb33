package recurrence

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"
)

// Weekday numbers days 1 (Monday) through 7 (Sunday). time.Weekday numbers Sunday as 0,
// so every conversion goes through WeekdayOf or ParseWeekday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var rruleDays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// ParseWeekday accepts the 1-7 Monday-first numbering. 0 is rejected rather than read as Sunday.
func ParseWeekday(n int) (Weekday, error) {
	day := Weekday(n)
	if !day.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeekday, n)
	}

	return day, nil
}

// ParseWeekdays converts a request's weekday numbers into a sorted set.
func ParseWeekdays(ns []int) ([]Weekday, error) {
	days := make([]Weekday, 0, len(ns))

	for _, n := range ns {
		day, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}

		days = append(days, day)
	}

	return normalize(days), nil
}

// WeekdayOf returns the weekday of t's calendar date.
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}

	return Weekday(t.Weekday())
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}

	if w == Sunday {
		return time.Sunday.String()
	}

	return time.Weekday(w).String()
}

func (w Weekday) rrule() rrule.Weekday {
	return rruleDays[w-1]
}

func normalize(days []Weekday) []Weekday {
	out := slices.Clone(days)
	slices.Sort(out)

	return slices.Compact(out)
}
