package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
	clockLayout    = "15:04"
	sqlTimeLayout  = "15:04:05"
)

var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a wall-clock time of day with minute precision, stored as a Postgres TIME.
type Clock struct {
	minutes int
}

func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidClock, hour, minute)
	}

	return Clock{minutes: hour*minutesPerHour + minute}, nil
}

// MustClock is NewClock for literals known to be valid.
func MustClock(hour, minute int) Clock {
	clock, err := NewClock(hour, minute)
	if err != nil {
		panic(err)
	}

	return clock
}

// ParseClock parses "15:04" or "15:04:05"; seconds are truncated.
func ParseClock(value string) (Clock, error) {
	value = strings.TrimSpace(value)

	layout := clockLayout
	if strings.Count(value, ":") == 2 {
		layout = sqlTimeLayout
	}

	parsed, err := time.Parse(layout, value)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	return Clock{minutes: parsed.Hour()*minutesPerHour + parsed.Minute()}, nil
}

func (c Clock) Hour() int   { return c.minutes / minutesPerHour }
func (c Clock) Minute() int { return c.minutes % minutesPerHour }

// Minutes returns the minutes elapsed since midnight.
func (c Clock) Minutes() int { return c.minutes }

func (c Clock) Before(other Clock) bool { return c.minutes < other.minutes }
func (c Clock) After(other Clock) bool  { return c.minutes > other.minutes }

// Sub returns c - other.
func (c Clock) Sub(other Clock) time.Duration {
	return time.Duration(c.minutes-other.minutes) * time.Minute
}

// Add returns the clock shifted by d, or false when the result leaves the day.
func (c Clock) Add(d time.Duration) (Clock, bool) {
	minutes := c.minutes + int(d/time.Minute)
	if minutes < 0 || minutes >= minutesPerDay {
		return Clock{}, false
	}

	return Clock{minutes: minutes}, true
}

// On places the clock on the calendar day of date in loc.
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()

	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// Value implements driver.Valuer.
func (c Clock) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", c.Hour(), c.Minute()), nil
}

// Scan implements sql.Scanner. lib/pq hands TIME columns over as text.
func (c *Clock) Scan(src any) error {
	switch value := src.(type) {
	case time.Time:
		*c = Clock{minutes: value.Hour()*minutesPerHour + value.Minute()}

		return nil
	case []byte:
		return c.UnmarshalText(value)
	case string:
		return c.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidClock, src)
	}
}

// Date returns the calendar day of t as UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return parsed, nil
}
