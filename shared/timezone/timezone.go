package timezone

import (
	"fmt"
	"sync/atomic"
	"time"
)

var appLocation atomic.Pointer[time.Location]

// Load sets the application timezone from an IANA name. An empty name means UTC.
// On error the previous location stays in effect.
func Load(name string) error {
	if name == "" {
		name = "UTC"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	appLocation.Store(loc)

	return nil
}

// Location returns the application timezone, UTC until Load succeeds.
func Location() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Format renders t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// Today returns the current calendar day in the application timezone as UTC midnight,
// the representation booking dates are stored in.
func Today() time.Time {
	y, m, d := Now().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
