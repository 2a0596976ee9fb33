// Package timezone holds the application timezone used for audit timestamps and for
// deciding which calendar day "today" is.
//
// Booking dates themselves are zone-less and stored as UTC midnight; only wall-clock
// instants such as created_at are rendered in the application timezone.
//
// Call Load once at startup with APP_TIMEZONE. Until then every helper works in UTC.
package timezone
