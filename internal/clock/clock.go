// Package clock renders the UTC timestamps carried by outgoing envelopes.
package clock

import "time"

// Layout is ISO-8601 with microsecond precision and a literal trailing Z.
const Layout = "2006-01-02T15:04:05.000000Z"

// Stamp renders t as a UTC instant in the wire format.
func Stamp(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Now returns the current UTC instant in the wire format.
func Now() string {
	return Stamp(time.Now())
}
