// Package tzdate buckets UTC instants into local calendar dates for a
// configured timezone, and maps dates back to their UTC day boundaries.
// Bucketing is driven by local wall-clock time, never by fixed-length UTC
// slices, so DST transitions keep days correct.
package tzdate

import (
	"time"

	"stepik-analytics/internal/types"
)

// ToLocalDate returns the calendar date t falls on when rendered in loc.
func ToLocalDate(t time.Time, loc *time.Location) types.Date {
	return types.DateOf(t.In(loc))
}

// UTCRange returns the half-open UTC interval [start, end) during which the
// local wall-clock date holds: local midnight of d to local midnight of d+1.
// On spring-forward days without a local midnight, time.Date normalization
// picks the adjusted instant.
func UTCRange(d types.Date, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	next := d.AddDays(1)
	end := time.Date(next.Year, next.Month, next.Day, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}
