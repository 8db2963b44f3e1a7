package igloo

import (
	"fmt"
	"time"
)

// The provider rejects credential dates that are not aligned to an exact
// hour. Dates travel as ISO-like local timestamps carrying the UTC offset,
// with minutes and seconds always zeroed, e.g. "2025-02-11T19:00:00+01:00".

// FormatProviderDate renders an hour-aligned instant in the provider's
// date format. The instant's own location decides the offset.
func FormatProviderDate(t time.Time) string {
	_, offsetSeconds := t.Zone()

	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}
	offsetHours := offsetSeconds / 3600
	offsetMinutes := (offsetSeconds % 3600) / 60

	return fmt.Sprintf("%04d-%02d-%02dT%02d:00:00%s%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(),
		sign, offsetHours, offsetMinutes)
}

// FloorToHour truncates the instant to the start of its hour
func FloorToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// CeilToHour rounds the instant up to the next hour boundary. An instant
// already on a boundary is returned unchanged.
func CeilToHour(t time.Time) time.Time {
	floored := FloorToHour(t)
	if floored.Equal(t) {
		return t
	}
	return floored.Add(time.Hour)
}

// NextHourAt returns the first hour boundary at or after the instant.
// One-time codes start here so the provider never sees a start in the
// middle of an hour.
func NextHourAt(t time.Time) time.Time {
	return CeilToHour(t)
}

// StartOfDay truncates the instant to midnight in its location. Daily
// codes start here.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
