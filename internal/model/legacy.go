package model

import "time"

// The upstream wire format encodes a task's estimated duration as a
// clock time at the Unix epoch: 90 minutes arrives as 1970-01-01T01:30:00Z.
// Inside taskdeck an estimate is always integer minutes; these two
// functions are the only place the epoch trick is allowed to exist.

// DecodeLegacyEstimate converts an epoch-clock-time estimate to minutes.
// The zero time means "no estimate".
func DecodeLegacyEstimate(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	u := t.UTC()
	return u.Hour()*60 + u.Minute()
}

// EncodeLegacyEstimate converts minutes back to the epoch-clock-time wire
// encoding. Non-positive estimates encode as the zero time.
func EncodeLegacyEstimate(minutes int) time.Time {
	if minutes <= 0 {
		return time.Time{}
	}
	return time.Date(1970, time.January, 1, minutes/60, minutes%60, 0, 0, time.UTC)
}
