package utils

import "time"

// NowUTC is truncated to milliseconds, the precision Mongo stores dates with,
// so values compare equal after a round trip.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func RFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
