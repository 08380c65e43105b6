package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// SinceMs returns the elapsed milliseconds between start and now.
func SinceMs(start time.Time, now func() time.Time) int64 {
	if now == nil {
		now = NowUTC
	}
	return now().Sub(start).Milliseconds()
}
