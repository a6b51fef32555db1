// Package duration provides elapsed-time arithmetic and the fixed-width
// HH:MM:SS rendering used by leaderboards and exports.
package duration

import (
	"fmt"
	"time"
)

// ElapsedSeconds returns whole seconds between start and end, truncated.
// The result is signed: end before start yields a negative value, and it is
// the caller's job to treat that as an anomaly. No clamping happens here.
func ElapsedSeconds(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Second)
}

// Format renders seconds as HH:MM:SS with each component zero-padded to at
// least two digits. Hours are not capped, so 100 hours renders as
// "100:00:00" - the result is display-only and not safe for lexicographic
// ordering across large magnitudes.
func Format(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
