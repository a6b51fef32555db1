package duration

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		seconds  int64
		expected string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3599, "00:59:59"},
		{3661, "01:01:01"},
		{86400, "24:00:00"},
		{360000, "100:00:00"}, // hours are not capped at two digits
	}

	for _, tc := range cases {
		if got := Format(tc.seconds); got != tc.expected {
			t.Errorf("Format(%d) = %q, expected %q", tc.seconds, got, tc.expected)
		}
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if got := ElapsedSeconds(start, start.Add(5*time.Minute)); got != 300 {
		t.Errorf("expected 300 seconds, got %d", got)
	}

	// Sub-second remainders are truncated
	if got := ElapsedSeconds(start, start.Add(90*time.Second+900*time.Millisecond)); got != 90 {
		t.Errorf("expected truncation to 90 seconds, got %d", got)
	}

	if got := ElapsedSeconds(start, start); got != 0 {
		t.Errorf("expected 0 for identical instants, got %d", got)
	}
}

func TestElapsedSecondsNegative(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(-30 * time.Second)

	// Negative results are passed through, not clamped
	if got := ElapsedSeconds(start, end); got != -30 {
		t.Errorf("expected -30 for reversed interval, got %d", got)
	}
}
