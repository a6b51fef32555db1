// Package leaderboard derives ranked per-user presence totals from the
// bounded event history. Totals are recomputed from history on every query
// rather than read from the cumulative stats map - that is what makes
// daily/weekly windows possible without a separate time-bucketed structure,
// at the cost of being limited to whatever the capped history still holds.
package leaderboard

import (
	"sort"

	"attendboard/pkg/duration"
	"attendboard/pkg/types"
)

// Entry is one ranked leaderboard row. Seconds carries the raw total used
// for ordering; Time is the HH:MM:SS rendering shown to consumers.
type Entry struct {
	User    string `json:"user"`
	Seconds int64  `json:"-"`
	Time    string `json:"time"`
}

// Compute aggregates per-user durations from history for the given window,
// ranked by raw seconds descending. For each leave event inside the window,
// the chronologically nearest preceding join for the same user within the
// buffer supplies the session start; leaves with no such join are skipped
// because their duration cannot be determined. Joins are not themselves
// window-filtered - only the leave has to land inside the window.
func Compute(history []types.Event, window Window) []Entry {
	totals := make(map[string]int64)

	for _, event := range history {
		if !event.IsLeave() || !window.Contains(event.Time) {
			continue
		}
		join, found := nearestPrecedingJoin(history, event)
		if !found {
			continue
		}
		totals[event.User] += duration.ElapsedSeconds(join.Time, event.Time)
	}

	entries := make([]Entry, 0, len(totals))
	for user, seconds := range totals {
		entries = append(entries, Entry{
			User:    user,
			Seconds: seconds,
			Time:    duration.Format(seconds),
		})
	}

	// Rank by the numeric total, not the formatted string: HH:MM:SS stops
	// sorting lexicographically once hours exceed two digits. Ties break by
	// user name for deterministic output.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Seconds != entries[j].Seconds {
			return entries[i].Seconds > entries[j].Seconds
		}
		return entries[i].User < entries[j].User
	})

	return entries
}

// nearestPrecedingJoin finds the same-user join with the latest timestamp at
// or before the leave. History order does not matter here; the scan compares
// timestamps directly.
func nearestPrecedingJoin(history []types.Event, leave types.Event) (types.Event, bool) {
	var best types.Event
	found := false

	for _, candidate := range history {
		if !candidate.IsJoin() || candidate.User != leave.User {
			continue
		}
		if candidate.Time.After(leave.Time) {
			continue
		}
		if !found || candidate.Time.After(best.Time) {
			best = candidate
			found = true
		}
	}

	return best, found
}
