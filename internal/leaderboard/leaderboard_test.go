package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendboard/pkg/types"
)

var base = time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC) // a Wednesday

// history builds a most-recent-first buffer from chronologically ordered
// events, mirroring how the processor records them.
func history(events ...types.Event) []types.Event {
	reversed := make([]types.Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		reversed = append(reversed, events[i])
	}
	return reversed
}

func event(eventType, user string, at time.Time) types.Event {
	return types.Event{Type: eventType, User: user, Channel: "general", Time: at}
}

func TestComputeExampleScenario(t *testing.T) {
	// Join(Alice, 00:00), Leave(Alice, 00:05), Join(Bob, 00:01), Leave(Bob, 00:02)
	buffer := history(
		event(types.EventTypeJoin, "alice", base),
		event(types.EventTypeJoin, "bob", base.Add(1*time.Minute)),
		event(types.EventTypeLeave, "bob", base.Add(2*time.Minute)),
		event(types.EventTypeLeave, "alice", base.Add(5*time.Minute)),
	)

	entries := Compute(buffer, All())

	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].User)
	assert.Equal(t, "00:05:00", entries[0].Time)
	assert.Equal(t, "bob", entries[1].User)
	assert.Equal(t, "00:01:00", entries[1].Time)
}

func TestComputeSkipsUnmatchedLeave(t *testing.T) {
	buffer := history(
		event(types.EventTypeLeave, "ghost", base.Add(time.Minute)),
		event(types.EventTypeJoin, "alice", base.Add(2*time.Minute)),
		event(types.EventTypeLeave, "alice", base.Add(3*time.Minute)),
	)

	entries := Compute(buffer, All())

	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].User)
}

func TestComputeAccumulatesMultipleSessions(t *testing.T) {
	buffer := history(
		event(types.EventTypeJoin, "alice", base),
		event(types.EventTypeLeave, "alice", base.Add(2*time.Minute)),
		event(types.EventTypeJoin, "alice", base.Add(10*time.Minute)),
		event(types.EventTypeLeave, "alice", base.Add(13*time.Minute)),
	)

	entries := Compute(buffer, All())

	require.Len(t, entries, 1)
	assert.Equal(t, int64(300), entries[0].Seconds) // 2min + 3min
	assert.Equal(t, "00:05:00", entries[0].Time)
}

func TestComputePairsNearestPrecedingJoin(t *testing.T) {
	// Two joins before the leave: only the later one supplies the start
	buffer := history(
		event(types.EventTypeJoin, "alice", base),
		event(types.EventTypeJoin, "alice", base.Add(9*time.Minute)),
		event(types.EventTypeLeave, "alice", base.Add(10*time.Minute)),
	)

	entries := Compute(buffer, All())

	require.Len(t, entries, 1)
	assert.Equal(t, int64(60), entries[0].Seconds)
}

func TestComputeOrdersByRawSecondsNotFormattedString(t *testing.T) {
	// 100h formats as "100:00:00" which sorts before "99:00:00"
	// lexicographically; numeric ordering must put it first
	buffer := history(
		event(types.EventTypeJoin, "marathon", base),
		event(types.EventTypeJoin, "runnerup", base),
		event(types.EventTypeLeave, "runnerup", base.Add(99*time.Hour)),
		event(types.EventTypeLeave, "marathon", base.Add(100*time.Hour)),
	)

	entries := Compute(buffer, All())

	require.Len(t, entries, 2)
	assert.Equal(t, "marathon", entries[0].User)
	assert.Equal(t, "100:00:00", entries[0].Time)
	assert.Equal(t, "runnerup", entries[1].User)
}

func TestComputeTieBreaksByUserName(t *testing.T) {
	buffer := history(
		event(types.EventTypeJoin, "zoe", base),
		event(types.EventTypeJoin, "amy", base),
		event(types.EventTypeLeave, "zoe", base.Add(time.Minute)),
		event(types.EventTypeLeave, "amy", base.Add(time.Minute)),
	)

	entries := Compute(buffer, All())

	require.Len(t, entries, 2)
	assert.Equal(t, "amy", entries[0].User)
	assert.Equal(t, "zoe", entries[1].User)
}

func TestComputeEmptyHistory(t *testing.T) {
	assert.Empty(t, Compute(nil, All()))
}

func TestWindowFiltersLeavesOnly(t *testing.T) {
	now := base.Add(12 * time.Hour)
	dayStart := Daily(now).Start()

	// Session spans midnight: join yesterday, leave today. The leave is
	// inside the daily window, so the whole session counts.
	buffer := history(
		event(types.EventTypeJoin, "alice", dayStart.Add(-30*time.Minute)),
		event(types.EventTypeLeave, "alice", dayStart.Add(30*time.Minute)),
	)

	entries := Compute(buffer, Daily(now))

	require.Len(t, entries, 1)
	assert.Equal(t, int64(3600), entries[0].Seconds)
}

func TestWindowBoundaryInclusive(t *testing.T) {
	now := base.Add(12 * time.Hour)
	dayStart := Daily(now).Start()

	buffer := history(
		event(types.EventTypeJoin, "early", dayStart.Add(-2*time.Minute)),
		event(types.EventTypeLeave, "early", dayStart.Add(-time.Minute)), // strictly before: excluded
		event(types.EventTypeJoin, "onTime", dayStart.Add(-time.Minute)),
		event(types.EventTypeLeave, "onTime", dayStart), // exactly at start: included
	)

	entries := Compute(buffer, Daily(now))

	require.Len(t, entries, 1)
	assert.Equal(t, "onTime", entries[0].User)
}

func TestDailyWindowStart(t *testing.T) {
	now := time.Date(2024, 3, 6, 15, 30, 45, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), Daily(now).Start())
}

func TestWeeklyWindowStart(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
	}{
		{"monday itself", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)},
		{"midweek", time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, monday, Weekly(tc.now).Start())
		})
	}
}

func TestParse(t *testing.T) {
	now := base

	daily, err := Parse("daily", now)
	require.NoError(t, err)
	assert.Equal(t, WindowDaily, daily.Name())

	weekly, err := Parse("weekly", now)
	require.NoError(t, err)
	assert.Equal(t, WindowWeekly, weekly.Name())

	all, err := Parse("all", now)
	require.NoError(t, err)
	assert.Equal(t, WindowAll, all.Name())
	assert.True(t, all.Contains(time.Time{}))

	_, err = Parse("monthly", now)
	assert.ErrorIs(t, err, ErrUnknownWindow)
}
