package leaderboard

import (
	"time"
)

// Window names accepted by the query and export endpoints.
const (
	WindowDaily  = "daily"
	WindowWeekly = "weekly"
	WindowAll    = "all"
)

// Window is a time range filter applied to leave events during aggregation.
// An unbounded window admits everything.
type Window struct {
	name    string
	start   time.Time
	bounded bool
}

// All returns the unbounded window.
func All() Window {
	return Window{name: WindowAll}
}

// Daily returns the window starting at the beginning of the current calendar
// day in the local zone of now.
func Daily(now time.Time) Window {
	year, month, day := now.Date()
	return Window{
		name:    WindowDaily,
		start:   time.Date(year, month, day, 0, 0, 0, 0, now.Location()),
		bounded: true,
	}
}

// Weekly returns the window starting at the most recent Monday 00:00 in the
// local zone of now.
func Weekly(now time.Time) Window {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	// time.Weekday counts Sunday as 0; shift so Monday is the week start
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return Window{
		name:    WindowWeekly,
		start:   midnight.AddDate(0, 0, -daysSinceMonday),
		bounded: true,
	}
}

// Parse maps a window name to a Window anchored at now.
func Parse(name string, now time.Time) (Window, error) {
	switch name {
	case WindowDaily:
		return Daily(now), nil
	case WindowWeekly:
		return Weekly(now), nil
	case WindowAll:
		return All(), nil
	default:
		return Window{}, ErrUnknownWindow
	}
}

// Name returns the window's query name.
func (w Window) Name() string {
	return w.name
}

// Start returns the window's lower bound; meaningful only when bounded.
func (w Window) Start() time.Time {
	return w.start
}

// Contains reports whether an event at t falls inside the window. The lower
// bound is inclusive: events exactly at the window start count.
func (w Window) Contains(t time.Time) bool {
	return !w.bounded || !t.Before(w.start)
}
