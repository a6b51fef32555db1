package leaderboard

import "errors"

// Aggregation error types
var (
	ErrUnknownWindow = errors.New("unknown leaderboard window: must be 'daily', 'weekly' or 'all'")
)
