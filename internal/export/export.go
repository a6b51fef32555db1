// Package export renders an aggregated leaderboard into a downloadable
// two-column table. Pure shaping; ranking comes in from the aggregator.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"attendboard/internal/leaderboard"
)

// Headers are fixed by the export contract.
var Headers = []string{"User", "VC Time"}

// Rows converts leaderboard entries into tabular rows, preserving ranking
// order. The header row comes first.
func Rows(entries []leaderboard.Entry) [][]string {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, Headers)
	for _, entry := range entries {
		rows = append(rows, []string{entry.User, entry.Time})
	}
	return rows
}

// WriteCSV streams the leaderboard as CSV to w.
func WriteCSV(w io.Writer, entries []leaderboard.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(Rows(entries)); err != nil {
		return fmt.Errorf("failed to write leaderboard CSV: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// Filename returns the download name for a given window.
func Filename(windowName string) string {
	return fmt.Sprintf("attendance_%s.csv", windowName)
}
