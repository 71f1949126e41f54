package learning

import "time"

// Streak counts consecutive practice days ending today. dates must be sorted
// newest first. The i-th entry has to equal today minus i days; the walk stops
// at the first entry that does not, so a repeated date also ends the streak.
func Streak(dates []string, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	day := now.UTC().Truncate(24 * time.Hour)
	streak := 0
	for _, d := range dates {
		if d != PracticeDate(day) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
