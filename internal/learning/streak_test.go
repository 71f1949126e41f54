package learning

import (
	"testing"
	"time"
)

func TestStreak(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"today only", []string{"2026-10-17"}, 1},
		{"three then gap", []string{"2026-10-17", "2026-10-16", "2026-10-15", "2026-10-13"}, 3},
		{"no practice today", []string{"2026-10-16", "2026-10-15"}, 0},
		{"duplicate date stops walk", []string{"2026-10-17", "2026-10-17", "2026-10-16"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(tc.dates, now); got != tc.want {
				t.Fatalf("Streak: want=%d got=%d", tc.want, got)
			}
		})
	}
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, 11, 1, 0, 5, 0, 0, time.UTC)
	dates := []string{"2026-11-01", "2026-10-31", "2026-10-30"}
	if got := Streak(dates, now); got != 3 {
		t.Fatalf("Streak: want=3 got=%d", got)
	}
}
