package learning

import (
	"testing"
	"time"
)

func TestPracticeDateUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 10, 17, 8, 0, 0, 0, loc)
	if got := PracticeDate(local); got != "2026-10-16" {
		t.Fatalf("PracticeDate: want=2026-10-16 got=%s", got)
	}
}
