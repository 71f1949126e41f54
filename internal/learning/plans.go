package learning

import (
	"math"
	"time"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

// PlanProgress is the percentage of a study plan's question target met by
// practice rows inside the plan window, capped at 100. No rows, unparsable
// bounds or a non-positive target all yield 0.
func PlanProgress(plan *types.StudyPlan, rows []*types.DailyPractice) int {
	if plan == nil || len(rows) == 0 {
		return 0
	}
	start, err := time.Parse(types.DateLayout, plan.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(types.DateLayout, plan.EndDate)
	if err != nil {
		return 0
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	expected := days * plan.DailyGoal
	if expected <= 0 {
		return 0
	}
	actual := 0
	for _, r := range rows {
		if r != nil {
			actual += r.QuestionsAttempted
		}
	}
	pct := int(math.Round(float64(actual) / float64(expected) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
