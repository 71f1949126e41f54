package learning

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"week":    PeriodWeek,
		"3months": Period3Months,
		"all":     PeriodAll,
		"month":   PeriodMonth,
		"":        PeriodMonth,
		"year":    PeriodMonth,
	}
	for in, want := range cases {
		if got := ParsePeriod(in); got != want {
			t.Fatalf("ParsePeriod(%q): want=%s got=%s", in, want, got)
		}
	}
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	start, end := PeriodWeek.Range(now)
	if !end.Equal(now) || !start.Equal(time.Date(2026, 10, 10, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("week range: %v..%v", start, end)
	}
	start, _ = Period3Months.Range(now)
	if !start.Equal(time.Date(2026, 7, 17, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("3months start: %v", start)
	}
	start, _ = PeriodAll.Range(now)
	if !start.Equal(time.Date(2020, 10, 17, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("all start: %v", start)
	}
}

func TestBuildReport(t *testing.T) {
	math := &types.Subject{ID: uuid.New(), Name: "Mathematics"}
	sci := &types.Subject{ID: uuid.New(), Name: "Science"}
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	attempts := []*types.QuizAttempt{
		{ID: uuid.New(), SubjectID: math.ID, Subject: math, TotalQuestions: 10, CorrectAnswers: 8, Score: 80, CompletedAt: &at},
		{ID: uuid.New(), SubjectID: sci.ID, Subject: sci, TotalQuestions: 5, CorrectAnswers: 5, Score: 100, CompletedAt: &at},
		{ID: uuid.New(), SubjectID: math.ID, Subject: math, TotalQuestions: 10, CorrectAnswers: 6, Score: 60, CompletedAt: &at},
	}
	rep := BuildReport(PeriodWeek, attempts, 4)

	if rep.TotalQuizzes != 3 || rep.TotalQuestions != 25 || rep.StudyStreak != 4 {
		t.Fatalf("totals: %+v", rep)
	}
	if rep.AverageScore != 80 {
		t.Fatalf("AverageScore: want=80 got=%v", rep.AverageScore)
	}
	if len(rep.SubjectBreakdown) != 2 {
		t.Fatalf("breakdown len: want=2 got=%d", len(rep.SubjectBreakdown))
	}
	m := rep.SubjectBreakdown[0]
	if m.Name != "Mathematics" || m.Quizzes != 2 || m.Questions != 20 || m.Mistakes != 6 || m.AverageScore != 70 {
		t.Fatalf("math breakdown: %+v", m)
	}
	if len(rep.RecentActivity) != 3 || rep.RecentActivity[1].SubjectName != "Science" {
		t.Fatalf("recent activity: %+v", rep.RecentActivity)
	}
}

func TestBuildReportEmptyAndCapped(t *testing.T) {
	rep := BuildReport(PeriodMonth, nil, 0)
	if rep.AverageScore != 0 || rep.SubjectBreakdown == nil || rep.RecentActivity == nil {
		t.Fatalf("empty report should carry zero values and empty slices: %+v", rep)
	}

	attempts := make([]*types.QuizAttempt, 0, 15)
	for i := 0; i < 15; i++ {
		attempts = append(attempts, &types.QuizAttempt{ID: uuid.New(), SubjectID: uuid.New(), TotalQuestions: 1, Score: 50})
	}
	rep = BuildReport(PeriodAll, attempts, 0)
	if len(rep.RecentActivity) != RecentActivityN {
		t.Fatalf("recent activity: want=%d got=%d", RecentActivityN, len(rep.RecentActivity))
	}
	if rep.RecentActivity[0].SubjectName != "Unknown" {
		t.Fatalf("missing subject should render as Unknown, got %q", rep.RecentActivity[0].SubjectName)
	}
}
