package learning

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

func findAchievement(t *testing.T, list []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q missing", id)
	return Achievement{}
}

func TestCatalogLoads(t *testing.T) {
	rules, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(rules) != 8 {
		t.Fatalf("Catalog: want 8 rules got %d", len(rules))
	}
	if rules[0].ID != "first_quiz" || rules[7].ID != "all_subjects" {
		t.Fatalf("Catalog: unexpected order %s..%s", rules[0].ID, rules[7].ID)
	}
}

func TestParseCatalogRejectsBadTarget(t *testing.T) {
	if _, err := ParseCatalog([]byte("- id: x\n  target: 0\n")); err == nil {
		t.Fatalf("expected error for zero target")
	}
}

func TestEvaluateFirstQuiz(t *testing.T) {
	rules, _ := Catalog()
	now := time.Now()

	none := Evaluate(rules, AchievementStats{}, now)
	first := findAchievement(t, none, "first_quiz")
	if first.Unlocked || first.Progress != 0 || first.UnlockedAt != nil {
		t.Fatalf("first_quiz with 0 quizzes: %+v", first)
	}
	if first.ProgressText != "0/1 quiz completed" {
		t.Fatalf("first_quiz text: %q", first.ProgressText)
	}

	one := Evaluate(rules, AchievementStats{Quizzes: 1}, now)
	first = findAchievement(t, one, "first_quiz")
	if !first.Unlocked || first.Progress != 100 || first.UnlockedAt == nil {
		t.Fatalf("first_quiz with 1 quiz: %+v", first)
	}
}

func TestEvaluateClampsProgress(t *testing.T) {
	rules, _ := Catalog()
	list := Evaluate(rules, AchievementStats{Quizzes: 25, Questions: 40}, time.Now())
	master := findAchievement(t, list, "quiz_master")
	if master.Progress != 100 || !master.Unlocked {
		t.Fatalf("quiz_master: %+v", master)
	}
	century := findAchievement(t, list, "century")
	if century.Progress != 40 || century.Unlocked {
		t.Fatalf("century: %+v", century)
	}
	if century.ProgressText != "40/100 questions answered" {
		t.Fatalf("century text: %q", century.ProgressText)
	}
}

func TestAllSubjectsStaticTextWithoutQuizzes(t *testing.T) {
	rules, _ := Catalog()
	list := Evaluate(rules, AchievementStats{}, time.Now())
	all := findAchievement(t, list, "all_subjects")
	if all.ProgressText != "Practice all subjects" || all.Progress != 0 {
		t.Fatalf("all_subjects: %+v", all)
	}
}

func TestCollectStats(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s1, s2 := uuid.New(), uuid.New()
	attempts := []*types.QuizAttempt{
		{SubjectID: s1, TotalQuestions: 10, Score: 100},
		{SubjectID: s1, TotalQuestions: 10, Score: 95},
		{SubjectID: s2, TotalQuestions: 5, Score: 40},
	}
	stats := CollectStats(attempts, []string{"2026-10-17", "2026-10-16", "2026-10-10"}, now)
	want := AchievementStats{
		Quizzes:       3,
		Questions:     25,
		PerfectScores: 1,
		HighScores:    2,
		Streak:        2,
		PracticeDays:  3,
		Subjects:      2,
	}
	if stats != want {
		t.Fatalf("CollectStats: want=%+v got=%+v", want, stats)
	}
}
