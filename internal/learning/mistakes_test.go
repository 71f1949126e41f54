package learning

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

func wrong(q *types.Question, selected string, at time.Time) *types.QuizResponse {
	return &types.QuizResponse{
		QuestionID:     q.ID,
		Question:       q,
		SelectedAnswer: selected,
		AnsweredAt:     at,
	}
}

func TestModeTieBreaksOnFirstSeen(t *testing.T) {
	if got := Mode([]string{"B", "B", "C"}); got != "B" {
		t.Fatalf("Mode: want=B got=%s", got)
	}
	if got := Mode([]string{"C", "B", "B", "C"}); got != "C" {
		t.Fatalf("Mode tie: want=C got=%s", got)
	}
	if got := Mode(nil); got != "" {
		t.Fatalf("Mode(nil): got=%q", got)
	}
}

func TestAggregateMistakes(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	q1 := &types.Question{ID: uuid.New(), QuestionText: "q1", CorrectAnswer: "A", DifficultyLevel: types.DifficultyEasy}
	q2 := &types.Question{ID: uuid.New(), QuestionText: "q2", CorrectAnswer: "D", DifficultyLevel: types.DifficultyHard}

	responses := []*types.QuizResponse{
		wrong(q1, "B", now.Add(-3*time.Hour)),
		wrong(q2, "A", now.Add(-2*time.Hour)),
		wrong(q1, "B", now.Add(-1*time.Hour)),
		wrong(q1, "C", now.Add(-5*time.Hour)),
		{QuestionID: uuid.New(), SelectedAnswer: "Z"},
	}
	counts := map[uuid.UUID]int{q1.ID: 5}

	got := AggregateMistakes(responses, counts)
	if len(got) != 2 {
		t.Fatalf("len: want=2 got=%d", len(got))
	}
	m1 := got[0]
	if m1.QuestionID != q1.ID || m1.TimesWrong != 3 || m1.WrongAnswer != "B" {
		t.Fatalf("q1: unexpected %+v", m1)
	}
	if m1.TotalAttempts != 5 {
		t.Fatalf("q1 totalAttempts: want=5 got=%d", m1.TotalAttempts)
	}
	if m1.LastAttempted == nil || !m1.LastAttempted.Equal(now.Add(-1*time.Hour)) {
		t.Fatalf("q1 lastAttempted: %v", m1.LastAttempted)
	}
	if len(m1.AttemptDates) != 3 {
		t.Fatalf("q1 attemptDates: %v", m1.AttemptDates)
	}
	if got[1].TotalAttempts != 1 {
		t.Fatalf("q2 totalAttempts should fall back to timesWrong, got %d", got[1].TotalAttempts)
	}
}

func TestSortAndFilterAreIndependent(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time { v := now.Add(time.Duration(-h) * time.Hour); return &v }
	list := []*Mistake{
		{QuestionText: "easy-old-3x", DifficultyLevel: types.DifficultyEasy, TimesWrong: 3, LastAttempted: at(48)},
		{QuestionText: "hard-new-1x", DifficultyLevel: types.DifficultyHard, TimesWrong: 1, LastAttempted: at(1)},
		{QuestionText: "none-mid-2x", DifficultyLevel: "", TimesWrong: 2, LastAttempted: at(10)},
		{QuestionText: "medium-ancient-5x", DifficultyLevel: types.DifficultyMedium, TimesWrong: 5, LastAttempted: at(24 * 30)},
	}

	byRecent := append([]*Mistake(nil), list...)
	SortMistakes(byRecent, SortRecent)
	if byRecent[0].QuestionText != "hard-new-1x" || byRecent[3].QuestionText != "medium-ancient-5x" {
		t.Fatalf("recent sort: %s .. %s", byRecent[0].QuestionText, byRecent[3].QuestionText)
	}

	byDiff := append([]*Mistake(nil), list...)
	SortMistakes(byDiff, SortDifficulty)
	order := []string{"hard-new-1x", "medium-ancient-5x", "easy-old-3x", "none-mid-2x"}
	for i, want := range order {
		if byDiff[i].QuestionText != want {
			t.Fatalf("difficulty sort[%d]: want=%s got=%s", i, want, byDiff[i].QuestionText)
		}
	}

	// frequent filter keeps the recent ordering it was given
	frequent := FilterMistakes(byRecent, FilterFrequent, now)
	if len(frequent) != 3 {
		t.Fatalf("frequent filter: want=3 got=%d", len(frequent))
	}
	if frequent[0].QuestionText != "none-mid-2x" || frequent[2].QuestionText != "medium-ancient-5x" {
		t.Fatalf("frequent filter reordered: %s .. %s", frequent[0].QuestionText, frequent[2].QuestionText)
	}

	recent := FilterMistakes(list, FilterRecent, now)
	if len(recent) != 3 {
		t.Fatalf("recent filter: want=3 got=%d", len(recent))
	}
}

func TestSummarizeMistakes(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()
	s1, s2 := uuid.New(), uuid.New()
	responses := []*types.QuizResponse{
		{QuizAttemptID: a1, IsCorrect: true},
		{QuizAttemptID: a1, IsCorrect: false},
		{QuizAttemptID: a2, IsCorrect: false},
	}
	got := SummarizeMistakes(responses, map[uuid.UUID]uuid.UUID{a1: s1, a2: s2})
	if got.TotalMistakes != 2 {
		t.Fatalf("TotalMistakes: want=2 got=%d", got.TotalMistakes)
	}
	if got.MistakeRate != 66.67 {
		t.Fatalf("MistakeRate: want=66.67 got=%v", got.MistakeRate)
	}
	if b := got.BySubject[s1]; b == nil || b.Total != 2 || b.Incorrect != 1 {
		t.Fatalf("BySubject[s1]: %+v", b)
	}

	empty := SummarizeMistakes(nil, nil)
	if empty.MistakeRate != 0 || empty.TotalMistakes != 0 {
		t.Fatalf("empty summary: %+v", empty)
	}
}

func TestParseFilterAndSortDefaults(t *testing.T) {
	if ParseMistakeFilter("bogus") != FilterAll || ParseMistakeFilter("frequent") != FilterFrequent {
		t.Fatalf("ParseMistakeFilter")
	}
	if ParseMistakeSort("") != SortRecent || ParseMistakeSort("difficulty") != SortDifficulty {
		t.Fatalf("ParseMistakeSort")
	}
}
