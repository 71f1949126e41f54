package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "Test User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

// SeedQuestions creates n questions whose correct answer is always "A".
func SeedQuestions(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, n int, difficulty types.Difficulty) []*types.Question {
	tb.Helper()
	out := make([]*types.Question, 0, n)
	for i := 0; i < n; i++ {
		q := &types.Question{
			ID:              uuid.New(),
			SubjectID:       subjectID,
			QuestionText:    fmt.Sprintf("question %d", i),
			OptionA:         "A",
			OptionB:         "B",
			OptionC:         "C",
			OptionD:         "D",
			CorrectAnswer:   "A",
			Explanation:     "because",
			DifficultyLevel: difficulty,
		}
		if err := tx.WithContext(ctx).Create(q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		out = append(out, q)
	}
	return out
}

// SeedCompletedAttempt inserts an attempt already marked completed at completedAt.
func SeedCompletedAttempt(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, subjectID uuid.UUID, total, correct int, completedAt time.Time) *types.QuizAttempt {
	tb.Helper()
	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	done := completedAt.UTC()
	a := &types.QuizAttempt{
		ID:             uuid.New(),
		UserID:         userID,
		SubjectID:      subjectID,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
		StartedAt:      done.Add(-10 * time.Minute),
		CompletedAt:    &done,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}

func SeedResponse(tb testing.TB, ctx context.Context, tx *gorm.DB, attemptID, questionID uuid.UUID, selected string, correct bool, at time.Time) *types.QuizResponse {
	tb.Helper()
	r := &types.QuizResponse{
		ID:             uuid.New(),
		QuizAttemptID:  attemptID,
		QuestionID:     questionID,
		SelectedAnswer: selected,
		IsCorrect:      correct,
		AnsweredAt:     at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed response: %v", err)
	}
	return r
}

func SeedPractice(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, subjectID uuid.UUID, date string, attempted int, avg float64) *types.DailyPractice {
	tb.Helper()
	p := &types.DailyPractice{
		ID:                 uuid.New(),
		UserID:             userID,
		SubjectID:          subjectID,
		PracticeDate:       date,
		QuestionsAttempted: attempted,
		AverageScore:       avg,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed practice: %v", err)
	}
	return p
}
