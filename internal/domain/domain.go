package domain

import (
	"github.com/yungbote/studyquiz-backend/internal/domain/auth"
	"github.com/yungbote/studyquiz-backend/internal/domain/notify"
	"github.com/yungbote/studyquiz-backend/internal/domain/practice"
	"github.com/yungbote/studyquiz-backend/internal/domain/quiz"
	"github.com/yungbote/studyquiz-backend/internal/domain/study"
	"github.com/yungbote/studyquiz-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = auth.UserToken

	Subject      = quiz.Subject
	Question     = quiz.Question
	QuizAttempt  = quiz.QuizAttempt
	QuizResponse = quiz.QuizResponse
	ResourceBook = quiz.ResourceBook
	Difficulty   = quiz.Difficulty

	DailyPractice = practice.DailyPractice
	StudyPlan     = study.StudyPlan
	Notification  = notify.Notification
)

const (
	DifficultyEasy   = quiz.DifficultyEasy
	DifficultyMedium = quiz.DifficultyMedium
	DifficultyHard   = quiz.DifficultyHard

	DateLayout = practice.DateLayout
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Subject{},
		&Question{},
		&QuizAttempt{},
		&QuizResponse{},
		&DailyPractice{},
		&StudyPlan{},
		&Notification{},
		&ResourceBook{},
	}
}
