package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos/auth"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/notify"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/practice"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/quiz"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/study"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/user"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type SubjectRepo = quiz.SubjectRepo
type QuestionRepo = quiz.QuestionRepo
type QuizAttemptRepo = quiz.QuizAttemptRepo
type QuizResponseRepo = quiz.QuizResponseRepo
type ResourceBookRepo = quiz.ResourceBookRepo
type AttemptFilter = quiz.AttemptFilter

type DailyPracticeRepo = practice.DailyPracticeRepo
type StudyPlanRepo = study.StudyPlanRepo
type NotificationRepo = notify.NotificationRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return quiz.NewSubjectRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return quiz.NewQuestionRepo(db, baseLog)
}
func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return quiz.NewQuizAttemptRepo(db, baseLog)
}
func NewQuizResponseRepo(db *gorm.DB, baseLog *logger.Logger) QuizResponseRepo {
	return quiz.NewQuizResponseRepo(db, baseLog)
}
func NewResourceBookRepo(db *gorm.DB, baseLog *logger.Logger) ResourceBookRepo {
	return quiz.NewResourceBookRepo(db, baseLog)
}

func NewDailyPracticeRepo(db *gorm.DB, baseLog *logger.Logger) DailyPracticeRepo {
	return practice.NewDailyPracticeRepo(db, baseLog)
}
func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return study.NewStudyPlanRepo(db, baseLog)
}
func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notify.NewNotificationRepo(db, baseLog)
}
