package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	Subject       repos.SubjectRepo
	Question      repos.QuestionRepo
	QuizAttempt   repos.QuizAttemptRepo
	QuizResponse  repos.QuizResponseRepo
	ResourceBook  repos.ResourceBookRepo
	DailyPractice repos.DailyPracticeRepo
	StudyPlan     repos.StudyPlanRepo
	Notification  repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		Subject:       repos.NewSubjectRepo(db, log),
		Question:      repos.NewQuestionRepo(db, log),
		QuizAttempt:   repos.NewQuizAttemptRepo(db, log),
		QuizResponse:  repos.NewQuizResponseRepo(db, log),
		ResourceBook:  repos.NewResourceBookRepo(db, log),
		DailyPractice: repos.NewDailyPracticeRepo(db, log),
		StudyPlan:     repos.NewStudyPlanRepo(db, log),
		Notification:  repos.NewNotificationRepo(db, log),
	}
}
