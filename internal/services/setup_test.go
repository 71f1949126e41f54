package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/testutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type fixture struct {
	db  *gorm.DB
	log *logger.Logger

	users     repos.UserRepo
	tokens    repos.UserTokenRepo
	subjects  repos.SubjectRepo
	questions repos.QuestionRepo
	attempts  repos.QuizAttemptRepo
	responses repos.QuizResponseRepo
	practice  repos.DailyPracticeRepo
	plans     repos.StudyPlanRepo
	notes     repos.NotificationRepo
	books     repos.ResourceBookRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &fixture{
		db:        db,
		log:       log,
		users:     repos.NewUserRepo(db, log),
		tokens:    repos.NewUserTokenRepo(db, log),
		subjects:  repos.NewSubjectRepo(db, log),
		questions: repos.NewQuestionRepo(db, log),
		attempts:  repos.NewQuizAttemptRepo(db, log),
		responses: repos.NewQuizResponseRepo(db, log),
		practice:  repos.NewDailyPracticeRepo(db, log),
		plans:     repos.NewStudyPlanRepo(db, log),
		notes:     repos.NewNotificationRepo(db, log),
		books:     repos.NewResourceBookRepo(db, log),
	}
}

// as returns a dbctx for an authenticated caller.
func as(userID uuid.UUID) dbctx.Context {
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
	return dbctx.New(ctx)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
