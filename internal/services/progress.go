package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/quiz"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// ProgressService derives achievements and progress reports. Nothing it
// returns is stored.
type ProgressService interface {
	Achievements(dbc dbctx.Context, userID uuid.UUID) ([]learning.Achievement, error)
	Report(dbc dbctx.Context, userID, subjectID uuid.UUID, period learning.Period) (*learning.ProgressReport, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	attemptRepo  repos.QuizAttemptRepo
	practiceRepo repos.DailyPracticeRepo
	rules        []learning.AchievementRule
	now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	attemptRepo repos.QuizAttemptRepo,
	practiceRepo repos.DailyPracticeRepo,
) (ProgressService, error) {
	rules, err := learning.Catalog()
	if err != nil {
		return nil, err
	}
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		attemptRepo:  attemptRepo,
		practiceRepo: practiceRepo,
		rules:        rules,
		now:          time.Now,
	}, nil
}

func (ps *progressService) practiceDates(dbc dbctx.Context, userID uuid.UUID) ([]string, error) {
	rows, err := ps.practiceRepo.ListByUser(dbc, userID, uuid.Nil, 0)
	if err != nil {
		return nil, apierr.Persistence("load daily practice", err)
	}
	return practiceDates(rows), nil
}

func (ps *progressService) Achievements(dbc dbctx.Context, userID uuid.UUID) ([]learning.Achievement, error) {
	attempts, err := ps.attemptRepo.ListCompleted(dbc, quiz.AttemptFilter{UserID: userID})
	if err != nil {
		return nil, apierr.Persistence("load quiz attempts", err)
	}
	dates, err := ps.practiceDates(dbc, userID)
	if err != nil {
		return nil, err
	}
	now := ps.now()
	return learning.Evaluate(ps.rules, learning.CollectStats(attempts, dates, now), now), nil
}

// Report covers attempts completed inside period. The streak always spans
// every subject.
func (ps *progressService) Report(dbc dbctx.Context, userID, subjectID uuid.UUID, period learning.Period) (*learning.ProgressReport, error) {
	now := ps.now()
	start, _ := period.Range(now)
	attempts, err := ps.attemptRepo.ListCompleted(dbc, quiz.AttemptFilter{
		UserID:    userID,
		SubjectID: subjectID,
		Since:     &start,
	})
	if err != nil {
		return nil, apierr.Persistence("load quiz attempts", err)
	}
	dates, err := ps.practiceDates(dbc, userID)
	if err != nil {
		return nil, err
	}
	rep := learning.BuildReport(period, attempts, learning.Streak(dates, now))
	return &rep, nil
}
