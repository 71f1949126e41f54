package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/quiz"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/platform/redisx"
)

const (
	// DailyPracticeListLimit is how many practice rows the dashboard shows.
	DailyPracticeListLimit = 30
	LeaderboardCacheTTL    = 60 * time.Second
)

type MistakeQuery struct {
	UserID    uuid.UUID
	SubjectID uuid.UUID
	Filter    learning.MistakeFilter
	Sort      learning.MistakeSort
}

type AnalyticsService interface {
	Mistakes(dbc dbctx.Context, q MistakeQuery) ([]*learning.Mistake, error)
	MistakeSummary(dbc dbctx.Context, userID, subjectID uuid.UUID) (learning.MistakeSummary, error)
	DailyPractice(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.DailyPractice, error)
	Leaderboard(dbc dbctx.Context, subjectID uuid.UUID) ([]learning.LeaderboardEntry, error)
	Streak(dbc dbctx.Context, userID, subjectID uuid.UUID) (int, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	attemptRepo  repos.QuizAttemptRepo
	responseRepo repos.QuizResponseRepo
	practiceRepo repos.DailyPracticeRepo
	// cache is nil when Redis is not configured.
	cache *redisx.JSONCache
	now   func() time.Time
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	attemptRepo repos.QuizAttemptRepo,
	responseRepo repos.QuizResponseRepo,
	practiceRepo repos.DailyPracticeRepo,
	cache *redisx.JSONCache,
) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          log.With("service", "AnalyticsService"),
		attemptRepo:  attemptRepo,
		responseRepo: responseRepo,
		practiceRepo: practiceRepo,
		cache:        cache,
		now:          time.Now,
	}
}

func (as *analyticsService) completedAttempts(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.QuizAttempt, error) {
	attempts, err := as.attemptRepo.ListCompleted(dbc, quiz.AttemptFilter{UserID: userID, SubjectID: subjectID})
	if err != nil {
		return nil, apierr.Persistence("load quiz attempts", err)
	}
	return attempts, nil
}

func attemptIDs(attempts []*types.QuizAttempt) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(attempts))
	for _, a := range attempts {
		if a != nil {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Mistakes lists questions the user got wrong on completed attempts of one subject.
func (as *analyticsService) Mistakes(dbc dbctx.Context, q MistakeQuery) ([]*learning.Mistake, error) {
	if q.SubjectID == uuid.Nil {
		return nil, apierr.Validation("subject_id is required")
	}
	attempts, err := as.completedAttempts(dbc, q.UserID, q.SubjectID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return []*learning.Mistake{}, nil
	}
	ids := attemptIDs(attempts)

	now := as.now()
	var since *time.Time
	if q.Filter == learning.FilterRecent {
		cutoff := now.Add(-learning.RecentWindow)
		since = &cutoff
	}
	incorrect, err := as.responseRepo.ListIncorrect(dbc, ids, since)
	if err != nil {
		return nil, apierr.Persistence("load incorrect responses", err)
	}
	if len(incorrect) == 0 {
		return []*learning.Mistake{}, nil
	}

	seen := map[uuid.UUID]struct{}{}
	questionIDs := make([]uuid.UUID, 0)
	for _, r := range incorrect {
		if _, ok := seen[r.QuestionID]; ok {
			continue
		}
		seen[r.QuestionID] = struct{}{}
		questionIDs = append(questionIDs, r.QuestionID)
	}
	counts := map[uuid.UUID]int{}
	all, err := as.responseRepo.ListForQuestions(dbc, ids, questionIDs)
	if err != nil {
		as.log.Warn("Falling back to wrong-answer counts", "error", err)
	} else {
		for _, r := range all {
			counts[r.QuestionID]++
		}
	}

	mistakes := learning.AggregateMistakes(incorrect, counts)
	mistakes = learning.FilterMistakes(mistakes, q.Filter, now)
	learning.SortMistakes(mistakes, q.Sort)
	return mistakes, nil
}

// MistakeSummary totals responses over completed attempts. subjectID == uuid.Nil means all subjects.
func (as *analyticsService) MistakeSummary(dbc dbctx.Context, userID, subjectID uuid.UUID) (learning.MistakeSummary, error) {
	empty := learning.MistakeSummary{BySubject: map[uuid.UUID]*learning.SubjectMistakes{}}
	attempts, err := as.completedAttempts(dbc, userID, subjectID)
	if err != nil {
		return empty, err
	}
	if len(attempts) == 0 {
		return empty, nil
	}
	subjectOf := make(map[uuid.UUID]uuid.UUID, len(attempts))
	for _, a := range attempts {
		subjectOf[a.ID] = a.SubjectID
	}
	responses, err := as.responseRepo.ListByAttemptIDs(dbc, attemptIDs(attempts))
	if err != nil {
		return empty, apierr.Persistence("load responses", err)
	}
	return learning.SummarizeMistakes(responses, subjectOf), nil
}

func (as *analyticsService) DailyPractice(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.DailyPractice, error) {
	rows, err := as.practiceRepo.ListByUser(dbc, userID, subjectID, DailyPracticeListLimit)
	if err != nil {
		return nil, apierr.Persistence("load daily practice", err)
	}
	return rows, nil
}

// Leaderboard ranks users by the average of their best completed attempts.
// Results are shared by all callers and cached briefly when Redis is present.
func (as *analyticsService) Leaderboard(dbc dbctx.Context, subjectID uuid.UUID) ([]learning.LeaderboardEntry, error) {
	scope := "all"
	if subjectID != uuid.Nil {
		scope = subjectID.String()
	}
	key := redisx.Key("leaderboard", scope)
	if as.cache != nil {
		var cached []learning.LeaderboardEntry
		found, err := as.cache.Get(dbc.Ctx, key, &cached)
		if err != nil {
			as.log.Warn("Leaderboard cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}

	attempts, err := as.attemptRepo.ListCompleted(dbc, quiz.AttemptFilter{
		SubjectID: subjectID,
		Limit:     learning.LeaderboardPool,
		ByScore:   true,
	})
	if err != nil {
		return nil, apierr.Persistence("load leaderboard attempts", err)
	}
	board := learning.Leaderboard(attempts)

	if as.cache != nil {
		if err := as.cache.Set(dbc.Ctx, key, board); err != nil {
			as.log.Warn("Leaderboard cache write failed", "error", err)
		}
	}
	return board, nil
}

func (as *analyticsService) Streak(dbc dbctx.Context, userID, subjectID uuid.UUID) (int, error) {
	rows, err := as.practiceRepo.ListByUser(dbc, userID, subjectID, 0)
	if err != nil {
		return 0, apierr.Persistence("load practice dates", err)
	}
	return learning.Streak(practiceDates(rows), as.now()), nil
}

func practiceDates(rows []*types.DailyPractice) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r.PracticeDate)
		}
	}
	return out
}
