package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type QuizResponseRepo interface {
	Create(dbc dbctx.Context, responses []*types.QuizResponse) ([]*types.QuizResponse, error)
	ListByAttemptIDs(dbc dbctx.Context, attemptIDs []uuid.UUID) ([]*types.QuizResponse, error)
	// ListIncorrect returns wrong answers with their question preloaded,
	// newest first. since, when set, keeps answered_at >= since.
	ListIncorrect(dbc dbctx.Context, attemptIDs []uuid.UUID, since *time.Time) ([]*types.QuizResponse, error)
	ListForQuestions(dbc dbctx.Context, attemptIDs, questionIDs []uuid.UUID) ([]*types.QuizResponse, error)
}

type quizResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResponseRepo(db *gorm.DB, baseLog *logger.Logger) QuizResponseRepo {
	repoLog := baseLog.With("repo", "QuizResponseRepo")
	return &quizResponseRepo{db: db, log: repoLog}
}

func (r *quizResponseRepo) Create(dbc dbctx.Context, responses []*types.QuizResponse) ([]*types.QuizResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(responses) == 0 {
		return []*types.QuizResponse{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *quizResponseRepo) ListByAttemptIDs(dbc dbctx.Context, attemptIDs []uuid.UUID) ([]*types.QuizResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizResponse
	if len(attemptIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("quiz_attempt_id IN ?", attemptIDs).
		Order("answered_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizResponseRepo) ListIncorrect(dbc dbctx.Context, attemptIDs []uuid.UUID, since *time.Time) ([]*types.QuizResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizResponse
	if len(attemptIDs) == 0 {
		return results, nil
	}

	q := transaction.WithContext(dbc.Ctx).
		Preload("Question").
		Where("quiz_attempt_id IN ?", attemptIDs).
		Where("is_correct = ?", false)
	if since != nil {
		q = q.Where("answered_at >= ?", *since)
	}
	if err := q.Order("answered_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizResponseRepo) ListForQuestions(dbc dbctx.Context, attemptIDs, questionIDs []uuid.UUID) ([]*types.QuizResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizResponse
	if len(attemptIDs) == 0 || len(questionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("quiz_attempt_id IN ?", attemptIDs).
		Where("question_id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
