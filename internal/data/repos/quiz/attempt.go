package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// AttemptFilter narrows completed-attempt queries. Zero values mean "any".
type AttemptFilter struct {
	UserID    uuid.UUID
	SubjectID uuid.UUID
	Since     *time.Time
	Limit     int
	// ByScore orders by score desc instead of completed_at desc.
	ByScore bool
}

type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuizAttempt, error)
	Complete(dbc dbctx.Context, id uuid.UUID, correct int, score float64, completedAt time.Time) error
	ListCompleted(dbc dbctx.Context, f AttemptFilter) ([]*types.QuizAttempt, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	repoLog := baseLog.With("repo", "QuizAttemptRepo")
	return &quizAttemptRepo{db: db, log: repoLog}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizAttemptRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizAttempt
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Complete stamps the attempt's final tally. It refuses to touch an attempt
// that already has completed_at set and reports gorm.ErrRecordNotFound then.
func (r *quizAttemptRepo) Complete(dbc dbctx.Context, id uuid.UUID, correct int, score float64, completedAt time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", id).
		Updates(map[string]any{
			"correct_answers": correct,
			"score":           score,
			"completed_at":    completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quizAttemptRepo) ListCompleted(dbc dbctx.Context, f AttemptFilter) ([]*types.QuizAttempt, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(dbc.Ctx).
		Preload("Subject").
		Where("completed_at IS NOT NULL")
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.SubjectID != uuid.Nil {
		q = q.Where("subject_id = ?", f.SubjectID)
	}
	if f.Since != nil {
		q = q.Where("completed_at >= ?", *f.Since)
	}
	if f.ByScore {
		q = q.Order("score DESC").Order("completed_at DESC")
	} else {
		q = q.Order("completed_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var results []*types.QuizAttempt
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
