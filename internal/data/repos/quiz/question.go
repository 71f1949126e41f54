package quiz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// QuestionPoolLimit caps how many questions are pulled before shuffling.
const QuestionPoolLimit = 1000

type QuestionRepo interface {
	Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Question, error)
	ListBySubject(dbc dbctx.Context, subjectID uuid.UUID, limit int) ([]*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*types.Question{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
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

func (r *questionRepo) ListBySubject(dbc dbctx.Context, subjectID uuid.UUID, limit int) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
	if subjectID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 || limit > QuestionPoolLimit {
		limit = QuestionPoolLimit
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("subject_id = ?", subjectID).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
