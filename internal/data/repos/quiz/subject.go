package quiz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, subjects []*types.Subject) ([]*types.Subject, error)
	List(dbc dbctx.Context) ([]*types.Subject, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Subject, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	repoLog := baseLog.With("repo", "SubjectRepo")
	return &subjectRepo{db: db, log: repoLog}
}

func (r *subjectRepo) Create(dbc dbctx.Context, subjects []*types.Subject) ([]*types.Subject, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(subjects) == 0 {
		return []*types.Subject{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) List(dbc dbctx.Context) ([]*types.Subject, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Subject
	if err := transaction.WithContext(dbc.Ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subjectRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Subject, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Subject
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
