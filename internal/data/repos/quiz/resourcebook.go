package quiz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type ResourceBookRepo interface {
	Create(dbc dbctx.Context, books []*types.ResourceBook) ([]*types.ResourceBook, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ResourceBook, error)
	ListActiveBySubject(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.ResourceBook, error)
	UpdatePDFPath(dbc dbctx.Context, id uuid.UUID, path string) error
}

type resourceBookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceBookRepo(db *gorm.DB, baseLog *logger.Logger) ResourceBookRepo {
	repoLog := baseLog.With("repo", "ResourceBookRepo")
	return &resourceBookRepo{db: db, log: repoLog}
}

func (r *resourceBookRepo) Create(dbc dbctx.Context, books []*types.ResourceBook) ([]*types.ResourceBook, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(books) == 0 {
		return []*types.ResourceBook{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *resourceBookRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ResourceBook, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ResourceBook
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

func (r *resourceBookRepo) ListActiveBySubject(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.ResourceBook, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ResourceBook
	if subjectID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("subject_id = ? AND is_active = ?", subjectID, true).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resourceBookRepo) UpdatePDFPath(dbc dbctx.Context, id uuid.UUID, path string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ResourceBook{}).
		Where("id = ?", id).
		Update("pdf_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
