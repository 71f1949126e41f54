package study

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type StudyPlanRepo interface {
	Create(dbc dbctx.Context, plans []*types.StudyPlan) ([]*types.StudyPlan, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.StudyPlan, error)
	// DeleteForUser removes the plan only when it belongs to userID and
	// reports gorm.ErrRecordNotFound otherwise.
	DeleteForUser(dbc dbctx.Context, userID, planID uuid.UUID) error
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	repoLog := baseLog.With("repo", "StudyPlanRepo")
	return &studyPlanRepo{db: db, log: repoLog}
}

func (r *studyPlanRepo) Create(dbc dbctx.Context, plans []*types.StudyPlan) ([]*types.StudyPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(plans) == 0 {
		return []*types.StudyPlan{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *studyPlanRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.StudyPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudyPlan
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studyPlanRepo) DeleteForUser(dbc dbctx.Context, userID, planID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&types.StudyPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
