package practice

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type DailyPracticeRepo interface {
	Create(dbc dbctx.Context, rows []*types.DailyPractice) ([]*types.DailyPractice, error)
	GetForDay(dbc dbctx.Context, userID, subjectID uuid.UUID, date string) (*types.DailyPractice, error)
	// Accumulate folds row's batch into the stored row for the same user,
	// subject and date in a single statement, inserting it when none exists.
	Accumulate(dbc dbctx.Context, row *types.DailyPractice) error
	// ListByUser returns rows newest date first. subjectID == uuid.Nil means all subjects.
	ListByUser(dbc dbctx.Context, userID, subjectID uuid.UUID, limit int) ([]*types.DailyPractice, error)
	// ListInRange returns rows with start <= practice_date <= end (ISO dates).
	ListInRange(dbc dbctx.Context, userID, subjectID uuid.UUID, start, end string) ([]*types.DailyPractice, error)
	ListUserIDsForDate(dbc dbctx.Context, date string) ([]uuid.UUID, error)
}

type dailyPracticeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyPracticeRepo(db *gorm.DB, baseLog *logger.Logger) DailyPracticeRepo {
	repoLog := baseLog.With("repo", "DailyPracticeRepo")
	return &dailyPracticeRepo{db: db, log: repoLog}
}

func (r *dailyPracticeRepo) Create(dbc dbctx.Context, rows []*types.DailyPractice) ([]*types.DailyPractice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.DailyPractice{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetForDay returns (nil, nil) when no row exists for that day.
func (r *dailyPracticeRepo) GetForDay(dbc dbctx.Context, userID, subjectID uuid.UUID, date string) (*types.DailyPractice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyPractice
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND subject_id = ? AND practice_date = ?", userID, subjectID, date).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Count-weighted mean of the stored row and the incoming batch. Both SET
// expressions read the pre-update values.
const (
	mergedAttemptedExpr = "daily_practice.questions_attempted + excluded.questions_attempted"
	mergedAverageExpr   = "CASE WHEN daily_practice.questions_attempted + excluded.questions_attempted > 0 " +
		"THEN (daily_practice.average_score * daily_practice.questions_attempted + excluded.average_score * excluded.questions_attempted) " +
		"/ (daily_practice.questions_attempted + excluded.questions_attempted) " +
		"ELSE daily_practice.average_score END"
)

func (r *dailyPracticeRepo) Accumulate(dbc dbctx.Context, row *types.DailyPractice) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}

	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "subject_id"}, {Name: "practice_date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"questions_attempted": gorm.Expr(mergedAttemptedExpr),
				"average_score":       gorm.Expr(mergedAverageExpr),
				"updated_at":          gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(row).Error
}

func (r *dailyPracticeRepo) ListByUser(dbc dbctx.Context, userID, subjectID uuid.UUID, limit int) ([]*types.DailyPractice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyPractice
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(dbc.Ctx).
		Preload("Subject").
		Where("user_id = ?", userID)
	if subjectID != uuid.Nil {
		q = q.Where("subject_id = ?", subjectID)
	}
	q = q.Order("practice_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dailyPracticeRepo) ListInRange(dbc dbctx.Context, userID, subjectID uuid.UUID, start, end string) ([]*types.DailyPractice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyPractice
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Where("practice_date >= ? AND practice_date <= ?", start, end)
	if subjectID != uuid.Nil {
		q = q.Where("subject_id = ?", subjectID)
	}
	if err := q.Order("practice_date ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dailyPracticeRepo) ListUserIDsForDate(dbc dbctx.Context, date string) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.DailyPractice{}).
		Where("practice_date = ?", date).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
