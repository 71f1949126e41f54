package notify

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, notifications []*types.Notification) ([]*types.Notification, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Notification, error)
	MarkRead(dbc dbctx.Context, userID, id uuid.UUID, at time.Time) error
	MarkAllRead(dbc dbctx.Context, userID uuid.UUID, at time.Time) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (r *notificationRepo) Create(dbc dbctx.Context, notifications []*types.Notification) ([]*types.Notification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(notifications) == 0 {
		return []*types.Notification{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Notification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Notification
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, userID, id uuid.UUID, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"read": true, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(dbc dbctx.Context, userID uuid.UUID, at time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "read_at": at})
	return res.RowsAffected, res.Error
}
