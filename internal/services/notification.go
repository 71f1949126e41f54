package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/domain/notify"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// NotificationListLimit is how many notifications a user sees.
const NotificationListLimit = 50

type NewNotification struct {
	UserID   uuid.UUID
	Type     string
	Title    string
	Message  string
	Icon     string
	Metadata map[string]any
}

type NotificationService interface {
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(dbc dbctx.Context, userID, id uuid.UUID) error
	MarkAllRead(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	Create(dbc dbctx.Context, in NewNotification) (*types.Notification, error)
}

type notificationService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.NotificationRepo
	now  func() time.Time
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, repo repos.NotificationRepo) NotificationService {
	return &notificationService{
		db:   db,
		log:  log.With("service", "NotificationService"),
		repo: repo,
		now:  time.Now,
	}
}

func (ns *notificationService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Notification, error) {
	out, err := ns.repo.ListByUser(dbc, userID, NotificationListLimit)
	if err != nil {
		return nil, apierr.Persistence("list notifications", err)
	}
	return out, nil
}

func (ns *notificationService) MarkRead(dbc dbctx.Context, userID, id uuid.UUID) error {
	if err := ns.repo.MarkRead(dbc, userID, id, ns.now().UTC()); err != nil {
		if isNotFound(err) {
			return apierr.NotFound("notification")
		}
		return apierr.Persistence("mark notification read", err)
	}
	return nil
}

func (ns *notificationService) MarkAllRead(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	n, err := ns.repo.MarkAllRead(dbc, userID, ns.now().UTC())
	if err != nil {
		return 0, apierr.Persistence("mark notifications read", err)
	}
	return n, nil
}

func (ns *notificationService) Create(dbc dbctx.Context, in NewNotification) (*types.Notification, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, apierr.Validation("Notification type and title are required")
	}
	icon := in.Icon
	if icon == "" {
		icon = notify.DefaultIcon
	}
	n := &types.Notification{
		UserID:  in.UserID,
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
		Icon:    icon,
	}
	if len(in.Metadata) > 0 {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, apierr.Validation("Notification metadata must be JSON")
		}
		n.Metadata = datatypes.JSON(raw)
	}
	if _, err := ns.repo.Create(dbc, []*types.Notification{n}); err != nil {
		return nil, apierr.Persistence("create notification", err)
	}
	return n, nil
}
