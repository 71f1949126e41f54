package notify

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/domain/dbid"
)

const DefaultIcon = "🔔"

const (
	TypePerfectScore     = "perfect_score"
	TypeStudyPlanCreated = "study_plan_created"
	TypeStreakReminder   = "streak_reminder"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Type      string         `gorm:"not null;column:type" json:"type"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Message   string         `gorm:"type:text;not null;column:message" json:"message"`
	Icon      string         `gorm:"column:icon" json:"icon"`
	Read      bool           `gorm:"not null;default:false;index;column:read" json:"read"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&n.ID)
	if n.Icon == "" {
		n.Icon = DefaultIcon
	}
	return nil
}
