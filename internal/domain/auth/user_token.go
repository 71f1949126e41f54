package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/domain/dbid"
	"github.com/yungbote/studyquiz-backend/internal/domain/user"
)

type UserToken struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	User         *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AccessToken  string         `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	RefreshToken string         `gorm:"uniqueIndex;not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time      `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserToken) TableName() string { return "user_tokens" }

func (t *UserToken) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&t.ID)
	return nil
}
