package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/domain/dbid"
	"github.com/yungbote/studyquiz-backend/internal/domain/quiz"
)

type StudyPlan struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	SubjectID   uuid.UUID     `gorm:"type:uuid;not null;column:subject_id" json:"subject_id"`
	Subject     *quiz.Subject `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Title       string        `gorm:"not null;column:title" json:"title"`
	Description *string       `gorm:"type:text;column:description" json:"description"`
	StartDate   string        `gorm:"type:varchar(10);not null;column:start_date" json:"start_date"`
	EndDate     string        `gorm:"type:varchar(10);not null;column:end_date" json:"end_date"`
	DailyGoal   int           `gorm:"not null;column:daily_goal" json:"daily_goal"`
	CreatedAt   time.Time     `gorm:"not null;index" json:"created_at"`
}

func (StudyPlan) TableName() string { return "study_plans" }

func (p *StudyPlan) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&p.ID)
	return nil
}
