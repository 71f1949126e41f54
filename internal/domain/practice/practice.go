package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/domain/dbid"
	"github.com/yungbote/studyquiz-backend/internal/domain/quiz"
)

// DateLayout is the ISO calendar date used for PracticeDate and study plan bounds.
const DateLayout = "2006-01-02"

// DailyPractice aggregates one user's work on one subject for one UTC day.
type DailyPractice struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_daily_practice_user_subject_date,priority:1;column:user_id" json:"user_id"`
	SubjectID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_daily_practice_user_subject_date,priority:2;column:subject_id" json:"subject_id"`
	Subject            *quiz.Subject `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	PracticeDate       string        `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_practice_user_subject_date,priority:3;column:practice_date" json:"practice_date"`
	QuestionsAttempted int           `gorm:"not null;default:0;column:questions_attempted" json:"questions_attempted"`
	AverageScore       float64       `gorm:"not null;default:0;column:average_score" json:"average_score"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updated_at"`
}

func (DailyPractice) TableName() string { return "daily_practice" }

func (p *DailyPractice) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&p.ID)
	return nil
}
