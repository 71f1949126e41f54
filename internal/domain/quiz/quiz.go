package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/domain/dbid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Subject is reference data; questions, attempts and practice rows hang off it.
type Subject struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex;column:name" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Subject) TableName() string { return "subjects" }

func (s *Subject) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&s.ID)
	return nil
}

type Question struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID       uuid.UUID  `gorm:"type:uuid;index;not null;column:subject_id" json:"subject_id"`
	Subject         *Subject   `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	QuestionText    string     `gorm:"type:text;not null;column:question_text" json:"question_text"`
	OptionA         string     `gorm:"type:text;column:option_a" json:"option_a"`
	OptionB         string     `gorm:"type:text;column:option_b" json:"option_b"`
	OptionC         string     `gorm:"type:text;column:option_c" json:"option_c"`
	OptionD         string     `gorm:"type:text;column:option_d" json:"option_d"`
	CorrectAnswer   string     `gorm:"not null;column:correct_answer" json:"correct_answer"`
	Explanation     string     `gorm:"type:text;column:explanation" json:"explanation"`
	DifficultyLevel Difficulty `gorm:"column:difficulty_level" json:"difficulty_level"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string { return "questions" }

func (q *Question) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&q.ID)
	return nil
}

// QuizAttempt is created when a quiz starts and mutated exactly once when it
// is submitted. CompletedAt == nil means the attempt is still in progress.
type QuizAttempt struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	SubjectID      uuid.UUID  `gorm:"type:uuid;index;not null;column:subject_id" json:"subject_id"`
	Subject        *Subject   `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	TotalQuestions int        `gorm:"not null;column:total_questions" json:"total_questions"`
	CorrectAnswers int        `gorm:"not null;default:0;column:correct_answers" json:"correct_answers"`
	Score          float64    `gorm:"not null;default:0;column:score" json:"score"`
	StartedAt      time.Time  `gorm:"not null;column:started_at" json:"started_at"`
	CompletedAt    *time.Time `gorm:"index;column:completed_at" json:"completed_at"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempts" }

func (a *QuizAttempt) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&a.ID)
	return nil
}

func (a *QuizAttempt) Completed() bool { return a != nil && a.CompletedAt != nil }

// QuizResponse rows are append-only.
type QuizResponse struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	QuizAttemptID  uuid.UUID    `gorm:"type:uuid;index;not null;column:quiz_attempt_id" json:"quiz_attempt_id"`
	QuizAttempt    *QuizAttempt `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizAttemptID;references:ID" json:"-"`
	QuestionID     uuid.UUID    `gorm:"type:uuid;index;not null;column:question_id" json:"question_id"`
	Question       *Question    `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	SelectedAnswer string       `gorm:"column:selected_answer" json:"selected_answer"`
	IsCorrect      bool         `gorm:"not null;index;column:is_correct" json:"is_correct"`
	AnsweredAt     time.Time    `gorm:"not null;index;column:answered_at" json:"answered_at"`
}

func (QuizResponse) TableName() string { return "quiz_responses" }

func (r *QuizResponse) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&r.ID)
	return nil
}

type ResourceBook struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID   uuid.UUID `gorm:"type:uuid;index;not null;column:subject_id" json:"subject_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Author      string    `gorm:"column:author" json:"author"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	PDFPath     string    `gorm:"column:pdf_path" json:"pdf_path"`
	IsActive    bool      `gorm:"not null;column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (ResourceBook) TableName() string { return "resource_books" }

func (b *ResourceBook) BeforeCreate(*gorm.DB) error {
	dbid.Ensure(&b.ID)
	return nil
}
