package services

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/quiz"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// QuizService serves reference data and the persisted side of quizzes.
type QuizService interface {
	ListSubjects(dbc dbctx.Context) ([]*types.Subject, error)
	RandomQuestions(dbc dbctx.Context, subjectID uuid.UUID, count int) ([]*types.Question, error)
	History(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.QuizAttempt, error)
	RecordPractice(dbc dbctx.Context, userID, subjectID uuid.UUID, questionsAttempted int, averageScore float64) (*types.DailyPractice, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	subjectRepo  repos.SubjectRepo
	questionRepo repos.QuestionRepo
	attemptRepo  repos.QuizAttemptRepo
	practiceRepo repos.DailyPracticeRepo
	now          func() time.Time
	shuffle      func(n int, swap func(i, j int))
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	subjectRepo repos.SubjectRepo,
	questionRepo repos.QuestionRepo,
	attemptRepo repos.QuizAttemptRepo,
	practiceRepo repos.DailyPracticeRepo,
) QuizService {
	return &quizService{
		db:           db,
		log:          log.With("service", "QuizService"),
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		practiceRepo: practiceRepo,
		now:          time.Now,
		shuffle:      rand.Shuffle,
	}
}

func (qs *quizService) ListSubjects(dbc dbctx.Context) ([]*types.Subject, error) {
	subjects, err := qs.subjectRepo.List(dbc)
	if err != nil {
		return nil, apierr.Persistence("list subjects", err)
	}
	if len(subjects) == 0 {
		qs.log.Warn("No subjects found in database")
	}
	return subjects, nil
}

// RandomQuestions draws up to count questions from the first
// quiz.QuestionPoolLimit of the subject.
func (qs *quizService) RandomQuestions(dbc dbctx.Context, subjectID uuid.UUID, count int) ([]*types.Question, error) {
	if count <= 0 {
		return nil, apierr.Validation("Question count must be at least 1")
	}
	pool, err := qs.questionRepo.ListBySubject(dbc, subjectID, quiz.QuestionPoolLimit)
	if err != nil {
		return nil, apierr.Persistence("load questions", err)
	}
	qs.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count < len(pool) {
		pool = pool[:count]
	}
	return pool, nil
}

// History lists completed attempts newest first. subjectID == uuid.Nil means all.
func (qs *quizService) History(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.QuizAttempt, error) {
	attempts, err := qs.attemptRepo.ListCompleted(dbc, quiz.AttemptFilter{UserID: userID, SubjectID: subjectID})
	if err != nil {
		return nil, apierr.Persistence("load quiz history", err)
	}
	return attempts, nil
}

// RecordPractice folds a finished quiz into today's practice row. The merge
// happens in the database so concurrent submits for the same day converge.
func (qs *quizService) RecordPractice(dbc dbctx.Context, userID, subjectID uuid.UUID, questionsAttempted int, averageScore float64) (*types.DailyPractice, error) {
	today := learning.PracticeDate(qs.now())
	batch := &types.DailyPractice{
		UserID:             userID,
		SubjectID:          subjectID,
		PracticeDate:       today,
		QuestionsAttempted: questionsAttempted,
		AverageScore:       averageScore,
	}
	if err := qs.practiceRepo.Accumulate(dbc, batch); err != nil {
		return nil, apierr.Persistence("record daily practice", err)
	}
	row, err := qs.practiceRepo.GetForDay(dbc, userID, subjectID, today)
	if err != nil {
		return nil, apierr.Persistence("load daily practice", err)
	}
	if row == nil {
		return batch, nil
	}
	return row, nil
}
