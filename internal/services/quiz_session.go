package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/domain/notify"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/observability"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// QuestionView is a question as a quiz taker sees it.
type QuestionView struct {
	ID              uuid.UUID        `json:"id"`
	QuestionText    string           `json:"question_text"`
	OptionA         string           `json:"option_a"`
	OptionB         string           `json:"option_b"`
	OptionC         string           `json:"option_c"`
	OptionD         string           `json:"option_d"`
	DifficultyLevel types.Difficulty `json:"difficulty_level"`
}

type QuizSessionView struct {
	AttemptID uuid.UUID            `json:"attempt_id"`
	SubjectID uuid.UUID            `json:"subject_id"`
	Questions []QuestionView       `json:"questions"`
	Answers   map[uuid.UUID]string `json:"answers"`
	StartedAt time.Time            `json:"started_at"`
}

func viewOf(s *QuizSession) *QuizSessionView {
	v := &QuizSessionView{
		AttemptID: s.AttemptID,
		SubjectID: s.SubjectID,
		Questions: make([]QuestionView, 0, len(s.Questions)),
		Answers:   map[uuid.UUID]string{},
		StartedAt: s.StartedAt,
	}
	for _, q := range s.Questions {
		if q == nil {
			continue
		}
		v.Questions = append(v.Questions, QuestionView{
			ID:              q.ID,
			QuestionText:    q.QuestionText,
			OptionA:         q.OptionA,
			OptionB:         q.OptionB,
			OptionC:         q.OptionC,
			OptionD:         q.OptionD,
			DifficultyLevel: q.DifficultyLevel,
		})
	}
	for k, a := range s.Answers {
		v.Answers[k] = a
	}
	return v
}

// ResponseOutcome is the fate of one response write during submit.
type ResponseOutcome struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	Persisted      bool      `json:"persisted"`
	Error          string    `json:"error,omitempty"`
}

type SubmitResult struct {
	Attempt   *types.QuizAttempt `json:"attempt"`
	Total     int                `json:"total"`
	Correct   int                `json:"correct"`
	Score     float64            `json:"score"`
	Responses []ResponseOutcome  `json:"responses"`
}

// SubmitError reports a submit that stopped at its first failed write. The
// attempt stays open and responses already written are kept.
type SubmitError struct {
	Outcomes []ResponseOutcome
	Err      *apierr.Error
}

func (e *SubmitError) Error() string { return e.Err.Error() }

func (e *SubmitError) Unwrap() error { return e.Err }

// ErrorDetails exposes the partial outcome list to the response envelope.
func (e *SubmitError) ErrorDetails() any {
	return map[string]any{"responses": e.Outcomes}
}

type QuizSessionService interface {
	Start(dbc dbctx.Context, subjectID uuid.UUID, count int) (*QuizSessionView, error)
	Current(dbc dbctx.Context) (*QuizSessionView, error)
	Answer(dbc dbctx.Context, questionID uuid.UUID, selected string) (*QuizSessionView, error)
	Submit(dbc dbctx.Context) (*SubmitResult, error)
	Reset(dbc dbctx.Context) error
}

type quizSessionService struct {
	db            *gorm.DB
	log           *logger.Logger
	store         QuizSessionStore
	quiz          QuizService
	notifications NotificationService
	attemptRepo   repos.QuizAttemptRepo
	responseRepo  repos.QuizResponseRepo
	now           func() time.Time
}

func NewQuizSessionService(
	db *gorm.DB,
	log *logger.Logger,
	store QuizSessionStore,
	quiz QuizService,
	notifications NotificationService,
	attemptRepo repos.QuizAttemptRepo,
	responseRepo repos.QuizResponseRepo,
) QuizSessionService {
	if store == nil {
		store = NewMemoryQuizSessionStore()
	}
	return &quizSessionService{
		db:            db,
		log:           log.With("service", "QuizSessionService"),
		store:         store,
		quiz:          quiz,
		notifications: notifications,
		attemptRepo:   attemptRepo,
		responseRepo:  responseRepo,
		now:           time.Now,
	}
}

func callerID(dbc dbctx.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(dbc.Ctx)
	if id == uuid.Nil {
		return uuid.Nil, errNoRequestData
	}
	return id, nil
}

func (qs *quizSessionService) load(dbc dbctx.Context) (*QuizSession, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	s, err := qs.store.Get(dbc.Ctx, userID)
	if err != nil {
		return nil, apierr.Persistence("load quiz session", err)
	}
	if s == nil {
		return nil, errNoActiveAttempt
	}
	return s, nil
}

// Start opens a new attempt and replaces any session the caller had.
func (qs *quizSessionService) Start(dbc dbctx.Context, subjectID uuid.UUID, count int) (*QuizSessionView, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	questions, err := qs.quiz.RandomQuestions(dbc, subjectID, count)
	if err != nil {
		return nil, err
	}

	now := qs.now().UTC()
	attempt := &types.QuizAttempt{
		UserID:         userID,
		SubjectID:      subjectID,
		TotalQuestions: len(questions),
		StartedAt:      now,
	}
	if _, err := qs.attemptRepo.Create(dbc, []*types.QuizAttempt{attempt}); err != nil {
		return nil, apierr.Persistence("create quiz attempt", err)
	}

	s := &QuizSession{
		UserID:    userID,
		AttemptID: attempt.ID,
		SubjectID: subjectID,
		Questions: questions,
		Answers:   map[uuid.UUID]string{},
		Persisted: map[uuid.UUID]bool{},
		StartedAt: now,
	}
	if err := qs.store.Put(dbc.Ctx, s); err != nil {
		return nil, apierr.Persistence("store quiz session", err)
	}
	qs.log.Debug("Quiz started", "user_id", userID, "attempt_id", attempt.ID, "questions", len(questions))
	return viewOf(s), nil
}

func (qs *quizSessionService) Current(dbc dbctx.Context) (*QuizSessionView, error) {
	s, err := qs.load(dbc)
	if err != nil {
		return nil, err
	}
	return viewOf(s), nil
}

// Answer records a selection. questionID is not checked against the
// session's questions; unknown ids are simply never graded.
func (qs *quizSessionService) Answer(dbc dbctx.Context, questionID uuid.UUID, selected string) (*QuizSessionView, error) {
	s, err := qs.load(dbc)
	if err != nil {
		return nil, err
	}
	s.Answers[questionID] = selected
	if err := qs.store.Put(dbc.Ctx, s); err != nil {
		return nil, apierr.Persistence("store quiz session", err)
	}
	return viewOf(s), nil
}

// Submit grades the session and writes one response per question in order,
// then completes the attempt and folds it into daily practice.
func (qs *quizSessionService) Submit(dbc dbctx.Context) (*SubmitResult, error) {
	s, err := qs.load(dbc)
	if err != nil {
		return nil, err
	}

	graded, correct := learning.Grade(s.Questions, s.Answers)
	total := len(graded)
	score := learning.Score(correct, total)

	outcomes := make([]ResponseOutcome, 0, total)
	for _, g := range graded {
		outcomes = append(outcomes, ResponseOutcome{
			QuestionID:     g.QuestionID,
			SelectedAnswer: g.SelectedAnswer,
			IsCorrect:      g.IsCorrect,
			Persisted:      s.Persisted[g.QuestionID],
		})
	}

	for i := range outcomes {
		o := &outcomes[i]
		if o.Persisted {
			continue
		}
		resp := &types.QuizResponse{
			QuizAttemptID:  s.AttemptID,
			QuestionID:     o.QuestionID,
			SelectedAnswer: o.SelectedAnswer,
			IsCorrect:      o.IsCorrect,
			AnsweredAt:     qs.now().UTC(),
		}
		if _, err := qs.responseRepo.Create(dbc, []*types.QuizResponse{resp}); err != nil {
			o.Error = err.Error()
			return nil, qs.failSubmit(dbc, s, outcomes, apierr.Persistence("save quiz response", err))
		}
		o.Persisted = true
		s.Persisted[o.QuestionID] = true
	}

	completedAt := qs.now().UTC()
	if err := qs.attemptRepo.Complete(dbc, s.AttemptID, correct, score, completedAt); err != nil {
		if isNotFound(err) {
			_ = qs.store.Delete(dbc.Ctx, s.UserID)
			return nil, errNoActiveAttempt
		}
		return nil, qs.failSubmit(dbc, s, outcomes, apierr.Persistence("complete quiz attempt", err))
	}
	if _, err := qs.quiz.RecordPractice(dbc, s.UserID, s.SubjectID, total, score); err != nil {
		qs.log.Warn("Daily practice update failed", "user_id", s.UserID, "attempt_id", s.AttemptID, "error", err)
	}
	if err := qs.store.Delete(dbc.Ctx, s.UserID); err != nil {
		qs.log.Warn("Failed to clear quiz session", "user_id", s.UserID, "error", err)
	}

	perfect := total > 0 && score == 100
	if metrics := observability.Current(); metrics != nil {
		outcome := "completed"
		if perfect {
			outcome = "perfect"
		}
		metrics.IncQuizSubmission(outcome)
	}

	if perfect && qs.notifications != nil {
		_, nErr := qs.notifications.Create(dbc, NewNotification{
			UserID:   s.UserID,
			Type:     notify.TypePerfectScore,
			Title:    "Perfect Score!",
			Message:  "You answered every question correctly. Keep it up!",
			Icon:     "⭐",
			Metadata: map[string]any{"quiz_attempt_id": s.AttemptID.String()},
		})
		if nErr != nil {
			qs.log.Warn("Perfect score notification failed", "user_id", s.UserID, "error", nErr)
		}
	}

	attempt := &types.QuizAttempt{
		ID:             s.AttemptID,
		UserID:         s.UserID,
		SubjectID:      s.SubjectID,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
		StartedAt:      s.StartedAt,
		CompletedAt:    &completedAt,
	}
	return &SubmitResult{
		Attempt:   attempt,
		Total:     total,
		Correct:   correct,
		Score:     score,
		Responses: outcomes,
	}, nil
}

// failSubmit remembers what was written so a retry skips it.
func (qs *quizSessionService) failSubmit(dbc dbctx.Context, s *QuizSession, outcomes []ResponseOutcome, cause *apierr.Error) error {
	if err := qs.store.Put(dbc.Ctx, s); err != nil {
		qs.log.Warn("Failed to save partial submit state", "user_id", s.UserID, "error", err)
	}
	qs.log.Warn("Quiz submit stopped", "user_id", s.UserID, "attempt_id", s.AttemptID, "error", cause)
	if metrics := observability.Current(); metrics != nil {
		metrics.IncQuizSubmission("failed")
	}
	return &SubmitError{Outcomes: outcomes, Err: cause}
}

func (qs *quizSessionService) Reset(dbc dbctx.Context) error {
	userID, err := callerID(dbc)
	if err != nil {
		return err
	}
	if err := qs.store.Delete(dbc.Ctx, userID); err != nil {
		return apierr.Persistence("clear quiz session", err)
	}
	return nil
}
