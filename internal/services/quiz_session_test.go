package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

// flakyResponses fails every Create after the first ok calls.
type flakyResponses struct {
	repos.QuizResponseRepo
	ok    int
	calls int
}

func (f *flakyResponses) Create(dbc dbctx.Context, rs []*types.QuizResponse) ([]*types.QuizResponse, error) {
	f.calls++
	if f.calls > f.ok {
		return nil, errors.New("connection reset")
	}
	return f.QuizResponseRepo.Create(dbc, rs)
}

type sessionHarness struct {
	f     *fixture
	quiz  *quizService
	svc   *quizSessionService
	user  *types.User
	subj  *types.Subject
	qs    []*types.Question
	notes NotificationService
}

func newSessionHarness(t *testing.T) *sessionHarness {
	t.Helper()
	f := newFixture(t)
	dbc := dbctx.New(nil)
	user := testutil.SeedUser(t, dbc.Ctx, f.db, "quiz@example.com")
	subj := testutil.SeedSubject(t, dbc.Ctx, f.db, "Biology")
	qs := testutil.SeedQuestions(t, dbc.Ctx, f.db, subj.ID, 4, types.DifficultyEasy)

	quiz := NewQuizService(f.db, f.log, f.subjects, f.questions, f.attempts, f.practice).(*quizService)
	quiz.shuffle = func(int, func(i, j int)) {}
	notes := NewNotificationService(f.db, f.log, f.notes)
	svc := NewQuizSessionService(f.db, f.log, NewMemoryQuizSessionStore(), quiz, notes, f.attempts, f.responses).(*quizSessionService)
	return &sessionHarness{f: f, quiz: quiz, svc: svc, user: user, subj: subj, qs: qs, notes: notes}
}

func TestSubmitWithoutSession(t *testing.T) {
	h := newSessionHarness(t)
	_, err := h.svc.Submit(as(h.user.ID))
	ae, ok := apierr.As(err)
	if !ok || ae.Code != apierr.CodeNoActiveQuiz {
		t.Fatalf("expected no_active_attempt, got %v", err)
	}
	if _, err := h.svc.Answer(as(h.user.ID), uuid.New(), "A"); !errors.Is(err, errNoActiveAttempt) {
		t.Fatalf("answer without session: %v", err)
	}
}

func TestStartHidesAnswersAndReplacesSession(t *testing.T) {
	h := newSessionHarness(t)
	dbc := as(h.user.ID)

	first, err := h.svc.Start(dbc, h.subj.ID, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(first.Questions) != 2 {
		t.Fatalf("questions=%d want 2", len(first.Questions))
	}
	second, err := h.svc.Start(dbc, h.subj.ID, 10)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if second.AttemptID == first.AttemptID || len(second.Questions) != 4 {
		t.Fatalf("expected a fresh attempt over the whole pool, got %+v", second)
	}
	cur, err := h.svc.Current(dbc)
	if err != nil || cur.AttemptID != second.AttemptID {
		t.Fatalf("current=%v err=%v", cur, err)
	}

	attempts, err := h.f.attempts.GetByIDs(dbc, []uuid.UUID{second.AttemptID})
	if err != nil || len(attempts) != 1 {
		t.Fatalf("attempt lookup: %v", err)
	}
	a := attempts[0]
	if a.Completed() || a.TotalQuestions != 4 || a.CorrectAnswers != 0 || a.Score != 0 {
		t.Fatalf("unexpected new attempt: %+v", a)
	}
}

func TestSubmitGradesAndMergesPractice(t *testing.T) {
	h := newSessionHarness(t)
	dbc := as(h.user.ID)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	h.quiz.now = fixedClock(now)

	testutil.SeedPractice(t, dbc.Ctx, h.f.db, h.user.ID, h.subj.ID, "2026-03-10", 4, 100)

	if _, err := h.svc.Start(dbc, h.subj.ID, 4); err != nil {
		t.Fatalf("start: %v", err)
	}
	// "a" differs from "A": grading is exact
	answers := []string{"A", "B", "a"}
	for i, ans := range answers {
		if _, err := h.svc.Answer(dbc, h.qs[i].ID, ans); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	res, err := h.svc.Submit(dbc)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Total != 4 || res.Correct != 1 || res.Score != 25 {
		t.Fatalf("unexpected result: total=%d correct=%d score=%v", res.Total, res.Correct, res.Score)
	}
	for _, o := range res.Responses {
		if o.QuestionID == h.qs[3].ID && (o.SelectedAnswer != "" || o.IsCorrect) {
			t.Fatalf("unanswered question should be graded as empty: %+v", o)
		}
	}

	stored, err := h.f.responses.ListByAttemptIDs(dbc, []uuid.UUID{res.Attempt.ID})
	if err != nil || len(stored) != 4 {
		t.Fatalf("responses stored=%d err=%v", len(stored), err)
	}
	attempts, _ := h.f.attempts.GetByIDs(dbc, []uuid.UUID{res.Attempt.ID})
	if !attempts[0].Completed() || attempts[0].CorrectAnswers != 1 {
		t.Fatalf("attempt not completed: %+v", attempts[0])
	}

	row, err := h.f.practice.GetForDay(dbc, h.user.ID, h.subj.ID, "2026-03-10")
	if err != nil || row == nil {
		t.Fatalf("practice row: %v", err)
	}
	// (100*4 + 25*4) / 8
	if row.QuestionsAttempted != 8 || row.AverageScore != 62.5 {
		t.Fatalf("merged practice = %d/%v", row.QuestionsAttempted, row.AverageScore)
	}

	if _, err := h.svc.Current(dbc); !errors.Is(err, errNoActiveAttempt) {
		t.Fatalf("session should be cleared, got %v", err)
	}
}

func TestPerfectScoreNotifies(t *testing.T) {
	h := newSessionHarness(t)
	dbc := as(h.user.ID)
	if _, err := h.svc.Start(dbc, h.subj.ID, 2); err != nil {
		t.Fatalf("start: %v", err)
	}
	cur, _ := h.svc.Current(dbc)
	for _, q := range cur.Questions {
		if _, err := h.svc.Answer(dbc, q.ID, "A"); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	res, err := h.svc.Submit(dbc)
	if err != nil || res.Score != 100 {
		t.Fatalf("submit: %v score=%v", err, res)
	}
	notes, err := h.notes.List(dbc, h.user.ID)
	if err != nil || len(notes) != 1 || notes[0].Type != "perfect_score" {
		t.Fatalf("expected one perfect_score notification, got %v (%v)", notes, err)
	}
}

func TestSubmitStopsAtFirstFailureAndResumes(t *testing.T) {
	flaky := &flakyResponses{ok: 2}
	h := newSessionHarness(t)
	flaky.QuizResponseRepo = h.f.responses
	h.svc.responseRepo = flaky
	dbc := as(h.user.ID)

	start, err := h.svc.Start(dbc, h.subj.ID, 4)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err = h.svc.Submit(dbc)
	var se *SubmitError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SubmitError, got %T %v", err, err)
	}
	if statusOf(t, err) != http.StatusInternalServerError {
		t.Fatalf("expected persistence error status")
	}
	if len(se.Outcomes) != 4 || !se.Outcomes[1].Persisted || se.Outcomes[2].Persisted || se.Outcomes[2].Error == "" || se.Outcomes[3].Persisted {
		t.Fatalf("unexpected outcomes: %+v", se.Outcomes)
	}
	attempts, _ := h.f.attempts.GetByIDs(dbc, []uuid.UUID{start.AttemptID})
	if attempts[0].Completed() {
		t.Fatalf("attempt must stay open after a failed submit")
	}

	flaky.ok = 100
	res, err := h.svc.Submit(dbc)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("total=%d", res.Total)
	}
	stored, _ := h.f.responses.ListByAttemptIDs(dbc, []uuid.UUID{start.AttemptID})
	if len(stored) != 4 {
		t.Fatalf("retry must not duplicate responses, stored=%d", len(stored))
	}
}

func TestStartRequiresCaller(t *testing.T) {
	h := newSessionHarness(t)
	if _, err := h.svc.Start(dbctx.New(nil), h.subj.ID, 1); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if _, err := h.svc.Start(as(h.user.ID), h.subj.ID, 0); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero count, got %v", err)
	}
}
