package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

func TestSubjectAndQuestionRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := testutil.Logger(t)

	subjects := NewSubjectRepo(db, log)
	if _, err := subjects.Create(dbc, []*types.Subject{{Name: "Physics"}, {Name: "Chemistry"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := subjects.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Chemistry" {
		t.Fatalf("List: expected name order, got %+v", list)
	}

	questions := NewQuestionRepo(db, log)
	testutil.SeedQuestions(t, ctx, db, list[0].ID, 5, types.DifficultyEasy)
	testutil.SeedQuestions(t, ctx, db, list[1].ID, 2, types.DifficultyHard)

	pool, err := questions.ListBySubject(dbc, list[0].ID, 0)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(pool) != 5 {
		t.Fatalf("ListBySubject: want=5 got=%d", len(pool))
	}
	limited, err := questions.ListBySubject(dbc, list[0].ID, 3)
	if err != nil || len(limited) != 3 {
		t.Fatalf("ListBySubject(limit): got=%d err=%v", len(limited), err)
	}
}

func TestQuizAttemptRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := testutil.Logger(t)

	u := testutil.SeedUser(t, ctx, db, "attempts@example.com")
	s := testutil.SeedSubject(t, ctx, db, "Biology")
	repo := NewQuizAttemptRepo(db, log)

	created, err := repo.Create(dbc, []*types.QuizAttempt{{
		UserID:         u.ID,
		SubjectID:      s.ID,
		TotalQuestions: 4,
		StartedAt:      time.Now().UTC(),
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID

	completed, err := repo.ListCompleted(dbc, AttemptFilter{UserID: u.ID})
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("in-progress attempt leaked into completed list")
	}

	now := time.Now().UTC()
	if err := repo.Complete(dbc, id, 3, 75, now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := repo.Complete(dbc, id, 4, 100, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Complete twice: want ErrRecordNotFound got %v", err)
	}

	got, err := repo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if got[0].CorrectAnswers != 3 || got[0].Score != 75 || !got[0].Completed() {
		t.Fatalf("Complete: unexpected %+v", got[0])
	}

	completed, err = repo.ListCompleted(dbc, AttemptFilter{UserID: u.ID, SubjectID: s.ID})
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(completed) != 1 || completed[0].Subject == nil || completed[0].Subject.Name != "Biology" {
		t.Fatalf("ListCompleted: expected subject preloaded, got %+v", completed)
	}
}

func TestQuizAttemptRepoFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	u1 := testutil.SeedUser(t, ctx, db, "one@example.com")
	u2 := testutil.SeedUser(t, ctx, db, "two@example.com")
	s := testutil.SeedSubject(t, ctx, db, "Maths")
	now := time.Now().UTC()
	testutil.SeedCompletedAttempt(t, ctx, db, u1.ID, s.ID, 10, 5, now.Add(-40*24*time.Hour))
	testutil.SeedCompletedAttempt(t, ctx, db, u1.ID, s.ID, 10, 9, now.Add(-2*24*time.Hour))
	testutil.SeedCompletedAttempt(t, ctx, db, u2.ID, s.ID, 10, 10, now.Add(-1*time.Hour))

	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	since := now.Add(-7 * 24 * time.Hour)
	recent, err := repo.ListCompleted(dbc, AttemptFilter{UserID: u1.ID, Since: &since})
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(recent) != 1 || recent[0].CorrectAnswers != 9 {
		t.Fatalf("Since filter: unexpected %+v", recent)
	}

	top, err := repo.ListCompleted(dbc, AttemptFilter{ByScore: true, Limit: 2})
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(top) != 2 || top[0].Score != 100 || top[1].Score != 90 {
		t.Fatalf("ByScore: unexpected order %+v", top)
	}
}

func TestQuizResponseRepoIncorrect(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	u := testutil.SeedUser(t, ctx, db, "responses@example.com")
	s := testutil.SeedSubject(t, ctx, db, "History")
	qs := testutil.SeedQuestions(t, ctx, db, s.ID, 2, types.DifficultyMedium)
	now := time.Now().UTC()
	a := testutil.SeedCompletedAttempt(t, ctx, db, u.ID, s.ID, 2, 0, now)

	testutil.SeedResponse(t, ctx, db, a.ID, qs[0].ID, "B", false, now.Add(-10*24*time.Hour))
	testutil.SeedResponse(t, ctx, db, a.ID, qs[1].ID, "C", false, now.Add(-1*time.Hour))
	testutil.SeedResponse(t, ctx, db, a.ID, qs[1].ID, "A", true, now)

	repo := NewQuizResponseRepo(db, testutil.Logger(t))

	all, err := repo.ListIncorrect(dbc, []uuid.UUID{a.ID}, nil)
	if err != nil {
		t.Fatalf("ListIncorrect: %v", err)
	}
	if len(all) != 2 || all[0].QuestionID != qs[1].ID || all[0].Question == nil {
		t.Fatalf("ListIncorrect: unexpected %+v", all)
	}

	since := now.Add(-7 * 24 * time.Hour)
	recent, err := repo.ListIncorrect(dbc, []uuid.UUID{a.ID}, &since)
	if err != nil || len(recent) != 1 {
		t.Fatalf("ListIncorrect(since): got=%d err=%v", len(recent), err)
	}

	forQ, err := repo.ListForQuestions(dbc, []uuid.UUID{a.ID}, []uuid.UUID{qs[1].ID})
	if err != nil || len(forQ) != 2 {
		t.Fatalf("ListForQuestions: got=%d err=%v", len(forQ), err)
	}
}

func TestResourceBookRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	s := testutil.SeedSubject(t, ctx, db, "Economics")

	repo := NewResourceBookRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.ResourceBook{
		{SubjectID: s.ID, Title: "Active", IsActive: true},
		{SubjectID: s.ID, Title: "Hidden", IsActive: false},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := repo.ListActiveBySubject(dbc, s.ID)
	if err != nil {
		t.Fatalf("ListActiveBySubject: %v", err)
	}
	if len(active) != 1 || active[0].Title != "Active" {
		t.Fatalf("ListActiveBySubject: unexpected %+v", active)
	}

	if err := repo.UpdatePDFPath(dbc, created[0].ID, "x/y.pdf"); err != nil {
		t.Fatalf("UpdatePDFPath: %v", err)
	}
	if err := repo.UpdatePDFPath(dbc, uuid.New(), "x/y.pdf"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdatePDFPath(missing): want not found got %v", err)
	}
}
