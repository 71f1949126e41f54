package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

var analyticsNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type analyticsHarness struct {
	f    *fixture
	svc  *analyticsService
	user *types.User
	subj *types.Subject
	qs   []*types.Question
}

// newAnalyticsHarness seeds two completed attempts and one open one:
//
//	2 days ago:  q0 wrong (B), q1 right
//	10 days ago: q0 wrong (C), q2 wrong (D)
//	open:        q1 wrong, must never count
func newAnalyticsHarness(t *testing.T) *analyticsHarness {
	t.Helper()
	f := newFixture(t)
	ctx := dbctx.New(nil).Ctx
	user := testutil.SeedUser(t, ctx, f.db, "stats@example.com")
	subj := testutil.SeedSubject(t, ctx, f.db, "Chemistry")
	qs := testutil.SeedQuestions(t, ctx, f.db, subj.ID, 3, types.DifficultyMedium)

	recent := analyticsNow.AddDate(0, 0, -2)
	a1 := testutil.SeedCompletedAttempt(t, ctx, f.db, user.ID, subj.ID, 2, 1, recent)
	testutil.SeedResponse(t, ctx, f.db, a1.ID, qs[0].ID, "B", false, recent)
	testutil.SeedResponse(t, ctx, f.db, a1.ID, qs[1].ID, "A", true, recent)

	old := analyticsNow.AddDate(0, 0, -10)
	a2 := testutil.SeedCompletedAttempt(t, ctx, f.db, user.ID, subj.ID, 2, 0, old)
	testutil.SeedResponse(t, ctx, f.db, a2.ID, qs[0].ID, "C", false, old)
	testutil.SeedResponse(t, ctx, f.db, a2.ID, qs[2].ID, "D", false, old)

	open := &types.QuizAttempt{UserID: user.ID, SubjectID: subj.ID, TotalQuestions: 1, StartedAt: analyticsNow}
	if _, err := f.attempts.Create(dbctx.New(ctx), []*types.QuizAttempt{open}); err != nil {
		t.Fatalf("seed open attempt: %v", err)
	}
	testutil.SeedResponse(t, ctx, f.db, open.ID, qs[1].ID, "B", false, analyticsNow)

	svc := NewAnalyticsService(f.db, f.log, f.attempts, f.responses, f.practice, nil).(*analyticsService)
	svc.now = fixedClock(analyticsNow)
	return &analyticsHarness{f: f, svc: svc, user: user, subj: subj, qs: qs}
}

func TestMistakesRequiresSubject(t *testing.T) {
	h := newAnalyticsHarness(t)
	_, err := h.svc.Mistakes(as(h.user.ID), MistakeQuery{UserID: h.user.ID})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestMistakesAggregatesCompletedAttempts(t *testing.T) {
	h := newAnalyticsHarness(t)
	got, err := h.svc.Mistakes(as(h.user.ID), MistakeQuery{
		UserID:    h.user.ID,
		SubjectID: h.subj.ID,
		Filter:    learning.FilterAll,
		Sort:      learning.SortFrequent,
	})
	if err != nil {
		t.Fatalf("mistakes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 mistaken questions, got %d", len(got))
	}
	top := got[0]
	if top.QuestionID != h.qs[0].ID || top.TimesWrong != 2 || top.TotalAttempts != 2 {
		t.Fatalf("unexpected top mistake: %+v", top)
	}
	for _, m := range got {
		if m.QuestionID == h.qs[1].ID {
			t.Fatalf("open attempt leaked into mistakes")
		}
	}
}

func TestMistakesFilters(t *testing.T) {
	h := newAnalyticsHarness(t)
	cases := []struct {
		filter learning.MistakeFilter
		want   []uuid.UUID
	}{
		{learning.FilterRecent, []uuid.UUID{h.qs[0].ID}},
		{learning.FilterFrequent, []uuid.UUID{h.qs[0].ID}},
	}
	for _, tc := range cases {
		got, err := h.svc.Mistakes(as(h.user.ID), MistakeQuery{UserID: h.user.ID, SubjectID: h.subj.ID, Filter: tc.filter})
		if err != nil {
			t.Fatalf("%s: %v", tc.filter, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d mistakes want %d", tc.filter, len(got), len(tc.want))
		}
		for i, id := range tc.want {
			if got[i].QuestionID != id {
				t.Fatalf("%s: mistake %d = %s want %s", tc.filter, i, got[i].QuestionID, id)
			}
		}
	}

	recent, _ := h.svc.Mistakes(as(h.user.ID), MistakeQuery{UserID: h.user.ID, SubjectID: h.subj.ID, Filter: learning.FilterRecent})
	if recent[0].TimesWrong != 1 {
		t.Fatalf("recent filter should only count responses inside the window, got %d", recent[0].TimesWrong)
	}
}

func TestMistakeSummary(t *testing.T) {
	h := newAnalyticsHarness(t)
	sum, err := h.svc.MistakeSummary(as(h.user.ID), h.user.ID, uuid.Nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalMistakes != 3 || sum.MistakeRate != 75 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	bucket := sum.BySubject[h.subj.ID]
	if bucket == nil || bucket.Total != 4 || bucket.Incorrect != 3 {
		t.Fatalf("unexpected subject bucket: %+v", bucket)
	}

	none, err := h.svc.MistakeSummary(as(h.user.ID), uuid.New(), uuid.Nil)
	if err != nil || none.TotalMistakes != 0 || none.BySubject == nil {
		t.Fatalf("empty summary: %+v err=%v", none, err)
	}
}

func TestLeaderboardRanksByAverage(t *testing.T) {
	h := newAnalyticsHarness(t)
	ctx := dbctx.New(nil).Ctx
	rival := testutil.SeedUser(t, ctx, h.f.db, "rival@example.com")
	testutil.SeedCompletedAttempt(t, ctx, h.f.db, rival.ID, h.subj.ID, 4, 4, analyticsNow)

	board, err := h.svc.Leaderboard(as(h.user.ID), h.subj.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("entries=%d want 2", len(board))
	}
	if board[0].UserID != rival.ID || board[0].AverageScore != 100 || board[0].Subject != "Chemistry" {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
	if board[1].TotalAttempts != 2 || board[1].AverageScore != 25 {
		t.Fatalf("unexpected runner-up: %+v", board[1])
	}
	if board[0].Name != learning.DisplayName(rival.ID) {
		t.Fatalf("leaderboard must not expose real names: %q", board[0].Name)
	}
}

func TestStreakAndDailyPractice(t *testing.T) {
	h := newAnalyticsHarness(t)
	ctx := dbctx.New(nil).Ctx
	for _, d := range []string{"2026-05-20", "2026-05-19", "2026-05-17"} {
		testutil.SeedPractice(t, ctx, h.f.db, h.user.ID, h.subj.ID, d, 5, 80)
	}

	streak, err := h.svc.Streak(as(h.user.ID), h.user.ID, h.subj.ID)
	if err != nil || streak != 2 {
		t.Fatalf("streak=%d err=%v want 2", streak, err)
	}
	rows, err := h.svc.DailyPractice(as(h.user.ID), h.user.ID, uuid.Nil)
	if err != nil || len(rows) != 3 {
		t.Fatalf("rows=%d err=%v", len(rows), err)
	}
	if rows[0].PracticeDate != "2026-05-20" {
		t.Fatalf("expected newest first, got %s", rows[0].PracticeDate)
	}
}
