package learning

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

func TestLeaderboardAveragesPerUser(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	history := &types.Subject{Name: "History"}
	attempts := []*types.QuizAttempt{
		{UserID: alice, Score: 100, Subject: history},
		{UserID: bob, Score: 90},
		{UserID: alice, Score: 60},
	}
	got := Leaderboard(attempts)
	if len(got) != 2 {
		t.Fatalf("len: want=2 got=%d", len(got))
	}
	if got[0].UserID != bob || got[0].AverageScore != 90 || got[0].Subject != "All Subjects" {
		t.Fatalf("first entry: %+v", got[0])
	}
	if got[1].UserID != alice || got[1].AverageScore != 80 || got[1].TotalAttempts != 2 || got[1].Subject != "History" {
		t.Fatalf("second entry: %+v", got[1])
	}
	if !strings.HasPrefix(got[1].Name, "User ") || len(got[1].Name) != len("User ")+8 {
		t.Fatalf("display name: %q", got[1].Name)
	}
}

func TestLeaderboardKeepsTopTen(t *testing.T) {
	attempts := make([]*types.QuizAttempt, 0, 15)
	for i := 0; i < 15; i++ {
		attempts = append(attempts, &types.QuizAttempt{UserID: uuid.New(), Score: float64(i)})
	}
	got := Leaderboard(attempts)
	if len(got) != LeaderboardSize {
		t.Fatalf("len: want=%d got=%d", LeaderboardSize, len(got))
	}
	if got[0].AverageScore != 14 || got[LeaderboardSize-1].AverageScore != 5 {
		t.Fatalf("ordering: first=%v last=%v", got[0].AverageScore, got[LeaderboardSize-1].AverageScore)
	}
}
