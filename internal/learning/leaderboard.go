package learning

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

const (
	LeaderboardPool = 100
	LeaderboardSize = 10
)

type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Subject       string    `json:"subject"`
	AverageScore  float64   `json:"averageScore"`
	TotalAttempts int       `json:"totalAttempts"`
}

// DisplayName is the anonymised label shown for a user on the leaderboard.
func DisplayName(id uuid.UUID) string {
	return "User " + id.String()[:8]
}

// Leaderboard groups the top attempts by user, averages their scores and
// keeps the best LeaderboardSize users.
func Leaderboard(attempts []*types.QuizAttempt) []LeaderboardEntry {
	type acc struct {
		entry LeaderboardEntry
		sum   float64
	}
	byUser := map[uuid.UUID]*acc{}
	order := make([]*acc, 0)
	for _, a := range attempts {
		if a == nil {
			continue
		}
		u := byUser[a.UserID]
		if u == nil {
			subject := "All Subjects"
			if a.Subject != nil && a.Subject.Name != "" {
				subject = a.Subject.Name
			}
			u = &acc{entry: LeaderboardEntry{UserID: a.UserID, Name: DisplayName(a.UserID), Subject: subject}}
			byUser[a.UserID] = u
			order = append(order, u)
		}
		u.sum += a.Score
		u.entry.TotalAttempts++
	}
	out := make([]LeaderboardEntry, 0, len(order))
	for _, u := range order {
		u.entry.AverageScore = u.sum / float64(u.entry.TotalAttempts)
		out = append(out, u.entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}
