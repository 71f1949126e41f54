package learning

import (
	_ "embed"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

type Metric string

const (
	MetricQuizzes       Metric = "quizzes"
	MetricQuestions     Metric = "questions"
	MetricPerfectScores Metric = "perfect_scores"
	MetricHighScores    Metric = "high_scores"
	MetricStreak        Metric = "streak"
	MetricPracticeDays  Metric = "practice_days"
	MetricSubjects      Metric = "subjects"
)

// AchievementRule is one catalog entry.
type AchievementRule struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Icon         string `yaml:"icon"`
	Metric       Metric `yaml:"metric"`
	Target       int    `yaml:"target"`
	ProgressText string `yaml:"progress_text"`
	// EmptyText replaces ProgressText when the user has no completed quizzes.
	EmptyText string `yaml:"empty_text"`
}

type Achievement struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	Unlocked     bool       `json:"unlocked"`
	Progress     float64    `json:"progress"`
	ProgressText string     `json:"progressText"`
	UnlockedAt   *time.Time `json:"unlocked_at"`
}

// AchievementStats are the raw counters achievements are evaluated against.
type AchievementStats struct {
	Quizzes       int
	Questions     int
	PerfectScores int
	HighScores    int
	Streak        int
	PracticeDays  int
	Subjects      int
}

func (s AchievementStats) value(m Metric) int {
	switch m {
	case MetricQuizzes:
		return s.Quizzes
	case MetricQuestions:
		return s.Questions
	case MetricPerfectScores:
		return s.PerfectScores
	case MetricHighScores:
		return s.HighScores
	case MetricStreak:
		return s.Streak
	case MetricPracticeDays:
		return s.PracticeDays
	case MetricSubjects:
		return s.Subjects
	default:
		return 0
	}
}

//go:embed achievements.yaml
var achievementsYAML []byte

var (
	catalogOnce sync.Once
	catalog     []AchievementRule
	catalogErr  error
)

// Catalog returns the embedded achievement rules in display order.
func Catalog() ([]AchievementRule, error) {
	catalogOnce.Do(func() {
		catalog, catalogErr = ParseCatalog(achievementsYAML)
	})
	return catalog, catalogErr
}

func ParseCatalog(raw []byte) ([]AchievementRule, error) {
	var rules []AchievementRule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse achievement catalog: %w", err)
	}
	for i, r := range rules {
		if r.ID == "" || r.Target <= 0 {
			return nil, fmt.Errorf("achievement %d: id and positive target required", i)
		}
	}
	return rules, nil
}

// CollectStats derives counters from completed attempts and the user's
// practice dates (newest first).
func CollectStats(attempts []*types.QuizAttempt, practiceDates []string, now time.Time) AchievementStats {
	stats := AchievementStats{
		Streak:       Streak(practiceDates, now),
		PracticeDays: len(practiceDates),
	}
	subjects := map[uuid.UUID]struct{}{}
	for _, a := range attempts {
		if a == nil {
			continue
		}
		stats.Quizzes++
		stats.Questions += a.TotalQuestions
		if a.Score == 100 {
			stats.PerfectScores++
		}
		if a.Score >= 90 {
			stats.HighScores++
		}
		subjects[a.SubjectID] = struct{}{}
	}
	stats.Subjects = len(subjects)
	return stats
}

// Evaluate turns stats into the achievement list. UnlockedAt is stamped with
// now for every unlocked entry because first-unlock times are not recorded.
func Evaluate(rules []AchievementRule, stats AchievementStats, now time.Time) []Achievement {
	out := make([]Achievement, 0, len(rules))
	for _, r := range rules {
		v := stats.value(r.Metric)
		a := Achievement{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			Icon:         r.Icon,
			Unlocked:     v >= r.Target,
			Progress:     math.Min(100, float64(v)*100/float64(r.Target)),
			ProgressText: fmt.Sprintf(r.ProgressText, v),
		}
		if r.EmptyText != "" && stats.Quizzes == 0 {
			a.Unlocked = false
			a.Progress = 0
			a.ProgressText = r.EmptyText
		}
		if a.Unlocked {
			at := now.UTC()
			a.UnlockedAt = &at
		}
		out = append(out, a)
	}
	return out
}
