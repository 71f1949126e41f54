package learning

import (
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

type MistakeFilter string

const (
	FilterAll      MistakeFilter = "all"
	FilterRecent   MistakeFilter = "recent"
	FilterFrequent MistakeFilter = "frequent"
)

type MistakeSort string

const (
	SortRecent     MistakeSort = "recent"
	SortFrequent   MistakeSort = "frequent"
	SortDifficulty MistakeSort = "difficulty"
)

// RecentWindow bounds the "recent" filter.
const RecentWindow = 7 * 24 * time.Hour

func ParseMistakeFilter(s string) MistakeFilter {
	switch MistakeFilter(s) {
	case FilterRecent, FilterFrequent:
		return MistakeFilter(s)
	default:
		return FilterAll
	}
}

func ParseMistakeSort(s string) MistakeSort {
	switch MistakeSort(s) {
	case SortFrequent, SortDifficulty:
		return MistakeSort(s)
	default:
		return SortRecent
	}
}

// Mistake is one question the user has answered wrongly at least once.
type Mistake struct {
	QuestionID      uuid.UUID        `json:"question_id"`
	QuestionText    string           `json:"question_text"`
	OptionA         string           `json:"option_a"`
	OptionB         string           `json:"option_b"`
	OptionC         string           `json:"option_c"`
	OptionD         string           `json:"option_d"`
	CorrectAnswer   string           `json:"correct_answer"`
	Explanation     string           `json:"explanation"`
	DifficultyLevel types.Difficulty `json:"difficulty_level"`
	TimesWrong      int              `json:"timesWrong"`
	WrongAnswers    []string         `json:"wrongAnswers"`
	AttemptDates    []time.Time      `json:"attemptDates"`
	LastAttempted   *time.Time       `json:"lastAttempted"`
	TotalAttempts   int              `json:"totalAttempts"`
	WrongAnswer     string           `json:"wrongAnswer"`
}

// AggregateMistakes groups incorrect responses by question, preserving the
// order in which questions are first seen. Responses without a loaded
// question are skipped. attemptCounts maps question id to the number of
// responses recorded for it; a missing entry falls back to TimesWrong.
func AggregateMistakes(incorrect []*types.QuizResponse, attemptCounts map[uuid.UUID]int) []*Mistake {
	byQuestion := map[uuid.UUID]*Mistake{}
	order := make([]*Mistake, 0)
	for _, r := range incorrect {
		if r == nil || r.Question == nil {
			continue
		}
		m, ok := byQuestion[r.QuestionID]
		if !ok {
			q := r.Question
			m = &Mistake{
				QuestionID:      r.QuestionID,
				QuestionText:    q.QuestionText,
				OptionA:         q.OptionA,
				OptionB:         q.OptionB,
				OptionC:         q.OptionC,
				OptionD:         q.OptionD,
				CorrectAnswer:   q.CorrectAnswer,
				Explanation:     q.Explanation,
				DifficultyLevel: q.DifficultyLevel,
				WrongAnswers:    []string{},
				AttemptDates:    []time.Time{},
			}
			byQuestion[r.QuestionID] = m
			order = append(order, m)
		}
		m.TimesWrong++
		m.WrongAnswers = append(m.WrongAnswers, r.SelectedAnswer)
		if !r.AnsweredAt.IsZero() {
			at := r.AnsweredAt
			m.AttemptDates = append(m.AttemptDates, at)
			if m.LastAttempted == nil || at.After(*m.LastAttempted) {
				m.LastAttempted = &at
			}
		}
	}
	for _, m := range order {
		m.TotalAttempts = m.TimesWrong
		if n, ok := attemptCounts[m.QuestionID]; ok && n > 0 {
			m.TotalAttempts = n
		}
		m.WrongAnswer = Mode(m.WrongAnswers)
	}
	return order
}

// Mode returns the most frequent value, breaking ties by first occurrence.
func Mode(values []string) string {
	if len(values) == 0 {
		return ""
	}
	counts := make(map[string]int, len(values))
	best, bestN := values[0], 0
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best
}

// FilterMistakes applies filter without reordering.
func FilterMistakes(in []*Mistake, filter MistakeFilter, now time.Time) []*Mistake {
	switch filter {
	case FilterFrequent:
		out := make([]*Mistake, 0, len(in))
		for _, m := range in {
			if m.TimesWrong > 1 {
				out = append(out, m)
			}
		}
		return out
	case FilterRecent:
		cutoff := now.Add(-RecentWindow)
		out := make([]*Mistake, 0, len(in))
		for _, m := range in {
			if m.LastAttempted != nil && !m.LastAttempted.Before(cutoff) {
				out = append(out, m)
			}
		}
		return out
	default:
		return in
	}
}

func difficultyRank(d types.Difficulty) int {
	switch d {
	case types.DifficultyHard:
		return 3
	case types.DifficultyMedium:
		return 2
	case types.DifficultyEasy:
		return 1
	default:
		return 0
	}
}

// SortMistakes orders in place with a stable sort.
func SortMistakes(in []*Mistake, by MistakeSort) {
	switch by {
	case SortFrequent:
		sort.SliceStable(in, func(i, j int) bool { return in[i].TimesWrong > in[j].TimesWrong })
	case SortDifficulty:
		sort.SliceStable(in, func(i, j int) bool {
			return difficultyRank(in[i].DifficultyLevel) > difficultyRank(in[j].DifficultyLevel)
		})
	default:
		sort.SliceStable(in, func(i, j int) bool {
			return lastOrZero(in[i]).After(lastOrZero(in[j]))
		})
	}
}

func lastOrZero(m *Mistake) time.Time {
	if m.LastAttempted == nil {
		return time.Time{}
	}
	return *m.LastAttempted
}

type SubjectMistakes struct {
	Total     int `json:"total"`
	Incorrect int `json:"incorrect"`
}

type MistakeSummary struct {
	TotalMistakes int                            `json:"totalMistakes"`
	MistakeRate   float64                        `json:"mistakeRate"`
	BySubject     map[uuid.UUID]*SubjectMistakes `json:"bySubject"`
}

// SummarizeMistakes counts responses per subject. subjectOf maps attempt id
// to subject id; responses for unknown attempts only count toward totals.
func SummarizeMistakes(responses []*types.QuizResponse, subjectOf map[uuid.UUID]uuid.UUID) MistakeSummary {
	out := MistakeSummary{BySubject: map[uuid.UUID]*SubjectMistakes{}}
	total := 0
	for _, r := range responses {
		if r == nil {
			continue
		}
		total++
		if !r.IsCorrect {
			out.TotalMistakes++
		}
		subj, ok := subjectOf[r.QuizAttemptID]
		if !ok {
			continue
		}
		bucket := out.BySubject[subj]
		if bucket == nil {
			bucket = &SubjectMistakes{}
			out.BySubject[subj] = bucket
		}
		bucket.Total++
		if !r.IsCorrect {
			bucket.Incorrect++
		}
	}
	if total > 0 {
		out.MistakeRate = Round2(float64(out.TotalMistakes) / float64(total) * 100)
	}
	return out
}
