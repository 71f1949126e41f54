package learning

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	Period3Months Period = "3months"
	PeriodAll     Period = "all"
)

// RecentActivityN caps the recent activity list of a report.
const RecentActivityN = 10

func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek, Period3Months, PeriodAll:
		return Period(s)
	default:
		return PeriodMonth
	}
}

// Range returns the [start, end] window for p ending at now. "all" keeps the
// time of day and moves the year back to 2020.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	end := now.UTC()
	switch p {
	case PeriodWeek:
		return end.AddDate(0, 0, -7), end
	case Period3Months:
		return end.AddDate(0, -3, 0), end
	case PeriodAll:
		return time.Date(2020, end.Month(), end.Day(), end.Hour(), end.Minute(), end.Second(), end.Nanosecond(), time.UTC), end
	default:
		return end.AddDate(0, -1, 0), end
	}
}

type SubjectBreakdown struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Quizzes      int       `json:"quizzes"`
	Questions    int       `json:"questions"`
	TotalScore   float64   `json:"totalScore"`
	Mistakes     int       `json:"mistakes"`
	AverageScore float64   `json:"averageScore"`
}

type Activity struct {
	ID          uuid.UUID  `json:"id"`
	SubjectName string     `json:"subject_name"`
	Date        *time.Time `json:"date"`
	Score       float64    `json:"score"`
	Questions   int        `json:"questions"`
}

type ProgressReport struct {
	Period           Period              `json:"period"`
	TotalQuizzes     int                 `json:"totalQuizzes"`
	TotalQuestions   int                 `json:"totalQuestions"`
	AverageScore     float64             `json:"averageScore"`
	StudyStreak      int                 `json:"studyStreak"`
	SubjectBreakdown []*SubjectBreakdown `json:"subjectBreakdown"`
	RecentActivity   []Activity          `json:"recentActivity"`
}

// SubjectName falls back to "Unknown" when the subject was not loaded.
func SubjectName(s *types.Subject) string {
	if s == nil || s.Name == "" {
		return "Unknown"
	}
	return s.Name
}

// BuildReport aggregates completed attempts (newest first) into a report.
// Breakdown entries keep the order subjects first appear in attempts.
func BuildReport(period Period, attempts []*types.QuizAttempt, streak int) ProgressReport {
	rep := ProgressReport{
		Period:           period,
		StudyStreak:      streak,
		SubjectBreakdown: []*SubjectBreakdown{},
		RecentActivity:   []Activity{},
	}
	bySubject := map[uuid.UUID]*SubjectBreakdown{}
	totalScore := 0.0
	for _, a := range attempts {
		if a == nil {
			continue
		}
		rep.TotalQuizzes++
		rep.TotalQuestions += a.TotalQuestions
		totalScore += a.Score

		b := bySubject[a.SubjectID]
		if b == nil {
			b = &SubjectBreakdown{ID: a.SubjectID, Name: SubjectName(a.Subject)}
			bySubject[a.SubjectID] = b
			rep.SubjectBreakdown = append(rep.SubjectBreakdown, b)
		}
		b.Quizzes++
		b.Questions += a.TotalQuestions
		b.TotalScore += a.Score
		b.Mistakes += a.TotalQuestions - a.CorrectAnswers

		if len(rep.RecentActivity) < RecentActivityN {
			rep.RecentActivity = append(rep.RecentActivity, Activity{
				ID:          a.ID,
				SubjectName: SubjectName(a.Subject),
				Date:        a.CompletedAt,
				Score:       a.Score,
				Questions:   a.TotalQuestions,
			})
		}
	}
	if rep.TotalQuizzes > 0 {
		rep.AverageScore = totalScore / float64(rep.TotalQuizzes)
	}
	for _, b := range rep.SubjectBreakdown {
		if b.Quizzes > 0 {
			b.AverageScore = b.TotalScore / float64(b.Quizzes)
		}
	}
	return rep
}
