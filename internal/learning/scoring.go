package learning

import (
	"math"

	"github.com/google/uuid"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
)

// IsCorrect compares a selection against the stored answer exactly. No case
// folding or trimming is applied.
func IsCorrect(selected, correct string) bool {
	return selected == correct
}

// Score is the percentage of correct answers; an empty quiz scores 0.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) * 100 / float64(total)
}

// Graded is the verdict for one question of a submitted quiz.
type Graded struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

// Grade walks questions in order and grades each against answers. A question
// with no entry in answers is graded as the empty selection.
func Grade(questions []*types.Question, answers map[uuid.UUID]string) ([]Graded, int) {
	out := make([]Graded, 0, len(questions))
	correct := 0
	for _, q := range questions {
		if q == nil {
			continue
		}
		selected := answers[q.ID]
		ok := IsCorrect(selected, q.CorrectAnswer)
		if ok {
			correct++
		}
		out = append(out, Graded{QuestionID: q.ID, SelectedAnswer: selected, IsCorrect: ok})
	}
	return out, correct
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
