// Package seed loads a YAML question bank into the subjects and questions
// tables.
package seed

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type Bank struct {
	Subjects []BankSubject `yaml:"subjects"`
}

type BankSubject struct {
	Name      string         `yaml:"name"`
	Questions []BankQuestion `yaml:"questions"`
}

type BankQuestion struct {
	Text        string           `yaml:"text"`
	Options     []string         `yaml:"options"`
	Answer      string           `yaml:"answer"`
	Explanation string           `yaml:"explanation"`
	Difficulty  types.Difficulty `yaml:"difficulty"`
}

func ParseBank(r io.Reader) (*Bank, error) {
	var b Bank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	for i := range b.Subjects {
		s := &b.Subjects[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("subject %d: name required", i)
		}
		for j := range s.Questions {
			if err := s.Questions[j].normalize(); err != nil {
				return nil, fmt.Errorf("%s question %d: %w", s.Name, j, err)
			}
		}
	}
	return &b, nil
}

func (q *BankQuestion) normalize() error {
	q.Text = strings.TrimSpace(q.Text)
	q.Answer = strings.ToUpper(strings.TrimSpace(q.Answer))
	if q.Text == "" {
		return fmt.Errorf("text required")
	}
	if len(q.Options) < 2 || len(q.Options) > 4 {
		return fmt.Errorf("want 2 to 4 options, got %d", len(q.Options))
	}
	if len(q.Answer) != 1 || q.Answer[0] < 'A' || int(q.Answer[0]-'A') >= len(q.Options) {
		return fmt.Errorf("answer %q does not name an option", q.Answer)
	}
	switch q.Difficulty {
	case "":
		q.Difficulty = types.DifficultyMedium
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	return nil
}

func (q BankQuestion) toModel(subjectID uuid.UUID) *types.Question {
	opt := func(i int) string {
		if i < len(q.Options) {
			return strings.TrimSpace(q.Options[i])
		}
		return ""
	}
	return &types.Question{
		SubjectID:       subjectID,
		QuestionText:    q.Text,
		OptionA:         opt(0),
		OptionB:         opt(1),
		OptionC:         opt(2),
		OptionD:         opt(3),
		CorrectAnswer:   q.Answer,
		Explanation:     strings.TrimSpace(q.Explanation),
		DifficultyLevel: q.Difficulty,
	}
}

type Importer struct {
	log       *logger.Logger
	subjects  repos.SubjectRepo
	questions repos.QuestionRepo
}

func NewImporter(log *logger.Logger, subjects repos.SubjectRepo, questions repos.QuestionRepo) *Importer {
	return &Importer{log: log.With("component", "QuestionBankImporter"), subjects: subjects, questions: questions}
}

type Result struct {
	SubjectsCreated  int
	SubjectsSkipped  int
	QuestionsCreated int
}

// Import creates every subject in the bank whose name is not already taken,
// together with its questions. Existing subjects are left untouched so the
// import can be rerun.
func (im *Importer) Import(dbc dbctx.Context, b *Bank) (Result, error) {
	var res Result
	existing, err := im.subjects.List(dbc)
	if err != nil {
		return res, fmt.Errorf("list subjects: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[strings.ToLower(s.Name)] = true
	}

	for _, bs := range b.Subjects {
		if taken[strings.ToLower(bs.Name)] {
			im.log.Info("Subject exists, skipping", "subject", bs.Name)
			res.SubjectsSkipped++
			continue
		}
		created, err := im.subjects.Create(dbc, []*types.Subject{{Name: bs.Name}})
		if err != nil {
			return res, fmt.Errorf("create subject %q: %w", bs.Name, err)
		}
		subj := created[0]
		taken[strings.ToLower(bs.Name)] = true
		res.SubjectsCreated++

		if len(bs.Questions) == 0 {
			continue
		}
		rows := make([]*types.Question, 0, len(bs.Questions))
		for _, q := range bs.Questions {
			rows = append(rows, q.toModel(subj.ID))
		}
		if _, err := im.questions.Create(dbc, rows); err != nil {
			return res, fmt.Errorf("create questions for %q: %w", bs.Name, err)
		}
		res.QuestionsCreated += len(rows)
		im.log.Info("Subject imported", "subject", bs.Name, "questions", len(rows))
	}
	return res, nil
}
