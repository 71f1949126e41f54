package seed

import (
	"strings"
	"testing"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

const sampleBank = `
subjects:
  - name: Physics
    questions:
      - text: What is the SI unit of force?
        options: [Joule, Newton, Watt, Pascal]
        answer: b
        difficulty: easy
      - text: Light travels fastest in
        options: [Vacuum, Water]
        answer: A
  - name: History
`

func TestParseBank(t *testing.T) {
	b, err := ParseBank(strings.NewReader(sampleBank))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(b.Subjects) != 2 || len(b.Subjects[0].Questions) != 2 {
		t.Fatalf("unexpected bank: %+v", b)
	}
	q := b.Subjects[0].Questions[0]
	if q.Answer != "B" || q.Difficulty != types.DifficultyEasy {
		t.Fatalf("answer/difficulty not normalized: %+v", q)
	}
	if b.Subjects[0].Questions[1].Difficulty != types.DifficultyMedium {
		t.Fatalf("missing difficulty should default to medium")
	}
}

func TestParseBankRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no name", "subjects:\n  - questions: []\n"},
		{"answer out of range", "subjects:\n  - name: X\n    questions:\n      - text: q\n        options: [a, b]\n        answer: C\n"},
		{"one option", "subjects:\n  - name: X\n    questions:\n      - text: q\n        options: [a]\n        answer: A\n"},
		{"bad difficulty", "subjects:\n  - name: X\n    questions:\n      - text: q\n        options: [a, b]\n        answer: A\n        difficulty: brutal\n"},
		{"unknown field", "subjects:\n  - name: X\n    colour: red\n"},
	}
	for _, tc := range cases {
		if _, err := ParseBank(strings.NewReader(tc.yaml)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestImportIsRerunnable(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	subjects := repos.NewSubjectRepo(db, log)
	questions := repos.NewQuestionRepo(db, log)
	im := NewImporter(log, subjects, questions)
	dbc := dbctx.New(nil)

	b, err := ParseBank(strings.NewReader(sampleBank))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := im.Import(dbc, b)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.SubjectsCreated != 2 || res.QuestionsCreated != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	again, err := im.Import(dbc, b)
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if again.SubjectsCreated != 0 || again.SubjectsSkipped != 2 {
		t.Fatalf("rerun should skip existing subjects: %+v", again)
	}

	all, _ := subjects.List(dbc)
	var physics *types.Subject
	for _, s := range all {
		if s.Name == "Physics" {
			physics = s
		}
	}
	if physics == nil {
		t.Fatalf("physics subject missing")
	}
	qs, err := questions.ListBySubject(dbc, physics.ID, 10)
	if err != nil || len(qs) != 2 {
		t.Fatalf("questions=%d err=%v", len(qs), err)
	}
	for _, q := range qs {
		if q.OptionD != "" && q.CorrectAnswer != "B" {
			t.Fatalf("unexpected question row: %+v", q)
		}
	}
}
