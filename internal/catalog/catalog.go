// Package catalog loads the practice tests and serves them to the quiz
// engine, either from memory or from SQLite.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"studyhub/internal/quiz"
)

//go:embed data/catalog.yaml
var defaultDocument []byte

type document struct {
	Tests []testDoc `yaml:"tests" validate:"required,min=1,dive"`
}

type testDoc struct {
	ID            string        `yaml:"id" validate:"required"`
	Title         string        `yaml:"title" validate:"required"`
	Description   string        `yaml:"description"`
	Difficulty    string        `yaml:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Duration      string        `yaml:"duration"`
	QuestionCount int           `yaml:"question_count" validate:"gte=0"`
	Category      string        `yaml:"category" validate:"required"`
	Questions     []questionDoc `yaml:"questions" validate:"dive"`
}

type questionDoc struct {
	ID          string    `yaml:"id" validate:"required"`
	Kind        string    `yaml:"kind" validate:"required,oneof=single-select boolean exact-text ordered-sequence"`
	Prompt      string    `yaml:"prompt" validate:"required"`
	Options     []string  `yaml:"options"`
	Items       []string  `yaml:"items"`
	Correct     yaml.Node `yaml:"correct" validate:"-"`
	Explanation string    `yaml:"explanation"`
}

var validate = validator.New()

// Static is an in-memory catalog. It is immutable after loading.
type Static struct {
	tests     []quiz.TestInfo
	questions map[string][]quiz.Question
}

// Default returns the catalog compiled into the binary.
func Default() (*Static, error) {
	return Parse(defaultDocument)
}

func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Static, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Static, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}

	if err := validate.Struct(doc); err != nil {
		return nil, fromValidator(err)
	}

	var problems ValidationErrors
	tests := make([]quiz.TestInfo, 0, len(doc.Tests))
	questions := make(map[string][]quiz.Question, len(doc.Tests))
	seenTests := make(map[string]bool, len(doc.Tests))

	for ti, td := range doc.Tests {
		if seenTests[td.ID] {
			problems = append(problems, ValidationError{
				Field:   fmt.Sprintf("tests[%d].id", ti),
				Message: fmt.Sprintf("duplicate test id %q", td.ID),
				Rule:    "unique",
			})
			continue
		}
		seenTests[td.ID] = true

		built := make([]quiz.Question, 0, len(td.Questions))
		seenQuestions := make(map[string]bool, len(td.Questions))
		for qi, qd := range td.Questions {
			field := fmt.Sprintf("tests[%d].questions[%d]", ti, qi)
			if seenQuestions[qd.ID] {
				problems = append(problems, ValidationError{
					Field:   field + ".id",
					Message: fmt.Sprintf("duplicate question id %q in test %s", qd.ID, td.ID),
					Rule:    "unique",
				})
				continue
			}
			seenQuestions[qd.ID] = true

			question, err := qd.build()
			if err == nil {
				err = question.Validate()
			}
			if err != nil {
				problems = append(problems, ValidationError{
					Field:   field,
					Message: err.Error(),
					Rule:    "shape",
				})
				continue
			}
			built = append(built, question)
		}

		tests = append(tests, quiz.TestInfo{
			ID:            td.ID,
			Title:         td.Title,
			Description:   td.Description,
			Difficulty:    td.Difficulty,
			Duration:      td.Duration,
			QuestionCount: td.QuestionCount,
			Category:      td.Category,
			Authored:      len(built),
		})
		if len(built) > 0 {
			questions[td.ID] = built
		}
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return &Static{tests: tests, questions: questions}, nil
}

func (qd questionDoc) build() (quiz.Question, error) {
	kind := quiz.Kind(qd.Kind)
	correct, err := decodeCorrect(kind, &qd.Correct)
	if err != nil {
		return quiz.Question{}, err
	}
	return quiz.Question{
		PublicQuestion: quiz.PublicQuestion{
			ID:      qd.ID,
			Kind:    kind,
			Prompt:  qd.Prompt,
			Options: qd.Options,
			Items:   qd.Items,
		},
		Correct:     correct,
		Explanation: qd.Explanation,
	}, nil
}

func decodeCorrect(kind quiz.Kind, node *yaml.Node) (quiz.Answer, error) {
	if node.Kind == 0 {
		return nil, errors.New("correct answer is missing")
	}

	switch kind {
	case quiz.KindSingleSelect:
		var v int
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrap(err, "correct must be an option index")
		}
		return quiz.SingleSelect(v), nil
	case quiz.KindBoolean:
		var v bool
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrap(err, "correct must be true or false")
		}
		return quiz.Boolean(v), nil
	case quiz.KindExactText:
		var v string
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrap(err, "correct must be text")
		}
		return quiz.Text(v), nil
	case quiz.KindOrderedSequence:
		var v []string
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrap(err, "correct must be a list of items")
		}
		return quiz.Sequence(v), nil
	}
	return nil, errors.Errorf("unknown kind %q", kind)
}

func (s *Static) ListTests(context.Context) ([]quiz.TestInfo, error) {
	out := make([]quiz.TestInfo, len(s.tests))
	copy(out, s.tests)
	return out, nil
}

func (s *Static) Questions(_ context.Context, testID string) ([]quiz.Question, error) {
	for _, test := range s.tests {
		if test.ID == testID {
			return quiz.CloneQuestions(s.questions[testID]), nil
		}
	}
	return nil, quiz.ErrTestNotFound
}
