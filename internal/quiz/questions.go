package quiz

import (
	"fmt"
	"slices"
)

type Kind string

const (
	KindSingleSelect    Kind = "single-select"
	KindBoolean         Kind = "boolean"
	KindExactText       Kind = "exact-text"
	KindOrderedSequence Kind = "ordered-sequence"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSingleSelect, KindBoolean, KindExactText, KindOrderedSequence:
		return true
	}
	return false
}

// PublicQuestion is what a learner sees before scoring.
type PublicQuestion struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Items   []string `json:"items,omitempty"`
}

type Question struct {
	PublicQuestion
	Correct     Answer
	Explanation string
}

// TestInfo describes one entry of the test listing.
type TestInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	Duration      string `json:"duration"`
	QuestionCount int    `json:"question_count"`
	Category      string `json:"category"`
	Authored      int    `json:"authored"`
}

func (t TestInfo) Available() bool {
	return t.Authored > 0
}

// Validate checks that the correct answer has the shape the kind demands.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("%w: question %s has unknown kind %q", ErrInvalidQuestion, q.ID, q.Kind)
	}
	if q.Correct == nil {
		return fmt.Errorf("%w: question %s has no correct answer", ErrInvalidQuestion, q.ID)
	}
	if q.Correct.Kind() != q.Kind {
		return fmt.Errorf("%w: question %s is %s but its answer is %s", ErrInvalidQuestion, q.ID, q.Kind, q.Correct.Kind())
	}

	switch correct := q.Correct.(type) {
	case SingleSelect:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %s needs at least two options", ErrInvalidQuestion, q.ID)
		}
		if int(correct) < 0 || int(correct) >= len(q.Options) {
			return fmt.Errorf("%w: question %s answer index %d out of range", ErrInvalidQuestion, q.ID, correct)
		}
	case Text:
		if normalizeText(string(correct)) == "" {
			return fmt.Errorf("%w: question %s has an empty answer", ErrInvalidQuestion, q.ID)
		}
	case Sequence:
		if len(q.Items) == 0 {
			return fmt.Errorf("%w: question %s has no items", ErrInvalidQuestion, q.ID)
		}
		if !isPermutation(q.Items, correct) {
			return fmt.Errorf("%w: question %s answer is not a permutation of its items", ErrInvalidQuestion, q.ID)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	out := q
	out.Options = slices.Clone(q.Options)
	out.Items = slices.Clone(q.Items)
	out.Correct = cloneAnswer(q.Correct)
	return out
}

func CloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for idx, question := range questions {
		out[idx] = question.Clone()
	}
	return out
}

func isPermutation(items, order []string) bool {
	if len(items) != len(order) {
		return false
	}
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item]++
	}
	for _, item := range order {
		counts[item]--
		if counts[item] < 0 {
			return false
		}
	}
	return true
}
