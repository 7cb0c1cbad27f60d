package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"studyhub/internal/logging"
	"studyhub/internal/reorder"
)

type Phase string

const (
	PhaseSelecting   Phase = "selecting"
	PhaseInProgress  Phase = "in-progress"
	PhaseCompleted   Phase = "completed"
	PhaseUnavailable Phase = "unavailable"
)

// Engine drives one test attempt at a time. It is owned by a single view
// and is not safe for concurrent use.
type Engine struct {
	catalog Catalog
	logger  logging.Logger
	rng     *rand.Rand

	testID    string
	questions []Question
	answers   map[string]Answer
	cursor    int
	phase     Phase
	report    *Report
	lists     map[string]*reorder.List
}

type Option func(*Engine)

func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRand seeds the shuffle of ordered-sequence questions.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		logger:  logging.Nop(),
		phase:   PhaseSelecting,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectTest loads testID from the catalog. A test with no authored
// questions moves the engine to PhaseUnavailable and returns
// ErrTestUnavailable; Exit recovers from it.
func (e *Engine) SelectTest(ctx context.Context, testID string) error {
	if e.phase != PhaseSelecting {
		return fmt.Errorf("%w: select from %s", ErrInvalidTransition, e.phase)
	}
	testID = strings.TrimSpace(testID)
	if testID == "" {
		return ErrTestNotFound
	}

	questions, err := e.catalog.Questions(ctx, testID)
	if err != nil {
		return err
	}

	e.reset()
	e.testID = testID
	e.questions = CloneQuestions(questions)

	if len(e.questions) == 0 {
		e.phase = PhaseUnavailable
		e.logger.DebugContext(ctx, "test has no questions", "test_id", testID)
		return ErrTestUnavailable
	}

	e.phase = PhaseInProgress
	e.logger.DebugContext(ctx, "test selected", "test_id", testID, "questions", len(e.questions))
	return nil
}

// RecordAnswer stores answer for questionID, replacing any earlier one.
// A nil answer clears it.
func (e *Engine) RecordAnswer(questionID string, answer Answer) error {
	if e.phase != PhaseInProgress {
		return fmt.Errorf("%w: record in %s", ErrInvalidTransition, e.phase)
	}
	if _, ok := e.question(questionID); !ok {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}

	// Any widget for this question is rebuilt from the new answer.
	delete(e.lists, questionID)

	if answer == nil {
		delete(e.answers, questionID)
		return nil
	}
	e.answers[questionID] = cloneAnswer(answer)
	return nil
}

// Answer returns the recorded answer for questionID.
func (e *Engine) Answer(questionID string) (Answer, bool) {
	answer, ok := e.answers[questionID]
	if !ok {
		return nil, false
	}
	return cloneAnswer(answer), true
}

// Advance moves to the next question, staying put on the last one.
func (e *Engine) Advance() int {
	if e.phase == PhaseInProgress && e.cursor < len(e.questions)-1 {
		e.cursor++
	}
	return e.cursor
}

// Retreat moves to the previous question, staying put on the first one.
func (e *Engine) Retreat() int {
	if e.phase == PhaseInProgress && e.cursor > 0 {
		e.cursor--
	}
	return e.cursor
}

// Finish closes the attempt from any cursor position and scores it.
func (e *Engine) Finish() (Report, error) {
	if e.phase != PhaseInProgress {
		return Report{}, fmt.Errorf("%w: finish in %s", ErrInvalidTransition, e.phase)
	}

	report := Evaluate(e.questions, e.answers)
	e.report = &report
	e.phase = PhaseCompleted
	e.logger.Debug("test finished",
		"test_id", e.testID,
		"correct", report.Score.Correct,
		"total", report.Score.Total,
	)
	return report, nil
}

// Score evaluates the current answers without changing phase.
func (e *Engine) Score() (Score, error) {
	report, err := e.Report()
	if err != nil {
		return Score{}, err
	}
	return report.Score, nil
}

// Report returns the report fixed by Finish, or a fresh evaluation while the
// attempt is still open.
func (e *Engine) Report() (Report, error) {
	switch e.phase {
	case PhaseCompleted:
		if e.report != nil {
			report := *e.report
			report.Outcomes = slices.Clone(e.report.Outcomes)
			return report, nil
		}
		return Evaluate(e.questions, e.answers), nil
	case PhaseInProgress:
		return Evaluate(e.questions, e.answers), nil
	default:
		return Report{}, fmt.Errorf("%w: report in %s", ErrInvalidTransition, e.phase)
	}
}

// Retake restarts a completed attempt with the same questions.
func (e *Engine) Retake() error {
	if e.phase != PhaseCompleted {
		return fmt.Errorf("%w: retake in %s", ErrInvalidTransition, e.phase)
	}
	e.answers = make(map[string]Answer)
	e.lists = make(map[string]*reorder.List)
	e.cursor = 0
	e.report = nil
	e.phase = PhaseInProgress
	e.logger.Debug("test retaken", "test_id", e.testID)
	return nil
}

// Exit drops the attempt and returns to test selection.
func (e *Engine) Exit() {
	e.reset()
	e.phase = PhaseSelecting
}

// Reorder returns the ordering widget for an ordered-sequence question. Its
// changes are recorded as that question's answer.
func (e *Engine) Reorder(questionID string) (*reorder.List, error) {
	if e.phase != PhaseInProgress {
		return nil, fmt.Errorf("%w: reorder in %s", ErrInvalidTransition, e.phase)
	}
	question, ok := e.question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	if question.Kind != KindOrderedSequence {
		return nil, fmt.Errorf("%w: %s is %s", ErrAnswerKind, questionID, question.Kind)
	}

	if list, ok := e.lists[questionID]; ok {
		return list, nil
	}

	opts := []reorder.Option{}
	if prior, ok := e.answers[questionID].(Sequence); ok {
		opts = append(opts, reorder.WithInitial(prior))
	}
	if e.rng != nil {
		opts = append(opts, reorder.WithRand(e.rng))
	}

	var list *reorder.List
	list = reorder.New(questionID, question.Items, func(id string, order []string) {
		// Widgets dropped by RecordAnswer, Retake or Exit no longer write.
		if e.phase == PhaseInProgress && e.lists[id] == list {
			e.answers[id] = Sequence(order)
		}
	}, opts...)
	e.lists[questionID] = list
	return list, nil
}

func (e *Engine) Phase() Phase {
	return e.phase
}

func (e *Engine) TestID() string {
	return e.testID
}

func (e *Engine) Cursor() int {
	return e.cursor
}

func (e *Engine) Len() int {
	return len(e.questions)
}

// Current returns the question under the cursor.
func (e *Engine) Current() (Question, bool) {
	if e.phase != PhaseInProgress || len(e.questions) == 0 {
		return Question{}, false
	}
	return e.questions[e.cursor].Clone(), true
}

// Question looks up a question of the loaded test by id.
func (e *Engine) Question(questionID string) (Question, bool) {
	question, ok := e.question(questionID)
	if !ok {
		return Question{}, false
	}
	return question.Clone(), true
}

func (e *Engine) question(questionID string) (Question, bool) {
	for _, question := range e.questions {
		if question.ID == questionID {
			return question, true
		}
	}
	return Question{}, false
}

func (e *Engine) reset() {
	e.testID = ""
	e.questions = nil
	e.answers = make(map[string]Answer)
	e.lists = make(map[string]*reorder.List)
	e.cursor = 0
	e.report = nil
}
