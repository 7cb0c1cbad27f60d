package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

type fakeCatalog struct {
	tests     []TestInfo
	questions map[string][]Question
	err       error

	questionsCalls int
}

func (f *fakeCatalog) ListTests(context.Context) ([]TestInfo, error) {
	return f.tests, f.err
}

func (f *fakeCatalog) Questions(_ context.Context, testID string) ([]Question, error) {
	f.questionsCalls++
	if f.err != nil {
		return nil, f.err
	}
	questions, ok := f.questions[testID]
	if !ok {
		return nil, ErrTestNotFound
	}
	return questions, nil
}

func sampleQuestions() []Question {
	return []Question{
		{
			PublicQuestion: PublicQuestion{
				ID:      "1",
				Kind:    KindSingleSelect,
				Prompt:  "What is the time complexity of inserting at the head of a linked list?",
				Options: []string{"O(1)", "O(n)", "O(log n)", "O(n²)"},
			},
			Correct:     SingleSelect(0),
			Explanation: "Only the head pointer changes.",
		},
		{
			PublicQuestion: PublicQuestion{
				ID:     "2",
				Kind:   KindBoolean,
				Prompt: "A stack follows the LIFO principle.",
			},
			Correct: Boolean(true),
		},
		{
			PublicQuestion: PublicQuestion{
				ID:     "3",
				Kind:   KindExactText,
				Prompt: "The worst-case time complexity of binary search is ______.",
			},
			Correct: Text("O(log n)"),
		},
		{
			PublicQuestion: PublicQuestion{
				ID:     "5",
				Kind:   KindOrderedSequence,
				Prompt: "Arrange these sorting algorithms by average time complexity:",
				Items:  []string{"Merge Sort", "Bubble Sort", "Quick Sort", "Selection Sort"},
			},
			Correct: Sequence{"Merge Sort", "Quick Sort", "Bubble Sort", "Selection Sort"},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeCatalog) {
	t.Helper()
	catalog := &fakeCatalog{
		questions: map[string][]Question{
			"data-structures-basic": sampleQuestions(),
			"oop-principles":        {},
			"two-questions":         sampleQuestions()[:2],
		},
	}
	return NewEngine(catalog, WithRand(rand.New(rand.NewPCG(3, 5)))), catalog
}

func TestSelectTestStartsAttempt(t *testing.T) {
	engine, _ := newTestEngine(t)

	if err := engine.SelectTest(context.Background(), " data-structures-basic "); err != nil {
		t.Fatalf("SelectTest failed: %v", err)
	}
	if engine.Phase() != PhaseInProgress {
		t.Fatalf("phase = %s, want %s", engine.Phase(), PhaseInProgress)
	}
	if engine.Cursor() != 0 || engine.Len() != 4 {
		t.Fatalf("cursor/len = %d/%d, want 0/4", engine.Cursor(), engine.Len())
	}
	if engine.TestID() != "data-structures-basic" {
		t.Fatalf("test id = %q", engine.TestID())
	}
}

func TestSelectTestWithoutQuestionsIsUnavailable(t *testing.T) {
	engine, _ := newTestEngine(t)

	err := engine.SelectTest(context.Background(), "oop-principles")
	if !errors.Is(err, ErrTestUnavailable) {
		t.Fatalf("expected ErrTestUnavailable, got %v", err)
	}
	if engine.Phase() != PhaseUnavailable {
		t.Fatalf("phase = %s, want %s", engine.Phase(), PhaseUnavailable)
	}
	if _, err := engine.Score(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("score must not be computed for an unavailable test, got %v", err)
	}
	if _, err := engine.Finish(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("finish must be refused for an unavailable test, got %v", err)
	}

	engine.Exit()
	if engine.Phase() != PhaseSelecting {
		t.Fatalf("phase after exit = %s, want %s", engine.Phase(), PhaseSelecting)
	}
	if err := engine.SelectTest(context.Background(), "data-structures-basic"); err != nil {
		t.Fatalf("select after recovering from unavailable: %v", err)
	}
}

func TestSelectUnknownTestKeepsSelecting(t *testing.T) {
	engine, _ := newTestEngine(t)

	if err := engine.SelectTest(context.Background(), "missing"); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
	if engine.Phase() != PhaseSelecting {
		t.Fatalf("phase = %s, want %s", engine.Phase(), PhaseSelecting)
	}
	if err := engine.SelectTest(context.Background(), "  "); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound for blank id, got %v", err)
	}
}

func TestSelectTestRequiresSelectingPhase(t *testing.T) {
	engine, catalog := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	err := engine.SelectTest(context.Background(), "two-questions")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if catalog.questionsCalls != 1 {
		t.Fatalf("catalog consulted %d times, want 1", catalog.questionsCalls)
	}
}

func TestAdvanceAndRetreatClamp(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	if got := engine.Retreat(); got != 0 {
		t.Fatalf("retreat at first question = %d, want 0", got)
	}
	for i := 0; i < 10; i++ {
		engine.Advance()
	}
	if engine.Cursor() != 3 {
		t.Fatalf("cursor after advancing past the end = %d, want 3", engine.Cursor())
	}
	if got := engine.Advance(); got != 3 {
		t.Fatalf("advance at last question = %d, want 3", got)
	}
	if got := engine.Retreat(); got != 2 {
		t.Fatalf("retreat = %d, want 2", got)
	}
}

func TestRecordAnswerLastWriteWins(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	for _, answer := range []Answer{SingleSelect(1), SingleSelect(2), SingleSelect(0)} {
		if err := engine.RecordAnswer("1", answer); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}
	}
	got, ok := engine.Answer("1")
	if !ok || got != SingleSelect(0) {
		t.Fatalf("answer = %v (%v), want 0", got, ok)
	}

	if err := engine.RecordAnswer("1", nil); err != nil {
		t.Fatalf("clearing answer failed: %v", err)
	}
	if _, ok := engine.Answer("1"); ok {
		t.Fatalf("expected answer to be cleared")
	}

	if err := engine.RecordAnswer("404", Boolean(true)); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestRecordAnswerCopiesSequence(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	order := Sequence{"Merge Sort", "Quick Sort", "Bubble Sort", "Selection Sort"}
	if err := engine.RecordAnswer("5", order); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	order[0] = "Bogo Sort"

	report, err := engine.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !report.Outcomes[3].Correct {
		t.Fatalf("caller mutation leaked into stored answer: %+v", report.Outcomes[3])
	}
}

func TestFinishScoresUnansweredAsIncorrect(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "two-questions")

	if err := engine.RecordAnswer("1", SingleSelect(0)); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}

	report, err := engine.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	want := Score{Correct: 1, Total: 2, Percentage: 50}
	if report.Score != want {
		t.Fatalf("score = %+v, want %+v", report.Score, want)
	}
	if report.Outcomes[1].Answered || report.Outcomes[1].Correct {
		t.Fatalf("unanswered boolean should be unanswered and incorrect: %+v", report.Outcomes[1])
	}
	if report.Outcomes[1].Given != "Not answered" || report.Outcomes[1].Expected != "true" {
		t.Fatalf("unexpected rendering: %+v", report.Outcomes[1])
	}
	if engine.Phase() != PhaseCompleted {
		t.Fatalf("phase = %s, want %s", engine.Phase(), PhaseCompleted)
	}
	if err := engine.RecordAnswer("2", Boolean(true)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("answers must be frozen after finish, got %v", err)
	}
}

func TestScoreIsRepeatable(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")
	_ = engine.RecordAnswer("1", SingleSelect(0))
	_ = engine.RecordAnswer("3", Text(" o(LOG N) "))

	first, err := engine.Score()
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	second, _ := engine.Score()
	if first != second {
		t.Fatalf("score changed between calls: %+v vs %+v", first, second)
	}
	if first.Correct != 2 || first.Total != 4 || first.Percentage != 50 {
		t.Fatalf("unexpected score %+v", first)
	}
	if engine.Phase() != PhaseInProgress {
		t.Fatalf("Score must not change phase, got %s", engine.Phase())
	}
}

func TestRetakeResetsAttempt(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	if err := engine.Retake(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("retake before finish should fail, got %v", err)
	}

	_ = engine.RecordAnswer("1", SingleSelect(0))
	engine.Advance()
	engine.Advance()
	if _, err := engine.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	if err := engine.Retake(); err != nil {
		t.Fatalf("Retake failed: %v", err)
	}
	if engine.Phase() != PhaseInProgress || engine.Cursor() != 0 || engine.Len() != 4 {
		t.Fatalf("unexpected state after retake: phase=%s cursor=%d len=%d", engine.Phase(), engine.Cursor(), engine.Len())
	}
	if _, ok := engine.Answer("1"); ok {
		t.Fatalf("answers should be cleared on retake")
	}
}

func TestExitDiscardsSession(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")
	_ = engine.RecordAnswer("2", Boolean(false))
	engine.Advance()

	engine.Exit()

	if engine.Phase() != PhaseSelecting || engine.Len() != 0 || engine.TestID() != "" || engine.Cursor() != 0 {
		t.Fatalf("exit left state behind: %+v", engine.View())
	}
	if _, ok := engine.Current(); ok {
		t.Fatalf("no current question expected after exit")
	}
}

func TestReorderRecordsAnswerByValue(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	list, err := engine.Reorder("5")
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if _, ok := engine.Answer("5"); ok {
		t.Fatalf("opening the widget must not record an answer")
	}

	// Merge, Bubble, Quick, Selection -> Merge, Quick, Bubble, Selection
	if !list.Move(2, 1) {
		t.Fatalf("expected move to reorder")
	}

	got, ok := engine.Answer("5")
	if !ok {
		t.Fatalf("expected recorded answer")
	}
	want := Sequence{"Merge Sort", "Quick Sort", "Bubble Sort", "Selection Sort"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("answer = %v, want %v", got, want)
	}

	again, err := engine.Reorder("5")
	if err != nil || again != list {
		t.Fatalf("expected the same widget for the same question, got %p (%v)", again, err)
	}

	report, _ := engine.Finish()
	if !report.Outcomes[3].Correct {
		t.Fatalf("reordered answer should be correct: %+v", report.Outcomes[3])
	}
}

func TestReorderResumesFromRecordedAnswer(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	prior := Sequence{"Selection Sort", "Bubble Sort", "Quick Sort", "Merge Sort"}
	if err := engine.RecordAnswer("5", prior); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}

	list, err := engine.Reorder("5")
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if !reflect.DeepEqual(list.Items(), []string(prior)) {
		t.Fatalf("widget order = %v, want %v", list.Items(), prior)
	}

	shuffled := list.Shuffle()
	got, _ := engine.Answer("5")
	if !reflect.DeepEqual([]string(got.(Sequence)), shuffled) {
		t.Fatalf("shuffle not recorded: %v vs %v", got, shuffled)
	}
}

func TestStaleReorderWidgetDoesNotWrite(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")

	list, err := engine.Reorder("5")
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if _, err := engine.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if err := engine.Retake(); err != nil {
		t.Fatalf("Retake failed: %v", err)
	}

	list.Move(3, 0)
	if got, ok := engine.Answer("5"); ok {
		t.Fatalf("widget from the finished attempt wrote into the retake: %v", got)
	}

	fresh, err := engine.Reorder("5")
	if err != nil {
		t.Fatalf("Reorder after retake failed: %v", err)
	}
	if fresh == list {
		t.Fatalf("expected a new widget after retake")
	}

	if err := engine.RecordAnswer("5", Sequence{"Quick Sort", "Merge Sort", "Bubble Sort", "Selection Sort"}); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	fresh.Shuffle()
	got, _ := engine.Answer("5")
	want := Sequence{"Quick Sort", "Merge Sort", "Bubble Sort", "Selection Sort"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("widget replaced by RecordAnswer overwrote the answer: %v", got)
	}

	engine.Exit()
	mustSelect(t, engine, "data-structures-basic")
	fresh.Move(0, 3)
	if _, ok := engine.Answer("5"); ok {
		t.Fatalf("widget from an exited attempt wrote into a new one")
	}
}

func TestReportReturnsIndependentCopy(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")
	_ = engine.RecordAnswer("1", SingleSelect(0))
	if _, err := engine.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	report, _ := engine.Report()
	report.Outcomes[0].Correct = false
	report.Outcomes[0].Given = "edited"

	again, _ := engine.Report()
	if !again.Outcomes[0].Correct || again.Outcomes[0].Given != "O(1)" {
		t.Fatalf("caller edit leaked into the fixed report: %+v", again.Outcomes[0])
	}
}

func TestReorderRejectsOtherKinds(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.Reorder("5"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before selecting, got %v", err)
	}

	mustSelect(t, engine, "data-structures-basic")
	if _, err := engine.Reorder("1"); !errors.Is(err, ErrAnswerKind) {
		t.Fatalf("expected ErrAnswerKind, got %v", err)
	}
	if _, err := engine.Reorder("404"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestViewReflectsCurrentQuestion(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustSelect(t, engine, "data-structures-basic")
	engine.Advance()
	engine.Advance()
	engine.Advance()

	view := engine.View()
	if view.Question == nil || view.Question.ID != "5" || view.Answer != nil {
		t.Fatalf("unexpected view: %+v", view)
	}
	if !reflect.DeepEqual(view.Order(), sampleQuestions()[3].Items) {
		t.Fatalf("pristine order expected, got %v", view.Order())
	}

	_ = engine.RecordAnswer("5", Sequence{"Quick Sort", "Merge Sort", "Bubble Sort", "Selection Sort"})
	view = engine.View()
	if view.Answer == nil || view.Answer.Kind != KindOrderedSequence || view.Answered != 1 {
		t.Fatalf("answer missing from view: %+v", view)
	}
	if view.Order()[0] != "Quick Sort" {
		t.Fatalf("recorded order expected, got %v", view.Order())
	}
}

func TestCatalogErrorPropagates(t *testing.T) {
	boom := errors.New("catalog offline")
	engine := NewEngine(&fakeCatalog{err: boom})

	if err := engine.SelectTest(context.Background(), "any"); !errors.Is(err, boom) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	if engine.Phase() != PhaseSelecting {
		t.Fatalf("phase = %s, want %s", engine.Phase(), PhaseSelecting)
	}
}

func mustSelect(t *testing.T, engine *Engine, testID string) {
	t.Helper()
	if err := engine.SelectTest(context.Background(), testID); err != nil {
		t.Fatalf("SelectTest(%q) failed: %v", testID, err)
	}
}
