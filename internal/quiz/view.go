package quiz

// View is a presentation snapshot of the engine.
type View struct {
	TestID   string          `json:"test_id"`
	Phase    Phase           `json:"phase"`
	Cursor   int             `json:"cursor"`
	Total    int             `json:"total"`
	Answered int             `json:"answered"`
	Question *PublicQuestion `json:"question,omitempty"`
	Answer   *AnswerPayload  `json:"answer,omitempty"`
}

func (e *Engine) View() View {
	view := View{
		TestID:   e.testID,
		Phase:    e.phase,
		Cursor:   e.cursor,
		Total:    len(e.questions),
		Answered: len(e.answers),
	}

	question, ok := e.Current()
	if !ok {
		return view
	}
	public := question.PublicQuestion
	view.Question = &public

	if answer, ok := e.answers[question.ID]; ok {
		if payload, err := EncodeAnswer(answer); err == nil {
			view.Answer = &payload
		}
	}
	return view
}

// Order returns the arrangement to show for an ordered-sequence question:
// the recorded answer if there is one, the authored items otherwise.
func (v View) Order() []string {
	if v.Question == nil || v.Question.Kind != KindOrderedSequence {
		return nil
	}
	if v.Answer != nil {
		if answer, err := DecodeAnswer(*v.Answer); err == nil {
			if seq, ok := answer.(Sequence); ok && len(seq) > 0 {
				return seq
			}
		}
	}
	return append([]string(nil), v.Question.Items...)
}
