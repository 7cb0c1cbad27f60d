package quiz

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Answer is one of SingleSelect, Boolean, Text or Sequence.
type Answer interface {
	Kind() Kind
	isAnswer()
}

// SingleSelect is an index into the question's options.
type SingleSelect int

type Boolean bool

type Text string

// Sequence is a full ordering of the question's items.
type Sequence []string

func (SingleSelect) Kind() Kind { return KindSingleSelect }
func (Boolean) Kind() Kind      { return KindBoolean }
func (Text) Kind() Kind         { return KindExactText }
func (Sequence) Kind() Kind     { return KindOrderedSequence }

func (SingleSelect) isAnswer() {}
func (Boolean) isAnswer()      {}
func (Text) isAnswer()         {}
func (Sequence) isAnswer()     {}

// AnswerPayload is the wire form of an Answer.
type AnswerPayload struct {
	Kind  Kind            `json:"kind" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

func EncodeAnswer(answer Answer) (AnswerPayload, error) {
	if answer == nil {
		return AnswerPayload{}, fmt.Errorf("%w: nil answer", ErrAnswerKind)
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return AnswerPayload{}, err
	}
	return AnswerPayload{Kind: answer.Kind(), Value: raw}, nil
}

func DecodeAnswer(payload AnswerPayload) (Answer, error) {
	var (
		answer Answer
		err    error
	)
	switch payload.Kind {
	case KindSingleSelect:
		var v int
		err = json.Unmarshal(payload.Value, &v)
		answer = SingleSelect(v)
	case KindBoolean:
		var v bool
		err = json.Unmarshal(payload.Value, &v)
		answer = Boolean(v)
	case KindExactText:
		var v string
		err = json.Unmarshal(payload.Value, &v)
		answer = Text(v)
	case KindOrderedSequence:
		var v []string
		err = json.Unmarshal(payload.Value, &v)
		answer = Sequence(v)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrAnswerKind, payload.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s value: %v", ErrAnswerKind, payload.Kind, err)
	}
	return answer, nil
}

const notAnswered = "Not answered"

// FormatAnswer renders answer for display against q.
func FormatAnswer(q Question, answer Answer) string {
	switch v := answer.(type) {
	case SingleSelect:
		if int(v) >= 0 && int(v) < len(q.Options) {
			return q.Options[v]
		}
		return fmt.Sprintf("option %d", int(v))
	case Boolean:
		return strconv.FormatBool(bool(v))
	case Text:
		if v != "" {
			return string(v)
		}
	case Sequence:
		if len(v) > 0 {
			return strings.Join(v, " → ")
		}
	}
	return notAnswered
}

func cloneAnswer(answer Answer) Answer {
	if seq, ok := answer.(Sequence); ok {
		return Sequence(slices.Clone(seq))
	}
	return answer
}
