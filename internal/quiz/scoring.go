package quiz

import "strings"

type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Outcome is the scored view of one question.
type Outcome struct {
	QuestionID  string `json:"question_id"`
	Number      int    `json:"number"`
	Kind        Kind   `json:"kind"`
	Prompt      string `json:"prompt"`
	Answered    bool   `json:"answered"`
	Correct     bool   `json:"correct"`
	Given       string `json:"given"`
	Expected    string `json:"expected"`
	Explanation string `json:"explanation"`
}

type Report struct {
	Score    Score     `json:"score"`
	Outcomes []Outcome `json:"outcomes"`
}

// Evaluate scores answers against questions. Correctness is derived once per
// question and drives both the headline score and the breakdown.
func Evaluate(questions []Question, answers map[string]Answer) Report {
	report := Report{
		Score:    Score{Total: len(questions)},
		Outcomes: make([]Outcome, 0, len(questions)),
	}

	for idx, question := range questions {
		answer, answered := answers[question.ID]
		correct := IsCorrect(question, answer)
		if correct {
			report.Score.Correct++
		}
		report.Outcomes = append(report.Outcomes, Outcome{
			QuestionID:  question.ID,
			Number:      idx + 1,
			Kind:        question.Kind,
			Prompt:      question.Prompt,
			Answered:    answered && answer != nil,
			Correct:     correct,
			Given:       FormatAnswer(question, answer),
			Expected:    FormatAnswer(question, question.Correct),
			Explanation: question.Explanation,
		})
	}

	report.Score.Percentage = percentage(report.Score.Correct, report.Score.Total)
	return report
}

// IsCorrect applies the rule for the question's kind. A missing answer or
// one of the wrong kind is incorrect.
func IsCorrect(q Question, answer Answer) bool {
	if answer == nil || q.Correct == nil {
		return false
	}

	switch q.Kind {
	case KindSingleSelect:
		want, okWant := q.Correct.(SingleSelect)
		got, okGot := answer.(SingleSelect)
		return okWant && okGot && got == want
	case KindBoolean:
		want, okWant := q.Correct.(Boolean)
		got, okGot := answer.(Boolean)
		return okWant && okGot && got == want
	case KindExactText:
		want, okWant := q.Correct.(Text)
		got, okGot := answer.(Text)
		if !okWant || !okGot || got == "" {
			return false
		}
		return normalizeText(string(got)) == normalizeText(string(want))
	case KindOrderedSequence:
		want, okWant := q.Correct.(Sequence)
		got, okGot := answer.(Sequence)
		if !okWant || !okGot || len(got) != len(want) {
			return false
		}
		for idx := range want {
			if got[idx] != want[idx] {
				return false
			}
		}
		return true
	}
	return false
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// percentage rounds half up, in integers so 12.5 does not drift.
func percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
