package httpapi

import (
	"studyhub/internal/quiz"
	"studyhub/internal/study"
	"studyhub/internal/theme"
)

type testResponse struct {
	quiz.TestInfo
	Available bool `json:"available"`
}

type testsResponse struct {
	Tests []testResponse `json:"tests"`
}

type createSessionRequest struct {
	TestID string `json:"test_id" validate:"required"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	quiz.View
	Order []string `json:"order,omitempty"`
}

type moveRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to" validate:"required,gte=0"`
}

type orderResponse struct {
	QuestionID string   `json:"question_id"`
	Order      []string `json:"order"`
	Moved      bool     `json:"moved"`
}

type reportResponse struct {
	SessionID string `json:"session_id"`
	TestID    string `json:"test_id"`
	quiz.Report
}

type topicsResponse struct {
	Topics []study.Topic `json:"topics"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type themeResponse struct {
	Theme theme.Theme `json:"theme"`
	Saved bool        `json:"saved"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}
