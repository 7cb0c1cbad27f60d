package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"studyhub/internal/quiz"
	"studyhub/internal/study"
	"studyhub/internal/theme"
)

var validate = validator.New()

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, quiz.ErrTestNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "test not found"})
	case errors.Is(err, quiz.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
	case errors.Is(err, study.ErrTopicNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "topic not found"})
	case errors.Is(err, quiz.ErrAnswerKind):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "answer does not match the question kind"})
	case errors.Is(err, theme.ErrInvalidTheme):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "theme must be light or dark"})
	case errors.Is(err, quiz.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrTestUnavailable):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "test has no questions yet"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// decodeBody decodes and validates a JSON request body, writing a 400 on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return false
		}
		fields := make([]fieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fieldError{Field: jsonFieldName(fe.Field()), Rule: fe.Tag()})
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return false
	}
	return true
}

func jsonFieldName(field string) string {
	switch field {
	case "TestID":
		return "test_id"
	default:
		return strings.ToLower(field)
	}
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
