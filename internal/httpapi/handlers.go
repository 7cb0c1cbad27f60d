package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/quiz"
	"studyhub/internal/reorder"
	"studyhub/internal/study"
	"studyhub/internal/theme"
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) HandleListTests(w http.ResponseWriter, r *http.Request) {
	if a.catalog == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "catalog unavailable"})
		return
	}

	tests, err := a.catalog.ListTests(r.Context())
	if err != nil {
		a.logger.LogError(err, "list tests failed")
		writeServiceError(w, err)
		return
	}

	response := testsResponse{Tests: make([]testResponse, 0, len(tests))}
	for _, test := range tests {
		response.Tests = append(response.Tests, testResponse{TestInfo: test, Available: test.Available()})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if a.catalog == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "catalog unavailable"})
		return
	}

	var request createSessionRequest
	if !decodeBody(w, r, &request) {
		return
	}

	sessionID := a.sessions.Create()
	status := http.StatusCreated
	var response sessionResponse
	err := a.sessions.With(sessionID, func(e *quiz.Engine) error {
		err := e.SelectTest(r.Context(), request.TestID)
		if errors.Is(err, quiz.ErrTestUnavailable) {
			// The session stays so the client can show the unavailable state.
			status = http.StatusOK
			err = nil
		}
		if err != nil {
			return err
		}
		response = newSessionResponse(sessionID, e)
		return nil
	})
	if err != nil {
		a.sessions.Delete(sessionID)
		if !errors.Is(err, quiz.ErrTestNotFound) {
			a.logger.LogError(err, "create session failed", "test_id", request.TestID)
		}
		writeServiceError(w, err)
		return
	}

	a.logger.InfoContext(r.Context(), "session created",
		"session_id", sessionID,
		"test_id", response.TestID,
		"phase", response.Phase,
	)
	writeJSON(w, status, response)
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	a.withSessionView(w, r, func(*quiz.Engine) error { return nil })
}

func (a *API) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	err := a.sessions.With(sessionID, func(e *quiz.Engine) error {
		e.Exit()
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	a.sessions.Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var payload quiz.AnswerPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	answer, err := quiz.DecodeAnswer(payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	questionID := chi.URLParam(r, "question_id")
	a.withSessionView(w, r, func(e *quiz.Engine) error {
		question, ok := e.Question(questionID)
		if !ok {
			return quiz.ErrQuestionNotFound
		}
		if answer.Kind() != question.Kind {
			return quiz.ErrAnswerKind
		}
		return e.RecordAnswer(questionID, answer)
	})
}

func (a *API) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	a.withSessionView(w, r, func(e *quiz.Engine) error {
		e.Advance()
		return nil
	})
}

func (a *API) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	a.withSessionView(w, r, func(e *quiz.Engine) error {
		e.Retreat()
		return nil
	})
}

func (a *API) HandleFinish(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	var response reportResponse
	err := a.sessions.With(sessionID, func(e *quiz.Engine) error {
		report, err := e.Finish()
		if err != nil {
			return err
		}
		response = reportResponse{SessionID: sessionID, TestID: e.TestID(), Report: report}
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	a.logger.InfoContext(r.Context(), "session finished",
		"session_id", sessionID,
		"test_id", response.TestID,
		"correct", response.Score.Correct,
		"total", response.Score.Total,
	)
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleRetake(w http.ResponseWriter, r *http.Request) {
	a.withSessionView(w, r, func(e *quiz.Engine) error {
		return e.Retake()
	})
}

func (a *API) HandleReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	var response reportResponse
	err := a.sessions.With(sessionID, func(e *quiz.Engine) error {
		report, err := e.Report()
		if err != nil {
			return err
		}
		response = reportResponse{SessionID: sessionID, TestID: e.TestID(), Report: report}
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleMove(w http.ResponseWriter, r *http.Request) {
	var request moveRequest
	if !decodeBody(w, r, &request) {
		return
	}

	a.withOrder(w, r, func(list *reorder.List) bool {
		return list.Move(*request.From, *request.To)
	})
}

func (a *API) HandleShuffle(w http.ResponseWriter, r *http.Request) {
	a.withOrder(w, r, func(list *reorder.List) bool {
		list.Shuffle()
		return true
	})
}

func (a *API) withOrder(w http.ResponseWriter, r *http.Request, fn func(*reorder.List) bool) {
	sessionID := chi.URLParam(r, "session_id")
	questionID := chi.URLParam(r, "question_id")

	var response orderResponse
	err := a.sessions.With(sessionID, func(e *quiz.Engine) error {
		list, err := e.Reorder(questionID)
		if err != nil {
			return err
		}
		response = orderResponse{
			QuestionID: questionID,
			Moved:      fn(list),
			Order:      list.Items(),
		}
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) withSessionView(w http.ResponseWriter, r *http.Request, fn func(*quiz.Engine) error) {
	sessionID := chi.URLParam(r, "session_id")

	var response sessionResponse
	err := a.sessions.With(sessionID, func(e *quiz.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		response = newSessionResponse(sessionID, e)
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func newSessionResponse(sessionID string, e *quiz.Engine) sessionResponse {
	view := e.View()
	return sessionResponse{
		SessionID: sessionID,
		View:      view,
		Order:     view.Order(),
	}
}

func (a *API) HandleListTopics(w http.ResponseWriter, r *http.Request) {
	if a.topics == nil {
		writeJSON(w, http.StatusOK, topicsResponse{Topics: []study.Topic{}})
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{Topics: a.topics.List()})
}

func (a *API) HandleGetTopic(w http.ResponseWriter, r *http.Request) {
	if a.topics == nil {
		writeServiceError(w, study.ErrTopicNotFound)
		return
	}
	topic, err := a.topics.Get(strings.TrimSpace(chi.URLParam(r, "topic_id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

func (a *API) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	current, saved, err := a.theme.Get(r.Context(), parseBoolParam(r, "prefers_dark"))
	if err != nil {
		a.logger.LogError(err, "load theme failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: current, Saved: saved})
}

func (a *API) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var request themeRequest
	if !decodeBody(w, r, &request) {
		return
	}
	t, err := theme.Parse(request.Theme)
	if err == nil {
		err = a.theme.Set(r.Context(), t)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: t, Saved: true})
}

func (a *API) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	next, err := a.theme.Toggle(r.Context(), parseBoolParam(r, "prefers_dark"))
	if err != nil {
		a.logger.LogError(err, "toggle theme failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: next, Saved: true})
}
