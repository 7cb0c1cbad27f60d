package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"studyhub/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := NewHTTPClient("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	err := client.doJSON(context.Background(), http.MethodGet, "/healthz", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "bad request payload"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	err := client.doJSON(context.Background(), http.MethodGet, "/anything", nil, nil)
	if err == nil {
		t.Fatalf("expected API error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if apiErr.Message != "bad request payload" {
		t.Fatalf("message = %q, want %q", apiErr.Message, "bad request payload")
	}
}

func TestRecordSendsTaggedAnswer(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   quiz.AnswerPayload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": "s-1",
			"test_id":    "t",
			"phase":      "in-progress",
			"answered":   1,
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", server.Client())
	client.sessionID = "s-1"

	view, err := client.Record(context.Background(), "5", quiz.Sequence{"b", "a"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/sessions/s-1/answers/5" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody.Kind != quiz.KindOrderedSequence || string(gotBody.Value) != `["b","a"]` {
		t.Fatalf("body = %+v (%s)", gotBody, gotBody.Value)
	}
	if view.Answered != 1 || view.Phase != quiz.PhaseInProgress {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestSessionCallsNeedASession(t *testing.T) {
	client := NewHTTPClient("http://example.test", nil)

	if _, err := client.Advance(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Advance error = %v, want ErrNoSession", err)
	}
	if _, err := client.Finish(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Finish error = %v, want ErrNoSession", err)
	}
	if err := client.Exit(context.Background()); err != nil {
		t.Fatalf("Exit without session: %v", err)
	}
}

func TestExitToleratesExpiredSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "session not found"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	client.sessionID = "gone"
	if err := client.Exit(context.Background()); err != nil {
		t.Fatalf("Exit failed: %v", err)
	}
	if client.SessionID() != "" {
		t.Fatalf("session id not cleared")
	}
}
