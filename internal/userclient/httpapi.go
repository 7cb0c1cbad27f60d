package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"studyhub/internal/quiz"
	"studyhub/internal/study"
)

var (
	ErrServiceUnavailable = errors.New("study hub service unavailable")
	ErrNoSession          = errors.New("no test in progress")
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient plays tests hosted by studyhub-service. It tracks one session
// at a time and satisfies cli.Driver.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	sessionID  string
}

type testsResponse struct {
	Tests []quiz.TestInfo `json:"tests"`
}

type topicsResponse struct {
	Topics []study.Topic `json:"topics"`
}

type createSessionRequest struct {
	TestID string `json:"test_id"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	quiz.View
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type reportResponse struct {
	SessionID string `json:"session_id"`
	quiz.Report
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) SessionID() string {
	return c.sessionID
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) ListTests(ctx context.Context) ([]quiz.TestInfo, error) {
	var payload testsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/tests", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tests, nil
}

func (c *HTTPClient) ListTopics(ctx context.Context) ([]study.Topic, error) {
	var payload topicsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/topics", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Topics, nil
}

// Start drops any session this client holds and opens a new one.
func (c *HTTPClient) Start(ctx context.Context, testID string) (quiz.View, error) {
	if c.sessionID != "" {
		if err := c.Exit(ctx); err != nil {
			return quiz.View{}, err
		}
	}

	var payload sessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", createSessionRequest{TestID: testID}, &payload); err != nil {
		return quiz.View{}, err
	}
	c.sessionID = payload.SessionID
	return payload.View, nil
}

func (c *HTTPClient) Record(ctx context.Context, questionID string, answer quiz.Answer) (quiz.View, error) {
	payload, err := quiz.EncodeAnswer(answer)
	if err != nil {
		return quiz.View{}, err
	}
	return c.sessionCall(ctx, http.MethodPut, "/answers/"+url.PathEscape(questionID), payload)
}

func (c *HTTPClient) Advance(ctx context.Context) (quiz.View, error) {
	return c.sessionCall(ctx, http.MethodPost, "/advance", nil)
}

func (c *HTTPClient) Retreat(ctx context.Context) (quiz.View, error) {
	return c.sessionCall(ctx, http.MethodPost, "/retreat", nil)
}

func (c *HTTPClient) Retake(ctx context.Context) (quiz.View, error) {
	return c.sessionCall(ctx, http.MethodPost, "/retake", nil)
}

func (c *HTTPClient) Move(ctx context.Context, questionID string, from, to int) (quiz.View, error) {
	path := "/questions/" + url.PathEscape(questionID) + "/order/move"
	if _, err := c.sessionCall(ctx, http.MethodPost, path, moveRequest{From: from, To: to}); err != nil {
		return quiz.View{}, err
	}
	return c.sessionCall(ctx, http.MethodGet, "", nil)
}

func (c *HTTPClient) Shuffle(ctx context.Context, questionID string) (quiz.View, error) {
	path := "/questions/" + url.PathEscape(questionID) + "/order/shuffle"
	if _, err := c.sessionCall(ctx, http.MethodPost, path, nil); err != nil {
		return quiz.View{}, err
	}
	return c.sessionCall(ctx, http.MethodGet, "", nil)
}

func (c *HTTPClient) Finish(ctx context.Context) (quiz.Report, error) {
	if c.sessionID == "" {
		return quiz.Report{}, ErrNoSession
	}
	var payload reportResponse
	if err := c.doJSON(ctx, http.MethodPost, c.sessionPath("/finish"), nil, &payload); err != nil {
		return quiz.Report{}, err
	}
	return payload.Report, nil
}

// Exit deletes the current session. A session the server already expired
// counts as deleted.
func (c *HTTPClient) Exit(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	err := c.doJSON(ctx, http.MethodDelete, c.sessionPath(""), nil, nil)
	var apiErr *APIError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound) {
		return err
	}
	c.sessionID = ""
	return nil
}

func (c *HTTPClient) sessionCall(ctx context.Context, method, suffix string, requestBody any) (quiz.View, error) {
	if c.sessionID == "" {
		return quiz.View{}, ErrNoSession
	}
	var payload sessionResponse
	if err := c.doJSON(ctx, method, c.sessionPath(suffix), requestBody, &payload); err != nil {
		return quiz.View{}, err
	}
	return payload.View, nil
}

func (c *HTTPClient) sessionPath(suffix string) string {
	return "/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
