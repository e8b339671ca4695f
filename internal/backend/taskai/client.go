// Package taskai implements the service contracts against the TaskAI
// backend REST API.
package taskai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"taskai/internal/config"
	"taskai/internal/service"
)

// APITimeout is the timeout for API calls.
const APITimeout = 15 * time.Second

// Client implements service.TaskService and service.AgentService over the
// backend's REST API.
type Client struct {
	base string
	http *http.Client
}

// New creates a client from stored configuration and token.
// Requires config.yaml and token.json to exist; the token source
// auto-refreshes through the backend's token endpoint.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	settings, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, config.ErrNotAuthenticated
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", config.ErrNotAuthenticated)
	}

	oauthConfig := settings.OAuthConfig()
	tokenSource := oauthConfig.TokenSource(ctx, &token)

	return &Client{
		base: settings.ServerURL,
		http: oauth2.NewClient(ctx, tokenSource),
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: baseURL, http: httpClient}
}

// CreateTask implements service.TaskService.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", nil, draft, &task)
	return task, err
}

// ListTasks implements service.TaskService.
func (c *Client) ListTasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	params := url.Values{}
	if q.Priority != "" {
		params.Set("priority", q.Priority)
	}
	if q.Completed != nil {
		params.Set("completed", strconv.FormatBool(*q.Completed))
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.Overdue {
		params.Set("overdue", "true")
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
		order := "asc"
		if q.Descending {
			order = "desc"
		}
		params.Set("sort_order", order)
	}

	var tasks []service.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", params, nil, &tasks)
	return tasks, err
}

// GetTask implements service.TaskService.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &task)
	return task, err
}

// UpdateTask implements service.TaskService.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), nil, patch, &task)
	return task, err
}

// DeleteTask implements service.TaskService.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// ToggleTask implements service.TaskService.
func (c *Client) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil, nil, &task)
	return task, err
}

// SearchTasks implements service.TaskService.
func (c *Client) SearchTasks(ctx context.Context, query string) ([]service.Task, error) {
	params := url.Values{}
	params.Set("q", query)

	var tasks []service.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/search", params, nil, &tasks)
	return tasks, err
}

// SendMessage implements service.AgentService.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (service.Message, error) {
	body := map[string]string{"message": text}
	if conversationID != "" {
		body["conversation_id"] = conversationID
	}

	// The backend wraps the assistant reply in a {"message": ...} envelope.
	var resp struct {
		Message service.Message `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/chat", nil, body, &resp)
	return resp.Message, err
}

// Conversation implements service.AgentService.
func (c *Client) Conversation(ctx context.Context, conversationID string) (service.Conversation, error) {
	var conv service.Conversation
	err := c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(conversationID), nil, nil, &conv)
	return conv, err
}

// do issues one API request and decodes the response into out (if non-nil).
// Non-2xx responses are mapped onto the service error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &service.OperationError{Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &service.OperationError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &service.OperationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wrapStatus(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &service.OperationError{Detail: "unexpected response payload", Err: err}
	}
	return nil
}

// wrapStatus maps an error response onto the taxonomy, extracting the
// server's detail string when the body carries one.
func wrapStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return &service.NotFoundError{}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &service.OperationError{Detail: "token expired or revoked (run: taskai login)"}
	}

	detail := ""
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Detail != "" {
			detail = payload.Detail
		} else {
			detail = payload.Error
		}
	}
	if detail == "" {
		detail = fmt.Sprintf("server returned %s", resp.Status)
	}
	return &service.OperationError{Detail: detail}
}
