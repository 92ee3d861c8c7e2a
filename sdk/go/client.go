package verblinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Verbline HTTP API client.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults. The client is safe for
// concurrent use.
func New(baseURL string) *Client {
	timeout := 10 * time.Second
	return &Client{
		BaseURL:    baseURL,
		BasePath:   "api/v1",
		Timeout:    timeout,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Verb represents the API verb model.
type Verb struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ActionLog represents one entry of a verb's history.
type ActionLog struct {
	ID         string  `json:"id"`
	VerbID     string  `json:"verb_id"`
	ActionType string  `json:"action_type"`
	FromState  *string `json:"from_state,omitempty"`
	ToState    string  `json:"to_state"`
	Reason     string  `json:"reason,omitempty"`
	Timestamp  string  `json:"timestamp"`
}

// VerbPage wraps list responses.
type VerbPage struct {
	Verbs  []Verb `json:"verbs"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

// CreateVerb captures a new verb.
func (c *Client) CreateVerb(ctx context.Context, title, description string) (Verb, error) {
	body := map[string]any{"title": title}
	if description != "" {
		body["description"] = description
	}
	var resp Verb
	err := c.do(ctx, http.MethodPost, c.apiPath("verbs"), body, &resp)
	return resp, err
}

// GetVerb fetches one verb.
func (c *Client) GetVerb(ctx context.Context, id string) (Verb, error) {
	var resp Verb
	err := c.do(ctx, http.MethodGet, c.apiPath("verbs/"+url.PathEscape(id)), nil, &resp)
	return resp, err
}

// ListVerbs returns a page of verbs. State, limit, and offset are
// optional; zero values are omitted.
func (c *Client) ListVerbs(ctx context.Context, state string, limit, offset int) (VerbPage, error) {
	q := url.Values{}
	if state != "" {
		q.Set("state", state)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprint(offset))
	}
	endpoint := c.apiPath("verbs")
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp VerbPage
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// SetState transitions a verb to the next state.
func (c *Client) SetState(ctx context.Context, id, state, reason string) (Verb, error) {
	body := map[string]any{"state": state}
	if reason != "" {
		body["reason"] = reason
	}
	var resp Verb
	err := c.do(ctx, http.MethodPut, c.apiPath("verbs/"+url.PathEscape(id)+"/state"), body, &resp)
	return resp, err
}

// Drop abandons a verb with a reason.
func (c *Client) Drop(ctx context.Context, id, reason string) (Verb, error) {
	body := map[string]any{"reason": reason}
	var resp Verb
	err := c.do(ctx, http.MethodDelete, c.apiPath("verbs/"+url.PathEscape(id)), body, &resp)
	return resp, err
}

// Logs returns a verb's action log, oldest first.
func (c *Client) Logs(ctx context.Context, id string) ([]ActionLog, error) {
	var resp []ActionLog
	err := c.do(ctx, http.MethodGet, c.apiPath("verbs/"+url.PathEscape(id)+"/logs"), nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(b, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(b)
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) apiPath(p string) string {
	return strings.Trim(c.BasePath, "/") + "/" + strings.TrimLeft(p, "/")
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
