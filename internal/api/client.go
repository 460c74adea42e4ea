package api

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
	"strings"
	"time"

	"changos/internal/models"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "CHANGOS_HTTP_TIMEOUT"
	maxResponseBytes   = 8 << 20
)

// Client is a simple HTTP client for the remote task store.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// BaseURL returns the store URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks whether the task store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/tasks", nil, nil, false)
}

// Health queries GET /health on a local task store.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info queries GET /info on a local task store.
func (c *Client) Info(ctx context.Context) (*InfoResponse, error) {
	var resp InfoResponse
	if err := c.do(ctx, http.MethodGet, "/info", nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks returns every task known to the store.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var resp []models.Task
	err := c.do(ctx, http.MethodGet, "/tasks", nil, &resp, false)
	if resp == nil && err == nil {
		resp = []models.Task{}
	}
	return resp, err
}

// CreateTask persists a new task. Any id on the input is not sent.
// Stores that answer with something other than a task record yield a zero
// Task and no error.
func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var resp models.Task
	err := c.do(ctx, http.MethodPost, "/task", task.Editable(), &resp, true)
	return resp, err
}

// UpdateTask replaces the stored fields of the task identified by id. Every
// editable field is sent, so cleared optional fields are cleared in the store.
func (c *Client) UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error) {
	var resp models.Task
	if strings.TrimSpace(id) == "" {
		return resp, fmt.Errorf("id is required")
	}
	err := c.do(ctx, http.MethodPut, "/task/"+url.PathEscape(id), PatchFromTask(task), &resp, true)
	return resp, err
}

// DeleteTask removes the task identified by id.
func (c *Client) DeleteTask(ctx context.Context, id string) (models.Task, error) {
	var resp models.Task
	if strings.TrimSpace(id) == "" {
		return resp, fmt.Errorf("id is required")
	}
	err := c.do(ctx, http.MethodDelete, "/task/"+url.PathEscape(id), nil, &resp, true)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, lenient bool) error {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if lenient {
			return nil
		}
		return fmt.Errorf("empty response from %s %s", method, path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		if lenient {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Error
		return apiErr
	}

	if text := strings.TrimSpace(string(data)); text != "" && len(text) < 256 && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
		return apiErr
	}
	apiErr.Message = fmt.Sprintf("api error: %s", resp.Status)
	return apiErr
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
