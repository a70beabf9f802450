// Package n8n provides the read-only client for the workflow platform's
// execution history API.
package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/conexia/flowlens/pkg/models"
)

const (
	apiKeyHeader   = "X-N8N-API-KEY"
	requestTimeout = 30 * time.Second
	defaultLimit   = 50
)

// ErrUpstream is returned when the execution history API is unreachable or
// answers with a non-success status. The batch is discarded; callers get no
// partial results.
var ErrUpstream = errors.New("execution history request failed")

// IsUpstreamError checks whether an error originates from the upstream API.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// ExecutionList is one page of execution history.
type ExecutionList struct {
	Data       []*models.Execution `json:"data"`
	NextCursor *string             `json:"nextCursor,omitempty"`
}

// ListOptions filters an execution history page.
type ListOptions struct {
	WorkflowID string
	Status     string
	Cursor     string
	Limit      int
}

// Client performs authenticated requests against the platform API. Each
// call is a single attempt; there is no retry or backoff.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given API base URL and key.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With("module", "n8n_client"),
	}
}

// Executions fetches one page of execution history, always including the
// nested run data needed by the extractor.
func (c *Client) Executions(ctx context.Context, opts ListOptions) (*ExecutionList, error) {
	params := url.Values{}
	params.Set("includeData", "true")

	if opts.WorkflowID != "" {
		params.Set("workflowId", opts.WorkflowID)
	}

	if opts.Status != "" && opts.Status != "all" {
		params.Set("status", opts.Status)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	params.Set("limit", strconv.Itoa(limit))

	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var list ExecutionList
	if err := c.get(ctx, "/executions?"+params.Encode(), &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// Execution fetches one execution with its run data.
func (c *Client) Execution(ctx context.Context, id string) (*models.Execution, error) {
	var execution models.Execution
	if err := c.get(ctx, "/executions/"+url.PathEscape(id)+"?includeData=true", &execution); err != nil {
		return nil, err
	}

	return &execution, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Execution history API returned an error",
			"status", resp.StatusCode, "body", string(body))

		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %w", ErrUpstream, err)
	}

	return nil
}
