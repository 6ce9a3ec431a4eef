// ABOUTME: HTTP client for the GPU memory analyzer API
// ABOUTME: Wraps API calls with proper error handling for CLI and TUI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amazingchow/LLMToolset/backend/models"
)

// Client is the API client for the analyzer backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Calculations wait on the upstream service and its retries.
			Timeout: 90 * time.Second,
		},
	}
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GPUFilter narrows a catalog listing. Zero values mean no filter.
type GPUFilter struct {
	Category    string
	MinMemoryGB float64
	MaxMemoryGB float64
}

func (f GPUFilter) query() string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinMemoryGB > 0 {
		q.Set("min_memory", strconv.FormatFloat(f.MinMemoryGB, 'f', -1, 64))
	}
	if f.MaxMemoryGB > 0 {
		q.Set("max_memory", strconv.FormatFloat(f.MaxMemoryGB, 'f', -1, 64))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GPUs calls GET /api/v1/gpus
func (c *Client) GPUs(ctx context.Context, filter GPUFilter) ([]models.GPUProfile, error) {
	var gpus []models.GPUProfile
	if err := c.do(ctx, http.MethodGet, "/api/v1/gpus"+filter.query(), nil, &gpus); err != nil {
		return nil, err
	}
	return gpus, nil
}

// Catalog calls GET /api/v1/catalog
func (c *Client) Catalog(ctx context.Context) (*models.CatalogResponse, error) {
	var catalog models.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Calculate calls POST /api/v1/memory/{inference,training}
func (c *Client) Calculate(ctx context.Context, calcType models.CalculationType, input *models.MemoryCalculationInput) (*models.AnalysisResponse, error) {
	path := "/api/v1/memory/inference"
	if calcType == models.CalculationTraining {
		path = "/api/v1/memory/training"
	}
	var resp models.AnalysisResponse
	if err := c.do(ctx, http.MethodPost, path, input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze calls POST /api/v1/analysis
func (c *Client) Analyze(ctx context.Context, input *models.AnalysisInput) (*models.AnalysisResponse, error) {
	var resp models.AnalysisResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/analysis", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if errResp.Details != "" {
		return fmt.Errorf("backend error: %s (%s)", errResp.Error, errResp.Details)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
