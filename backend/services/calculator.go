// ABOUTME: HTTP client for the external model-memory calculation service
// ABOUTME: Fetches models and options, and submits inference/training calculations with retries

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amazingchow/LLMToolset/backend/logger"
	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/hashicorp/go-retryablehttp"
)

// maxUpstreamBody bounds how much of an upstream response is read.
const maxUpstreamBody = 4 << 20

// ErrNotFound is returned when the calculation service answers 404.
var ErrNotFound = errors.New("not found")

// UpstreamError is a non-2xx answer from the calculation service.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("calculation service returned %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// CalculatorClient talks to the calculation service.
type CalculatorClient struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewCalculatorClient creates a client with the given per-attempt timeout and retry budget.
func NewCalculatorClient(baseURL string, timeout time.Duration, retryMax int) *CalculatorClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			slog.Warn("Retrying calculation service request", "method", req.Method, "path", req.URL.Path, "attempt", attempt)
		}
	}
	// Keep the final response so its error body can be decoded.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &CalculatorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  rc,
	}
}

// BaseURL returns the configured service URL.
func (c *CalculatorClient) BaseURL() string {
	return c.baseURL
}

// Health pings the service's health endpoint.
func (c *CalculatorClient) Health(ctx context.Context) error {
	var out map[string]any
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

// Models lists the model names the service can size.
func (c *CalculatorClient) Models(ctx context.Context) ([]string, error) {
	var out models.ModelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/models", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return out.Models, nil
}

// ModelInfo returns the extracted architecture parameters for one model.
func (c *CalculatorClient) ModelInfo(ctx context.Context, name string) (*models.ModelInfo, error) {
	if err := ValidateModelName(name); err != nil {
		return nil, err
	}
	var out models.ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/models/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get model %s: %w", name, err)
	}
	return &out, nil
}

// ConfigOptions returns the accepted data types, optimizers and models.
func (c *CalculatorClient) ConfigOptions(ctx context.Context) (*models.ConfigOptions, error) {
	var out models.ConfigOptions
	if err := c.do(ctx, http.MethodGet, "/api/config/options", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get config options: %w", err)
	}
	return &out, nil
}

// Calculate submits a request to the inference or training endpoint.
func (c *CalculatorClient) Calculate(ctx context.Context, calcType models.CalculationType, req models.CalculationRequest) (*models.CalculationResponse, error) {
	path := "/api/memory/inference"
	if calcType == models.CalculationTraining {
		path = "/api/memory/training"
	}

	var out models.CalculationResponse
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, fmt.Errorf("%s calculation failed: %w", calcType, err)
	}
	if out.CalculationType == "" {
		out.CalculationType = calcType
	}
	return &out, nil
}

func (c *CalculatorClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var reqBody any
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if resp == nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("cannot reach calculation service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &UpstreamError{StatusCode: resp.StatusCode, Message: sanitizeForLog(msg)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
