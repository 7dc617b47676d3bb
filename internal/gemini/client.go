package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/loggy"
)

// Client represents a Google Gemini API client
type Client struct {
	apiKey           string
	baseURL          string
	defaultModel     string
	apiVersion       string
	httpClient       *http.Client
	maxRetries       int
	defaultMaxTokens int
	temperature      *float64
}

// NewClient creates a new Gemini client from config
func NewClient(cfg config.GeminiConfig) *Client {
	// Ensure baseURL doesn't end with a slash
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	defaultModel := cfg.Model
	if defaultModel == "" {
		defaultModel = "gemini-1.5-pro"
	}

	defaultMaxTokens := cfg.MaxTokens
	if defaultMaxTokens <= 0 {
		defaultMaxTokens = 4096
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	var tempPtr *float64
	if cfg.Temperature > 0 {
		tempPtr = &cfg.Temperature
	}

	return &Client{
		apiKey:           cfg.APIKey,
		baseURL:          baseURL,
		defaultModel:     defaultModel,
		apiVersion:       apiVersion,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		maxRetries:       cfg.MaxRetries,
		defaultMaxTokens: defaultMaxTokens,
		temperature:      tempPtr,
	}
}

// GenerateChat sends a generateContent request to Gemini
func (c *Client) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	// Set default model if none specified
	if req.Model == "" {
		req.Model = c.defaultModel
	}

	if req.GenerationConfig == nil {
		req.GenerationConfig = &GenerationConfig{}
	}

	// Set default max tokens if none specified
	if req.GenerationConfig.MaxOutputTokens <= 0 {
		req.GenerationConfig.MaxOutputTokens = c.defaultMaxTokens
	}

	// Set default temperature if none specified and client has a default
	if req.GenerationConfig.Temperature == nil && c.temperature != nil {
		req.GenerationConfig.Temperature = c.temperature
	}

	path := fmt.Sprintf("/%s/models/%s:generateContent", c.apiVersion, req.Model)

	var resp ChatResponse
	if err := c.makeRequest(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("generating chat completion: %w", err)
	}

	return &resp, nil
}

// ListModels lists the models available to the configured API key
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var resp ListModelsResponse
	path := fmt.Sprintf("/%s/models", c.apiVersion)
	if err := c.makeRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return resp.Models, nil
}

// makeRequest is a helper function to make HTTP requests with retries
// It uses exponential backoff for retrying failed requests
func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, response interface{}) error {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}

		loggy.Debug("Sending GEMINI LLM request",
			"method", method,
			"url", c.baseURL+path,
			"body_length", len(bodyBytes))
	}

	var lastErr error
	operation := func() error {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("sending request: %w", err)
			return lastErr
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("reading response body: %w", err)
			return lastErr
		}

		loggy.Debug("Gemini API response",
			"status", resp.Status,
			"content_length", len(respBody))

		if resp.StatusCode != http.StatusOK {
			lastErr = c.handleErrorResponse(resp, respBody)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}

		if err := json.Unmarshal(respBody, response); err != nil {
			lastErr = fmt.Errorf("decoding response: %w", err)
			return lastErr
		}

		return nil
	}

	if err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries))); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}

	return nil
}

// handleErrorResponse processes error responses from the API
// It attempts to parse the error JSON and return a structured error
func (c *Client) handleErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.ErrorDetail == nil {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return &apiErr
}
