package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/postforge/postforge/internal/claude"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/gemini"
	"github.com/postforge/postforge/internal/loggy"
	"github.com/postforge/postforge/internal/openai"
)

// ChatRequest represents a generic chat request to any LLM
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Message represents a chat message with role and content
type Message struct {
	Role    string `json:"role"` // user, assistant, or system
	Content string `json:"content"`
}

// ChatResponse represents a response from a chat request
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// ModelInfo describes a model a provider can serve
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Client defines the interface for LLM clients
type Client interface {
	// GenerateChat sends a non-streaming chat request
	GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ListModels lists the generation models the provider offers
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ClientType defines the type of LLM client
type ClientType string

const (
	// OpenAI client type
	OpenAI ClientType = "openai"

	// Claude client type
	Claude ClientType = "claude"

	// Gemini client type
	Gemini ClientType = "gemini"
)

// Factory creates and returns LLM clients
type Factory struct {
	config *config.Config
	openai *openai.Client
	claude *claude.Client
	gemini *gemini.Client
	logger *loggy.Logger

	openaiLimiter *rate.Limiter
	claudeLimiter *rate.Limiter
	geminiLimiter *rate.Limiter
}

// helper function to create a rate limiter from RPM and Burst
func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		// If RPM is zero or negative, allow infinite rate (no limiting)
		return rate.NewLimiter(rate.Inf, burst)
	}
	r := rate.Limit(float64(rpm) / 60.0)
	b := burst
	if b <= 0 {
		b = 1
	}
	return rate.NewLimiter(r, b)
}

// NewFactory creates a new LLM client factory
func NewFactory(cfg *config.Config, logger *loggy.Logger) *Factory {
	f := &Factory{
		config: cfg,
		logger: logger,
	}

	if cfg.OpenAI.APIKey != "" {
		f.openai = openai.NewClient(cfg.OpenAI)
		f.openaiLimiter = newLimiter(cfg.OpenAI.RequestsPerMinute, cfg.OpenAI.BurstLimit)
		loggy.Info("initialized OpenAI client", "model", cfg.OpenAI.Model, "rpm", cfg.OpenAI.RequestsPerMinute, "burst", cfg.OpenAI.BurstLimit)
	}

	if cfg.Claude.APIKey != "" {
		f.claude = claude.NewClient(cfg.Claude)
		f.claudeLimiter = newLimiter(cfg.Claude.RequestsPerMinute, cfg.Claude.BurstLimit)
		loggy.Info("initialized Claude client", "model", cfg.Claude.Model, "rpm", cfg.Claude.RequestsPerMinute, "burst", cfg.Claude.BurstLimit)
	}

	if cfg.Gemini.APIKey != "" {
		f.gemini = gemini.NewClient(cfg.Gemini)
		f.geminiLimiter = newLimiter(cfg.Gemini.RequestsPerMinute, cfg.Gemini.BurstLimit)
		loggy.Info("initialized Gemini client", "model", cfg.Gemini.Model, "rpm", cfg.Gemini.RequestsPerMinute, "burst", cfg.Gemini.BurstLimit)
	}

	return f
}

// Available returns the client types that are configured
func (f *Factory) Available() []ClientType {
	var types []ClientType
	if f.openai != nil {
		types = append(types, OpenAI)
	}
	if f.claude != nil {
		types = append(types, Claude)
	}
	if f.gemini != nil {
		types = append(types, Gemini)
	}
	return types
}

// GetClient returns an LLM client of the specified type
func (f *Factory) GetClient(clientType ClientType) (Client, error) {
	switch clientType {
	case OpenAI:
		if f.openai == nil {
			return nil, fmt.Errorf("OpenAI client not initialized - check configuration")
		}
		return newOpenAIClientAdapter(f.openai, f.openaiLimiter), nil

	case Claude:
		if f.claude == nil {
			return nil, fmt.Errorf("Claude client not initialized - check configuration")
		}
		return newClaudeClientAdapter(f.claude, f.claudeLimiter), nil

	case Gemini:
		if f.gemini == nil {
			return nil, fmt.Errorf("Gemini client not initialized - check configuration")
		}
		return newGeminiClientAdapter(f.gemini, f.geminiLimiter), nil

	default:
		return nil, fmt.Errorf("unknown client type: %s", clientType)
	}
}

// GetDefaultClient returns the default client based on configuration
func (f *Factory) GetDefaultClient() (Client, ClientType, error) {
	defaultType := ClientType(f.config.DefaultLLMProvider)

	client, err := f.GetClient(defaultType)
	if err == nil {
		return client, defaultType, nil
	}

	// Fallback to first available client
	f.logger.Warn("Default LLM provider not available, falling back", "default", defaultType, "error", err)

	for _, t := range f.Available() {
		if client, err := f.GetClient(t); err == nil {
			return client, t, nil
		}
	}
	return nil, "", fmt.Errorf("no LLM clients initialized - check configuration")
}

// GenerateChat generates a chat response from the default LLM provider
func (f *Factory) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	f.logger.Debug("Generating chat using default provider")

	client, _, err := f.GetDefaultClient()
	if err != nil {
		return nil, err
	}

	return client.GenerateChat(ctx, req)
}
