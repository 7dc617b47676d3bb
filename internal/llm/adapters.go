package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/postforge/postforge/internal/claude"
	"github.com/postforge/postforge/internal/gemini"
	"github.com/postforge/postforge/internal/openai"
)

// openaiClientAdapter adapts the OpenAI client to the LLM Client interface
type openaiClientAdapter struct {
	client  *openai.Client
	limiter *rate.Limiter
}

// newOpenAIClientAdapter creates a new OpenAI client adapter
func newOpenAIClientAdapter(client *openai.Client, limiter *rate.Limiter) *openaiClientAdapter {
	return &openaiClientAdapter{client: client, limiter: limiter}
}

// GenerateChat implements the Client interface for OpenAI
func (a *openaiClientAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	messages := make([]openai.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.Message{Role: m.Role, Content: m.Content})
	}

	openaiReq := openai.ChatRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		openaiReq.Temperature = &temp
	}

	resp, err := a.client.GenerateChat(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("openai chat generation failed: %w", err)
	}

	return &ChatResponse{
		Content: resp.Text(),
		Model:   resp.Model,
	}, nil
}

// ListModels implements the Client interface for OpenAI
func (a *openaiClientAdapter) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	models, err := a.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("openai model listing failed: %w", err)
	}

	var out []ModelInfo
	for _, m := range models {
		// The models endpoint mixes chat models with embedding,
		// audio and moderation models; keep the GPT family only.
		if !strings.Contains(m.ID, "gpt") {
			continue
		}
		out = append(out, ModelInfo{ID: m.ID})
	}
	return out, nil
}

// claudeClientAdapter adapts the Claude client to the LLM Client interface
type claudeClientAdapter struct {
	client  *claude.Client
	limiter *rate.Limiter
}

// newClaudeClientAdapter creates a new Claude client adapter
func newClaudeClientAdapter(client *claude.Client, limiter *rate.Limiter) *claudeClientAdapter {
	return &claudeClientAdapter{client: client, limiter: limiter}
}

// GenerateChat implements the Client interface for Claude
func (a *claudeClientAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	system := req.System
	messages := make([]claude.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		// Claude takes system instructions as a top level field,
		// not as a message.
		if m.Role == "system" {
			if system == "" {
				system = m.Content
			}
			continue
		}
		messages = append(messages, claude.Message{Role: m.Role, Content: m.Content})
	}

	claudeReq := claude.ChatRequest{
		Model:     req.Model,
		Messages:  messages,
		System:    system,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		claudeReq.Temperature = &temp
	}

	resp, err := a.client.GenerateChat(ctx, claudeReq)
	if err != nil {
		return nil, fmt.Errorf("claude chat generation failed: %w", err)
	}

	return &ChatResponse{
		Content: resp.Text(),
		Model:   resp.Model,
	}, nil
}

// ListModels implements the Client interface for Claude
func (a *claudeClientAdapter) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	models, err := a.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("claude model listing failed: %w", err)
	}

	out := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, ModelInfo{ID: m.ID, DisplayName: m.DisplayName})
	}
	return out, nil
}

// geminiClientAdapter adapts the Gemini client to the LLM Client interface
type geminiClientAdapter struct {
	client  *gemini.Client
	limiter *rate.Limiter
}

// newGeminiClientAdapter creates a new Gemini client adapter
func newGeminiClientAdapter(client *gemini.Client, limiter *rate.Limiter) *geminiClientAdapter {
	return &geminiClientAdapter{client: client, limiter: limiter}
}

// GenerateChat implements the Client interface for Gemini
func (a *geminiClientAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	system := req.System
	contents := make([]gemini.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		// Gemini takes system instructions as a top level field and
		// uses "model" where everyone else uses "assistant".
		if m.Role == "system" {
			if system == "" {
				system = m.Content
			}
			continue
		}
		role := m.Role
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, gemini.Content{
			Role:  role,
			Parts: []gemini.Part{{Text: m.Content}},
		})
	}

	geminiReq := gemini.ChatRequest{
		Model:    req.Model,
		Contents: contents,
	}
	if system != "" {
		geminiReq.SystemInstruction = &gemini.Content{
			Parts: []gemini.Part{{Text: system}},
		}
	}

	cfg := &gemini.GenerationConfig{MaxOutputTokens: req.MaxTokens}
	if req.Temperature > 0 {
		temp := req.Temperature
		cfg.Temperature = &temp
	}
	geminiReq.GenerationConfig = cfg

	resp, err := a.client.GenerateChat(ctx, geminiReq)
	if err != nil {
		return nil, fmt.Errorf("gemini chat generation failed: %w", err)
	}

	return &ChatResponse{
		Content: resp.Text(),
		Model:   req.Model,
	}, nil
}

// ListModels implements the Client interface for Gemini
func (a *geminiClientAdapter) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	models, err := a.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("gemini model listing failed: %w", err)
	}

	var out []ModelInfo
	for _, m := range models {
		if !supportsGeneration(m) {
			continue
		}
		out = append(out, ModelInfo{
			ID:          strings.TrimPrefix(m.Name, "models/"),
			DisplayName: m.DisplayName,
		})
	}
	return out, nil
}

func supportsGeneration(m gemini.ModelInfo) bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// waitLimiter blocks until the provider's rate limiter admits the
// request. A nil limiter admits immediately.
func waitLimiter(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
