package openai

import (
	"fmt"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // user, assistant, or system
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request to the OpenAI API
type ChatRequest struct {
	Model       string    `json:"model"`                 // Model to use (e.g., "gpt-4o-mini")
	Messages    []Message `json:"messages"`              // Chat history messages
	MaxTokens   int       `json:"max_tokens,omitempty"`  // Maximum tokens to generate
	Temperature *float64  `json:"temperature,omitempty"` // Controls randomness
	TopP        *float64  `json:"top_p,omitempty"`       // Nucleus sampling parameter
	Stream      bool      `json:"stream,omitempty"`      // Whether to stream the response
	Stop        []string  `json:"stop,omitempty"`        // Sequences that cause generation to stop
}

// Choice is one completion alternative in a chat response
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"` // stop, length, content_filter, ...
}

// ChatResponse represents a response from the chat completions endpoint
type ChatResponse struct {
	ID      string     `json:"id,omitempty"`      // Response ID
	Object  string     `json:"object,omitempty"`  // Object type ("chat.completion")
	Created int64      `json:"created,omitempty"` // Creation timestamp
	Model   string     `json:"model,omitempty"`   // Model used
	Choices []Choice   `json:"choices"`           // Completion choices
	Usage   *UsageInfo `json:"usage,omitempty"`   // Token usage information
}

// Text returns the content of the first choice, or "" when the
// response carries none.
func (r *ChatResponse) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// UsageInfo contains token usage information for a request
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelInfo describes a model available to the API key
type ModelInfo struct {
	ID      string `json:"id"`       // Model identifier
	Object  string `json:"object"`   // Object type ("model")
	Created int64  `json:"created"`  // Creation timestamp
	OwnedBy string `json:"owned_by"` // Owner organization
}

// ListModelsResponse represents the response from the models endpoint
type ListModelsResponse struct {
	Object string      `json:"object"` // Object type ("list")
	Data   []ModelInfo `json:"data"`   // Available models
}

// APIError represents an error response from the OpenAI API
type APIError struct {
	ErrorDetails struct {
		Message string `json:"message"` // Error message
		Type    string `json:"type"`    // Error type
		Param   string `json:"param"`   // Offending parameter, if any
		Code    any    `json:"code"`    // Error code (string or number)
	} `json:"error"`
}

// Error implements the error interface for APIError
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorDetails.Type, e.ErrorDetails.Message)
}
