package analysis

import (
	"context"
)

// Provider is the narrow interface over a remote language-model service.
// Implementations perform one blocking completion call per Generate; no
// retries, no response parsing.
type Provider interface {
	// Name returns the provider identifier for logging
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to an AI provider
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the AI provider's response
type Response struct {
	Content string
	Model   string
}
