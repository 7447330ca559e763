package providers

import (
	"context"
	"fmt"
)

// Request is one prompt sent to an LLM.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Completer is the provider abstraction interface.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

const defaultMaxTokens = 4096

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-20250514"
	case "openai":
		return "gpt-4o"
	case "gemini", "google":
		return "gemini-2.5-flash"
	case "ollama", "lmstudio":
		return "llama3.1"
	default:
		return ""
	}
}

// New creates a provider by name.
func New(provider, model string) (Completer, error) {
	if model == "" {
		model = DefaultModel(provider)
	}
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "gemini", "google":
		return NewGemini(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
