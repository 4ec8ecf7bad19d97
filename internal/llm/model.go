package llm

import (
	"context"
	"fmt"
	"time"
)

// Model is a language model: a prompt goes in, the raw reply text comes out
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelFunc adapts a function to the Model interface
type ModelFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f
func (f ModelFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Config selects and configures a model backend
type Config struct {
	Provider  string // "openai", "gemini" or "ollama"
	Model     string // Provider specific model name, empty for the default
	OpenAIKey string
	GeminiKey string
	BaseURL   string // Ollama server URL

	// Circuit breaker settings; MaxFailures of 0 disables the breaker
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DefaultConfig returns the default model configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:           "openai",
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// NewModel creates the model named by config.Provider
func NewModel(ctx context.Context, config *Config) (Model, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		model Model
		err   error
	)
	switch config.Provider {
	case "openai", "":
		model, err = NewOpenAIModel(config.OpenAIKey, config.Model)
	case "gemini":
		model, err = NewGeminiModel(ctx, config.GeminiKey, config.Model)
	case "ollama":
		model = NewOllamaModel(config.BaseURL, config.Model)
	default:
		return nil, fmt.Errorf("unknown model provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.BreakerMaxFailures > 0 {
		model = NewBreakerModel("llm-"+providerName(config.Provider), model, config.BreakerMaxFailures, config.BreakerTimeout)
	}
	return model, nil
}

func providerName(p string) string {
	if p == "" {
		return "openai"
	}
	return p
}
