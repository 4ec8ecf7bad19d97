package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is the chat model used when none is configured
	DefaultOpenAIModel = openai.GPT4oMini

	// DefaultOllamaModel and DefaultOllamaURL target a local Ollama server
	DefaultOllamaModel = "gemma3:1b"
	DefaultOllamaURL   = "http://localhost:11434"
)

// OpenAIModel sends prompts to an OpenAI chat model
type OpenAIModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIModel creates an OpenAI backed model
func NewOpenAIModel(apiKey, model string) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return newOpenAIModel(openai.DefaultConfig(apiKey), model), nil
}

// NewOpenAIModelWithConfig creates a model from a client configuration, for
// OpenAI-compatible endpoints such as a local Ollama server
func NewOpenAIModelWithConfig(config openai.ClientConfig, model string) *OpenAIModel {
	return newOpenAIModel(config, model)
}

// NewOllamaModel creates a model served by Ollama's OpenAI-compatible API
func NewOllamaModel(baseURL, model string) *OpenAIModel {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	config := openai.DefaultConfig("ollama")
	config.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	return newOpenAIModel(config, model)
}

func newOpenAIModel(config openai.ClientConfig, model string) *OpenAIModel {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIModel{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Complete sends prompt as a single user message and returns the reply text
func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
