package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

func newChatServer(t *testing.T, reply string, status int) (*httptest.Server, *openai.ChatCompletionRequest) {
	t.Helper()

	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  got.Model,
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}, "finish_reason": "stop"},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestOpenAIModelComplete(t *testing.T) {
	srv, got := newChatServer(t, "  {\"cleaned_text\": \"a\", \"summary\": \"b\"}\n", http.StatusOK)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = srv.URL + "/v1"
	model := NewOpenAIModelWithConfig(config, "")

	reply, err := model.Complete(context.Background(), "hello model")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != `{"cleaned_text": "a", "summary": "b"}` {
		t.Errorf("reply = %q, want trimmed content", reply)
	}
	if got.Model != DefaultOpenAIModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultOpenAIModel)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello model" || got.Messages[0].Role != openai.ChatMessageRoleUser {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIModelServerError(t *testing.T) {
	srv, _ := newChatServer(t, "", http.StatusInternalServerError)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = srv.URL + "/v1"

	if _, err := NewOpenAIModelWithConfig(config, "gpt-4o").Complete(context.Background(), "x"); err == nil {
		t.Error("expected an error from a failing server")
	}
}

func TestOllamaModel(t *testing.T) {
	srv, got := newChatServer(t, "bonjour", http.StatusOK)

	reply, err := NewOllamaModel(srv.URL+"/", "").Complete(context.Background(), "translate")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "bonjour" {
		t.Errorf("reply = %q, want bonjour", reply)
	}
	if got.Model != DefaultOllamaModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultOllamaModel)
	}
}

func TestNewModel(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"openai without key", &Config{Provider: "openai"}, true},
		{"openai with key", &Config{Provider: "openai", OpenAIKey: "k"}, false},
		{"default provider", &Config{OpenAIKey: "k", BreakerMaxFailures: 3, BreakerTimeout: time.Second}, false},
		{"gemini without key", &Config{Provider: "gemini"}, true},
		{"ollama", &Config{Provider: "ollama"}, false},
		{"unknown", &Config{Provider: "parrot"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewModel(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && model == nil {
				t.Error("NewModel returned nil model")
			}
		})
	}
}

func TestNewModelWrapsBreaker(t *testing.T) {
	model, err := NewModel(context.Background(), &Config{OpenAIKey: "k", BreakerMaxFailures: 2, BreakerTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	if _, ok := model.(*BreakerModel); !ok {
		t.Errorf("expected a *BreakerModel, got %T", model)
	}
}

func TestBreakerModelOpens(t *testing.T) {
	calls := 0
	failing := ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", errors.New("connection refused")
	})

	model := NewBreakerModel("test-open", failing, 2, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := model.Complete(context.Background(), "x"); err == nil {
			t.Fatal("expected error from failing model")
		}
	}

	if model.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", model.State())
	}

	_, err := model.Complete(context.Background(), "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if calls != 2 {
		t.Errorf("wrapped model called %d times, want 2", calls)
	}
}

func TestBreakerModelPassesThrough(t *testing.T) {
	model := NewBreakerModel("test-pass", ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	}), 3, time.Minute)

	reply, err := model.Complete(context.Background(), "hi")
	if err != nil || reply != "echo: hi" {
		t.Errorf("Complete = %q, %v", reply, err)
	}
}

func TestOpenAIModel_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	model, err := NewOpenAIModel(apiKey, "")
	if err != nil {
		t.Fatalf("NewOpenAIModel failed: %v", err)
	}
	reply, err := model.Complete(context.Background(), "Reply with the single word: pong")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	t.Logf("reply: %s", reply)
}
