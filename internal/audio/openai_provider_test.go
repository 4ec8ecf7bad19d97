package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/testutil"
)

func newSpeechServer(t *testing.T, status int, body []byte, seen *map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
		}
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"server exploded","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_Synthesize(t *testing.T) {
	audio := testutil.GenerateAudioData()
	var seen map[string]any
	srv := newSpeechServer(t, http.StatusOK, audio, &seen)

	provider, err := NewOpenAIProvider(&Config{
		OpenAIKey:     "test-key",
		OpenAIBaseURL: srv.URL + "/v1",
		OpenAIModel:   "gpt-4o-mini-tts",
		OpenAIVoice:   "nova",
		OpenAISpeed:   1.0,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := provider.Synthesize(context.Background(), "Namaste duniya", language.MustLookup("hi"))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(got) != len(audio) {
		t.Errorf("Expected %d bytes, got %d", len(audio), len(got))
	}

	if seen["input"] != "Namaste duniya" {
		t.Errorf("Unexpected input: %v", seen["input"])
	}
	if seen["voice"] != "nova" {
		t.Errorf("Unexpected voice: %v", seen["voice"])
	}
	if seen["response_format"] != "mp3" {
		t.Errorf("Unexpected format: %v", seen["response_format"])
	}
	instructions, _ := seen["instructions"].(string)
	if !strings.Contains(instructions, "Hindi") {
		t.Errorf("Expected instructions to name Hindi, got %q", instructions)
	}
}

func TestOpenAIProvider_NoInstructionsForTTS1(t *testing.T) {
	var seen map[string]any
	srv := newSpeechServer(t, http.StatusOK, testutil.GenerateAudioData(), &seen)

	provider, err := NewOpenAIProvider(&Config{
		OpenAIKey:     "test-key",
		OpenAIBaseURL: srv.URL + "/v1",
		OpenAIModel:   "tts-1",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := provider.Synthesize(context.Background(), "Hello", language.MustLookup("en")); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if _, ok := seen["instructions"]; ok {
		t.Error("tts-1 requests must not carry instructions")
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	lang := language.MustLookup("en")

	t.Run("server error", func(t *testing.T) {
		srv := newSpeechServer(t, http.StatusInternalServerError, nil, nil)
		provider, _ := NewOpenAIProvider(&Config{OpenAIKey: "k", OpenAIBaseURL: srv.URL + "/v1"})

		_, err := provider.Synthesize(context.Background(), "Hello", lang)
		if err == nil || !strings.Contains(err.Error(), "OpenAI TTS API error") {
			t.Errorf("Expected API error, got %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		srv := newSpeechServer(t, http.StatusOK, nil, nil)
		provider, _ := NewOpenAIProvider(&Config{OpenAIKey: "k", OpenAIBaseURL: srv.URL + "/v1"})

		_, err := provider.Synthesize(context.Background(), "Hello", lang)
		if err == nil || !strings.Contains(err.Error(), "no audio data") {
			t.Errorf("Expected empty audio error, got %v", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		provider, _ := NewOpenAIProvider(&Config{OpenAIKey: "k"})
		if _, err := provider.Synthesize(context.Background(), "  ", lang); err == nil {
			t.Error("Expected error for empty text")
		}
	})
}

func TestOpenAIProvider_SplitsLongText(t *testing.T) {
	var (
		mu     sync.Mutex
		inputs []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if utf8.RuneCountInString(req.Input) > OpenAIMaxInput {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"input exceeds maximum length 4096","type":"invalid_request_error"}}`))
			return
		}

		mu.Lock()
		inputs = append(inputs, req.Input)
		n := len(inputs)
		mu.Unlock()

		w.Header().Set("Content-Type", "audio/mpeg")
		fmt.Fprintf(w, "[segment %d]", n)
	}))
	t.Cleanup(srv.Close)

	provider, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1", OpenAIModel: "tts-1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := testutil.ArticleText(10000)
	audio, err := provider.Synthesize(context.Background(), text, language.MustLookup("en"))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(inputs) < 3 {
		t.Fatalf("Expected at least 3 requests, got %d", len(inputs))
	}
	var want bytes.Buffer
	for i := range inputs {
		fmt.Fprintf(&want, "[segment %d]", i+1)
	}
	if !bytes.Equal(audio, want.Bytes()) {
		t.Errorf("Expected audio joined in order, got %q", audio)
	}
	if got := strings.Join(inputs, " "); got != text {
		t.Error("Requests do not cover the whole text in order")
	}
}

func TestOpenAIProvider_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	config := DefaultProviderConfig()
	config.OpenAIKey = apiKey
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	audio, err := provider.Synthesize(context.Background(), "Hello from the test suite.", language.MustLookup("en"))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(audio) == 0 {
		t.Error("Expected audio data")
	}
}
