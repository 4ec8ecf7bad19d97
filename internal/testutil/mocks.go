package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/readaloud/internal/language"
)

// MockModel mocks a language model. Replies are consumed in order; when
// they run out the last reply is repeated. Respond, when set, wins.
type MockModel struct {
	Replies []string
	Errors  []error
	Respond func(prompt string) (string, error)

	mu    sync.Mutex
	Calls []string
}

// Complete records the prompt and returns the next canned reply
func (m *MockModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.Calls)
	m.Calls = append(m.Calls, prompt)

	if m.Respond != nil {
		return m.Respond(prompt)
	}
	if i < len(m.Errors) && m.Errors[i] != nil {
		return "", m.Errors[i]
	}
	if len(m.Replies) == 0 {
		return "", fmt.Errorf("mock model: no reply configured")
	}
	if i >= len(m.Replies) {
		i = len(m.Replies) - 1
	}
	return m.Replies[i], nil
}

// CallCount returns how many prompts were sent
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSynthesizer mocks a speech synthesizer
type MockSynthesizer struct {
	ProviderName string
	Audio        []byte
	Err          error

	mu    sync.Mutex
	Calls []SynthesisCall
}

// SynthesisCall records one Synthesize invocation
type SynthesisCall struct {
	Text     string
	Language string
}

// Synthesize records the call and returns the configured audio or error
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string, lang language.Language) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, SynthesisCall{Text: text, Language: lang.Code})
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Audio != nil {
		out := make([]byte, len(m.Audio))
		copy(out, m.Audio)
		return out, nil
	}
	return GenerateAudioData(), nil
}

// Name returns the provider name
func (m *MockSynthesizer) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// CallCount returns how many times Synthesize was called
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockStrategy mocks an extraction strategy
type MockStrategy struct {
	StrategyName string
	Text         string
	Err          error
	Panic        bool

	mu    sync.Mutex
	Calls []string
}

// Name returns the strategy name
func (m *MockStrategy) Name() string {
	return m.StrategyName
}

// Extract records the URL and returns the configured text or error
func (m *MockStrategy) Extract(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, url)
	m.mu.Unlock()

	if m.Panic {
		panic("mock strategy panic")
	}
	return m.Text, m.Err
}

// CallCount returns how many times Extract was called
func (m *MockStrategy) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// ArticleText generates deterministic English prose of exactly n characters
// that neither starts nor ends with whitespace
func ArticleText(n int) string {
	const sentence = "The city council approved a new plan to expand the public library network across every district. "
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(sentence)
	}
	text := b.String()[:n]
	// Trimming must not shorten the text
	if strings.HasSuffix(text, " ") {
		text = text[:n-1] + "."
	}
	return text
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 frame header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
