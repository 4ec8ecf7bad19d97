package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/observability"
)

// OpenAIProvider implements Synthesizer for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Synthesize generates MP3 audio using OpenAI TTS. Text longer than one
// request allows is sent in sentence-aligned segments and the audio joined.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string, lang language.Language) (audio []byte, err error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	defer func() { observability.RecordSynthesis(p.Name(), err) }()

	return synthesizeSegments(text, OpenAIMaxInput, Characters, func(segment string) ([]byte, error) {
		return p.speech(ctx, segment, lang)
	})
}

// speech sends one speech request
func (p *OpenAIProvider) speech(ctx context.Context, text string, lang language.Language) ([]byte, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model()),
		Input:          text,
		Voice:          openai.SpeechVoice(p.voice()),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	// Only the gpt-4o family accepts voice instructions
	if supportsInstructions(req.Model) {
		req.Instructions = fmt.Sprintf("Read this article aloud in %s with a calm, clear narration voice.", lang.Name)
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") && supportsInstructions(req.Model) {
			return nil, fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try tts-1-hd instead", err, req.Model)
		}
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	audio, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}

	return audio, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) model() string {
	if p.config.OpenAIModel == "" {
		return string(openai.TTSModel1)
	}
	return p.config.OpenAIModel
}

func (p *OpenAIProvider) voice() string {
	if p.config.OpenAIVoice == "" {
		return string(openai.VoiceAlloy)
	}
	return p.config.OpenAIVoice
}

func supportsInstructions(model openai.SpeechModel) bool {
	return strings.HasPrefix(string(model), "gpt-4o")
}
