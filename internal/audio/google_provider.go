package audio

import (
	"context"
	"fmt"
	"sync"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/observability"
)

// speechFunc sends one synthesis request
type speechFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// GoogleProvider implements Synthesizer with Google Cloud Text-to-Speech.
// Credentials are read from GOOGLE_APPLICATION_CREDENTIALS. The API client
// is created on first use and shared by later calls.
type GoogleProvider struct {
	speakingRate float64
	send         speechFunc

	mu     sync.Mutex
	client *texttospeech.Client
}

// NewGoogleProvider creates a Google Cloud TTS provider
func NewGoogleProvider(config *Config) *GoogleProvider {
	rate := config.GoogleSpeakingRate
	if rate <= 0 {
		rate = 1.0
	}
	p := &GoogleProvider{speakingRate: rate}
	p.send = p.synthesizeSpeech
	return p
}

// Synthesize requests MP3 audio in the language's locale. Text over the
// request byte limit is sent in sentence-aligned segments.
func (p *GoogleProvider) Synthesize(ctx context.Context, text string, lang language.Language) (audio []byte, err error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	defer func() { observability.RecordSynthesis(p.Name(), err) }()

	return synthesizeSegments(text, GoogleMaxInputBytes, Bytes, func(segment string) ([]byte, error) {
		resp, err := p.send(ctx, p.request(segment, lang))
		if err != nil {
			return nil, fmt.Errorf("Google TTS API error: %w", err)
		}

		audio := resp.GetAudioContent()
		if len(audio) == 0 {
			return nil, fmt.Errorf("no audio data received from Google")
		}
		return audio, nil
	})
}

func (p *GoogleProvider) synthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.SynthesizeSpeech(ctx, req)
}

// getClient returns the shared client, creating it on first use. A failed
// creation is retried on the next call.
func (p *GoogleProvider) getClient(ctx context.Context) (*texttospeech.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	// The client outlives the request that created it
	client, err := texttospeech.NewClient(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("creating Google TTS client: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *GoogleProvider) request(text string, lang language.Language) *texttospeechpb.SynthesizeSpeechRequest {
	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: lang.Locale,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  p.speakingRate,
		},
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}
