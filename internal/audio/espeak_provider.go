package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/observability"
)

// ESpeakProvider implements Synthesizer with the local espeak-ng engine,
// converting its WAV output to MP3 with ffmpeg. It needs no network access.
type ESpeakProvider struct {
	speed int
	pitch int
}

// NewESpeakProvider creates an espeak-ng provider after checking that the
// required binaries are installed
func NewESpeakProvider(config *Config) (*ESpeakProvider, error) {
	if err := checkInstalled("espeak-ng", "ffmpeg"); err != nil {
		return nil, err
	}
	return newESpeakProvider(config), nil
}

func newESpeakProvider(config *Config) *ESpeakProvider {
	return &ESpeakProvider{
		speed: clamp(config.ESpeakSpeed, 80, 450, 160),
		pitch: clamp(config.ESpeakPitch, 0, 99, 50),
	}
}

// Synthesize speaks text with the language's espeak-ng voice
func (p *ESpeakProvider) Synthesize(ctx context.Context, text string, lang language.Language) (audio []byte, err error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	defer func() { observability.RecordSynthesis(p.Name(), err) }()

	wav, err := run(ctx, strings.NewReader(text), "espeak-ng", p.args(lang)...)
	if err != nil {
		return nil, fmt.Errorf("espeak-ng failed: %w", err)
	}

	audio, err = run(ctx, bytes.NewReader(wav), "ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "wav", "-i", "pipe:0", "-f", "mp3", "pipe:1")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio data produced by espeak-ng")
	}
	return audio, nil
}

// args builds the espeak-ng command line; text is read from stdin
func (p *ESpeakProvider) args(lang language.Language) []string {
	return []string{
		"-v", lang.ESpeakVoice,
		"-s", strconv.Itoa(p.speed),
		"-p", strconv.Itoa(p.pitch),
		"--stdout",
		"--stdin",
	}
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak"
}

func run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w\nOutput: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// checkInstalled verifies that every binary is available on PATH
func checkInstalled(binaries ...string) error {
	for _, bin := range binaries {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s is not installed or not in PATH: %w", bin, err)
		}
	}
	return nil
}

// clamp limits v to [lo, hi]; zero selects def
func clamp(v, lo, hi, def int) int {
	switch {
	case v == 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
