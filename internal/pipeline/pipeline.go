package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/readaloud/internal"
	"codeberg.org/snonux/readaloud/internal/audio"
	"codeberg.org/snonux/readaloud/internal/extract"
	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/observability"
	"codeberg.org/snonux/readaloud/internal/stream"
	"codeberg.org/snonux/readaloud/internal/textproc"
	"codeberg.org/snonux/readaloud/internal/workerpool"
)

// PreviewLength is the number of characters kept in result previews
const PreviewLength = 200

// ContentExtractor fetches article text from a URL
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// TextProcessor cleans, summarizes and translates text. It must not fail.
type TextProcessor interface {
	Process(ctx context.Context, text string, lang language.Language) textproc.Result
}

// Result is a successful run. Audio is single-pass.
type Result struct {
	Audio          *stream.Emitter
	Size           int
	CleanedPreview string
	SummaryPreview string
	LanguageName   string

	logger zerolog.Logger
	start  time.Time
}

// WriteTo streams the audio to w and logs completion
func (r *Result) WriteTo(ctx context.Context, w io.Writer) (int64, error) {
	n, err := r.Audio.WriteTo(ctx, w)
	switch {
	case err != nil:
		r.logger.Warn().Err(err).Int64("bytes", n).Msg("streaming aborted by writer")
	case n < int64(r.Size):
		r.logger.Warn().Int64("bytes", n).Int("size", r.Size).Msg("streaming stopped early")
	default:
		r.logger.Info().Str("state", StateCompleted.String()).Int64("bytes", n).Dur("took", time.Since(r.start)).Msg("pipeline state changed")
	}
	return n, err
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithChunkSize sets the stream chunk size
func WithChunkSize(n int) Option {
	return func(c *Coordinator) { c.chunkSize = n }
}

// Coordinator wires the stages together. It holds no per-request state and
// is safe for concurrent use.
type Coordinator struct {
	extractor ContentExtractor
	processor TextProcessor
	synth     audio.Synthesizer
	pool      *workerpool.Pool
	chunkSize int
}

// New creates a coordinator. A nil pool gets a private pool of the default size.
func New(extractor ContentExtractor, processor TextProcessor, synth audio.Synthesizer, pool *workerpool.Pool, opts ...Option) *Coordinator {
	if pool == nil {
		pool = workerpool.New(workerpool.DefaultSize)
	}

	c := &Coordinator{
		extractor: extractor,
		processor: processor,
		synth:     synth,
		pool:      pool,
		chunkSize: stream.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run tracks the state of one request for logging
type run struct {
	logger zerolog.Logger
	state  State
}

func (r *run) transition(to State) {
	r.logger.Debug().Str("from", r.state.String()).Str("state", to.String()).Msg("pipeline state changed")
	r.state = to
}

// Run executes the pipeline for req. On success the returned Result holds
// the complete audio ready for streaming; on failure err is an *Error.
func (c *Coordinator) Run(ctx context.Context, req Request) (result *Result, err error) {
	start := time.Now()

	requestID := observability.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = observability.NewRequestID()
		ctx = observability.ContextWithRequestID(ctx, requestID)
	}
	r := &run{
		logger: observability.WithRequestID(requestID).With().Str("component", "pipeline").Logger(),
		state:  StateReceived,
	}

	defer func() {
		if p := recover(); p != nil {
			err = internalError(fmt.Errorf("pipeline panicked: %v", p))
			result = nil
		}
		c.finish(r, err)
	}()

	req = req.withDefaults()
	r.logger.Info().Bool("url", req.URL != "").Str("language", req.Language).Str("type", string(req.Type)).Msg("pipeline request received")

	lang, err := req.Validate()
	if err != nil {
		return nil, err
	}

	content, err := c.content(ctx, r, req)
	if err != nil {
		return nil, err
	}

	r.transition(StateProcessing)
	processed, err := stage(ctx, c.pool, "process", func(ctx context.Context) (textproc.Result, error) {
		return c.processor.Process(ctx, content, lang), nil
	})
	if err != nil {
		return nil, internalError(err)
	}
	r.transition(StateProcessed)
	r.logger.Info().Str("level", processed.Level.String()).Int("cleaned_chars", internal.CharCount(processed.Cleaned)).Msg("text processed")

	text := processed.Cleaned
	if req.Type == TypeSummary {
		text = processed.Summary
	}

	r.transition(StateSynthesizing)
	payload, err := stage(ctx, c.pool, "synthesize", func(ctx context.Context) ([]byte, error) {
		return c.synth.Synthesize(ctx, text, lang)
	})
	if err != nil {
		r.transition(StateSynthesisFailed)
		return nil, synthesisFailed(err)
	}
	r.transition(StateSynthesized)
	observability.ObserveAudioBytes(len(payload))

	r.transition(StateStreaming)
	return &Result{
		Audio:          stream.New(payload, c.chunkSize),
		Size:           len(payload),
		CleanedPreview: internal.Truncate(processed.Cleaned, PreviewLength),
		SummaryPreview: internal.Truncate(processed.Summary, PreviewLength),
		LanguageName:   lang.Name,
		logger:         r.logger,
		start:          start,
	}, nil
}

// content returns the raw text for req, extracting it when a URL is given
func (c *Coordinator) content(ctx context.Context, r *run, req Request) (string, error) {
	if req.URL == "" {
		return strings.TrimSpace(req.Text), nil
	}

	r.transition(StateExtracting)
	text, err := stage(ctx, c.pool, "extract", func(ctx context.Context) (string, error) {
		return c.extractor.Extract(ctx, req.URL)
	})
	if err != nil {
		r.transition(StateExtractionFailed)
		if errors.Is(err, extract.ErrExtractionFailed) {
			return "", &Error{Kind: KindExtractionFailed, Message: err.Error(), Err: err}
		}
		return "", internalError(err)
	}

	// Extractors that do not enforce the minimum themselves
	if err := checkLength(text); err != nil {
		r.transition(StateExtractionFailed)
		return "", err
	}

	r.transition(StateExtracted)
	return text, nil
}

func (c *Coordinator) finish(r *run, err error) {
	if err == nil {
		observability.RecordPipelineRun(StateCompleted.String())
		return
	}

	var pe *Error
	if !errors.As(err, &pe) {
		pe = internalError(err)
	}
	observability.RecordPipelineRun(pe.Kind.String())

	event := r.logger.Warn()
	if pe.Kind == KindInternal {
		event = r.logger.Error()
	}
	event.Err(pe.Err).Str("kind", pe.Kind.String()).Str("state", r.state.String()).Msg(pe.Message)
}

// stage runs fn on the pool and records its duration
func stage[T any](ctx context.Context, pool *workerpool.Pool, name string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	defer func() { observability.ObserveStage(name, time.Since(start)) }()

	return workerpool.Submit(ctx, pool, fn).Await(ctx)
}
