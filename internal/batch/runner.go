package batch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/readaloud/internal"
	"codeberg.org/snonux/readaloud/internal/observability"
	"codeberg.org/snonux/readaloud/internal/pipeline"
	"codeberg.org/snonux/readaloud/internal/workerpool"
)

// Generator runs one pipeline request
type Generator interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Options controls a batch run
type Options struct {
	OutputDir string
	Language  string
	Type      pipeline.Type
	Workers   int
}

// Outcome is the result for one entry
type Outcome struct {
	Entry Entry
	File  string
	Bytes int64
	Err   error
}

// Summary collects the outcomes of a batch run in entry order
type Summary struct {
	Outcomes []Outcome
}

// Succeeded returns the number of entries that produced a file
func (s Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that failed
func (s Summary) Failed() int {
	return len(s.Outcomes) - s.Succeeded()
}

// Processor runs batch entries concurrently. Entries get their own pool so
// they never compete with the pipeline stages they start.
type Processor struct {
	gen    Generator
	opts   Options
	logger zerolog.Logger
}

// NewProcessor creates a batch processor
func NewProcessor(gen Generator, opts Options) *Processor {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Processor{
		gen:    gen,
		opts:   opts,
		logger: observability.Component("batch"),
	}
}

// Process generates one MP3 per entry. A failing entry does not stop the
// others; only an unusable output directory fails the whole run.
func (p *Processor) Process(ctx context.Context, entries []Entry) (Summary, error) {
	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	pool := workerpool.New(p.opts.Workers)
	defer pool.Close()

	futures := make([]*workerpool.Future[Outcome], len(entries))
	for i, entry := range entries {
		futures[i] = workerpool.Submit(ctx, pool, func(ctx context.Context) (Outcome, error) {
			return p.processEntry(ctx, entry), nil
		})
	}

	summary := Summary{Outcomes: make([]Outcome, len(entries))}
	for i, f := range futures {
		outcome, err := f.Await(ctx)
		if err != nil {
			outcome = Outcome{Entry: entries[i], Err: err}
		}
		summary.Outcomes[i] = outcome
	}

	p.logger.Info().Int("total", len(entries)).Int("succeeded", summary.Succeeded()).Int("failed", summary.Failed()).Msg("batch finished")
	return summary, nil
}

func (p *Processor) processEntry(ctx context.Context, entry Entry) Outcome {
	outcome := Outcome{Entry: entry, File: filepath.Join(p.opts.OutputDir, OutputName(entry))}
	logger := p.logger.With().Int("entry", entry.Index).Str("url", entry.URL).Logger()

	lang := entry.Language
	if lang == "" {
		lang = p.opts.Language
	}

	result, err := p.gen.Run(ctx, pipeline.Request{URL: entry.URL, Language: lang, Type: p.opts.Type})
	if err != nil {
		logger.Error().Err(err).Msg("entry failed")
		outcome.Err = err
		return outcome
	}

	outcome.Bytes, outcome.Err = writeFile(ctx, outcome.File, result)
	if outcome.Err != nil {
		logger.Error().Err(outcome.Err).Msg("failed to save audio")
		return outcome
	}

	logger.Info().Str("file", outcome.File).Int64("bytes", outcome.Bytes).Msg("audio saved")
	return outcome
}

// OutputName returns "<n>_<sanitized-host>.mp3" for an entry
func OutputName(entry Entry) string {
	host := "article"
	if u, err := url.Parse(entry.URL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return fmt.Sprintf("%d_%s.mp3", entry.Index, internal.SanitizeFilename(host))
}

func writeFile(ctx context.Context, path string, result *pipeline.Result) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := result.WriteTo(ctx, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}
