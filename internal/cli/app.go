package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"codeberg.org/snonux/readaloud/internal/audio"
	"codeberg.org/snonux/readaloud/internal/batch"
	"codeberg.org/snonux/readaloud/internal/extract"
	"codeberg.org/snonux/readaloud/internal/llm"
	"codeberg.org/snonux/readaloud/internal/models"
	"codeberg.org/snonux/readaloud/internal/observability"
	"codeberg.org/snonux/readaloud/internal/pipeline"
	"codeberg.org/snonux/readaloud/internal/server"
	"codeberg.org/snonux/readaloud/internal/textproc"
	"codeberg.org/snonux/readaloud/internal/workerpool"
)

// BuildFunc creates a coordinator and the pool it runs on
type BuildFunc func(ctx context.Context) (*pipeline.Coordinator, *workerpool.Pool, error)

// App runs the readaloud commands
type App struct {
	flags *Flags
	out   io.Writer
	build BuildFunc
}

// NewApp creates an app that prints progress to out
func NewApp(flags *Flags, out io.Writer) *App {
	return &App{flags: flags, out: out, build: BuildCoordinator}
}

// WithBuilder replaces how the pipeline is assembled
func (a *App) WithBuilder(build BuildFunc) *App {
	a.build = build
	return a
}

// BuildCoordinator assembles the pipeline from the viper configuration
func BuildCoordinator(ctx context.Context) (*pipeline.Coordinator, *workerpool.Pool, error) {
	model, err := llm.NewModel(ctx, LLMConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create language model: %w", err)
	}

	synth, err := audio.NewProvider(AudioConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create audio provider: %w", err)
	}

	pool := workerpool.New(viper.GetInt("workers"))
	coord := pipeline.New(
		extract.NewDefault(),
		textproc.NewProcessor(model),
		synth,
		pool,
		pipeline.WithChunkSize(viper.GetInt("chunk_size")),
	)
	return coord, pool, nil
}

func (a *App) initLogging() {
	observability.InitLogger(viper.GetString("log.level"), viper.GetBool("log.pretty"))
}

// Run generates a single MP3 from --url or --text-file
func (a *App) Run(ctx context.Context) error {
	a.initLogging()

	if a.flags.ListModels {
		return models.NewLister(GetOpenAIKey(), "").ListAvailableModels(ctx, a.out)
	}

	req, err := a.request()
	if err != nil {
		return err
	}

	coord, pool, err := a.build(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	result, err := coord.Run(ctx, req)
	if err != nil {
		return err
	}

	output := a.flags.Output
	if output == "" {
		output = "article.mp3"
	}
	chunkSize := result.Audio.ChunkSize()

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	n, err := result.WriteTo(ctx, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	chunks := (n + int64(chunkSize) - 1) / int64(chunkSize)
	fmt.Fprintf(a.out, "Language: %s\n", result.LanguageName)
	fmt.Fprintf(a.out, "Summary: %s\n", result.SummaryPreview)
	fmt.Fprintf(a.out, "Streamed %d bytes in %d chunks of up to %d bytes\n", n, chunks, chunkSize)
	fmt.Fprintf(a.out, "Audio saved to: %s\n", output)
	return nil
}

// request builds the pipeline request from the flags
func (a *App) request() (pipeline.Request, error) {
	req := pipeline.Request{
		URL:      a.flags.URL,
		Language: viper.GetString("language"),
		Type:     pipeline.Type(viper.GetString("type")),
	}

	switch {
	case a.flags.URL != "" && a.flags.TextFile != "":
		return req, fmt.Errorf("use either --url or --text-file, not both")
	case a.flags.TextFile != "":
		content, err := os.ReadFile(a.flags.TextFile)
		if err != nil {
			return req, fmt.Errorf("failed to read text file: %w", err)
		}
		req.Text = string(content)
	case a.flags.URL == "":
		return req, fmt.Errorf("provide an article with --url or --text-file")
	}

	return req, nil
}

// Serve runs the HTTP API until ctx is cancelled
func (a *App) Serve(ctx context.Context) error {
	a.initLogging()

	coord, pool, err := a.build(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = a.flags.Addr
	}
	return server.New(coord).ListenAndServe(ctx, addr)
}

// Batch generates one MP3 per URL listed in file
func (a *App) Batch(ctx context.Context, file string) error {
	a.initLogging()

	entries, err := batch.ReadBatchFile(file)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no URLs found in %s", file)
	}

	coord, pool, err := a.build(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	outputDir := viper.GetString("batch.output_dir")
	if outputDir == "" {
		outputDir = a.flags.OutputDir
	}

	proc := batch.NewProcessor(coord, batch.Options{
		OutputDir: outputDir,
		Language:  viper.GetString("language"),
		Type:      pipeline.Type(viper.GetString("type")),
		Workers:   viper.GetInt("workers"),
	})
	summary, err := proc.Process(ctx, entries)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(a.out, "Total articles: %d\n", len(entries))
	fmt.Fprintf(a.out, "Processed: %d\n", summary.Succeeded())
	for _, o := range summary.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(a.out, "Failed %d (%s): %v\n", o.Entry.Index, o.Entry.URL, o.Err)
		}
	}

	if summary.Failed() > 0 {
		return fmt.Errorf("%d of %d articles failed", summary.Failed(), len(entries))
	}
	fmt.Fprintf(a.out, "\nDone! Audio saved to: %s\n", outputDir)
	return nil
}
