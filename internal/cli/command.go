package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/readaloud/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "readaloud",
		Short: "Turn articles into spoken audio",
		Long: `readaloud turns a web article or a text file into an MP3.

The article is extracted, cleaned, summarized and translated by a language
model, then spoken by a text-to-speech engine.

Examples:
  readaloud --url https://example.com/story            # Full article in English
  readaloud --url https://example.com/story -l fr -t summary -o summary.mp3
  readaloud --text-file notes.txt -l hi                # Read a local text file
  readaloud serve --addr :8000                         # Run the HTTP API
  readaloud batch urls.txt --output-dir audio          # Many articles at once`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateServeCommand creates the serve subcommand
func CreateServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve POST /generate, GET /health and GET /metrics.

POST /generate takes {"url": "...", "text": "...", "language": "en", "type": "full"}
and answers with a streamed audio/mpeg body.`,
		Args: cobra.NoArgs,
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

// CreateBatchCommand creates the batch subcommand
func CreateBatchCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Generate audio for every URL in a file",
		Long: `Read one URL per line and write <n>_<host>.mp3 for each of them.

A line may override the language: "https://example.com/story = fr".
Blank lines and lines starting with '#' are ignored.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", flags.OutputDir, "Directory for generated MP3 files")
	viper.BindPFlag("batch.output_dir", cmd.Flags().Lookup("output-dir"))

	return cmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.readaloud.yaml)")
	pf.StringVarP(&flags.Language, "language", "l", flags.Language, "Output language: en, hi, fr, es")
	pf.StringVarP(&flags.Type, "type", "t", flags.Type, "Text to speak: full or summary")
	pf.StringVar(&flags.LLMProvider, "llm-provider", flags.LLMProvider, "Language model provider: openai, gemini or ollama")
	pf.StringVar(&flags.LLMModel, "llm-model", "", "Language model name (default depends on provider)")
	pf.StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: openai, google or espeak")
	pf.StringVar(&flags.AudioFallback, "audio-fallback", "", "Speech provider to try when the primary fails")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	pf.IntVar(&flags.Workers, "workers", flags.Workers, "Number of concurrent pipeline workers")
	pf.IntVar(&flags.ChunkSize, "chunk-size", flags.ChunkSize, "Audio stream chunk size in bytes")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.LogPretty, "log-pretty", false, "Human readable log output")

	// Local flags
	cmd.Flags().StringVarP(&flags.URL, "url", "u", "", "Article URL")
	cmd.Flags().StringVar(&flags.TextFile, "text-file", "", "Read the article text from a file instead of a URL")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output MP3 file")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("language", pf.Lookup("language"))
	viper.BindPFlag("type", pf.Lookup("type"))
	viper.BindPFlag("llm.provider", pf.Lookup("llm-provider"))
	viper.BindPFlag("llm.model", pf.Lookup("llm-model"))
	viper.BindPFlag("audio.provider", pf.Lookup("audio-provider"))
	viper.BindPFlag("audio.fallback", pf.Lookup("audio-fallback"))
	viper.BindPFlag("audio.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", pf.Lookup("openai-speed"))
	viper.BindPFlag("workers", pf.Lookup("workers"))
	viper.BindPFlag("chunk_size", pf.Lookup("chunk-size"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.pretty", pf.Lookup("log-pretty"))
	viper.BindPFlag("output.file", cmd.Flags().Lookup("output"))
}
