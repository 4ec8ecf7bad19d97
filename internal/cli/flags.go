package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	URL        string
	TextFile   string
	Language   string
	Type       string
	Output     string
	ListModels bool

	// Model flags
	LLMProvider string
	LLMModel    string

	// Audio flags
	AudioProvider string
	AudioFallback string
	OpenAIModel   string
	OpenAIVoice   string
	OpenAISpeed   float64

	// Runtime flags
	Workers   int
	ChunkSize int
	LogLevel  string
	LogPretty bool

	// serve
	Addr string

	// batch
	OutputDir string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Language:      "en",
		Type:          "full",
		Output:        "article.mp3",
		LLMProvider:   "openai",
		AudioProvider: "openai",
		OpenAIModel:   "gpt-4o-mini-tts",
		OpenAIVoice:   "alloy",
		OpenAISpeed:   1.0,
		Workers:       4,
		ChunkSize:     8192,
		LogLevel:      "info",
		Addr:          ":8000",
		OutputDir:     ".",
	}
}
