package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/readaloud/internal/audio"
	"codeberg.org/snonux/readaloud/internal/llm"
)

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env file is fine
	_ = godotenv.Load()

	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".readaloud" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".readaloud")
	}

	// Environment variables, e.g. READALOUD_LLM_PROVIDER
	viper.SetEnvPrefix("READALOUD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("breaker.max_failures", 5)
	viper.SetDefault("breaker.timeout", 30*time.Second)
	viper.SetDefault("llm.ollama_url", "http://localhost:11434")
	viper.SetDefault("audio.google_speaking_rate", 1.0)
	viper.SetDefault("audio.espeak_speed", 160)
	viper.SetDefault("audio.espeak_pitch", 50)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("gemini.api_key")
}

// LLMConfig builds the language model configuration from viper
func LLMConfig() *llm.Config {
	return &llm.Config{
		Provider:           viper.GetString("llm.provider"),
		Model:              viper.GetString("llm.model"),
		OpenAIKey:          GetOpenAIKey(),
		GeminiKey:          GetGeminiKey(),
		BaseURL:            viper.GetString("llm.ollama_url"),
		BreakerMaxFailures: viper.GetUint32("breaker.max_failures"),
		BreakerTimeout:     viper.GetDuration("breaker.timeout"),
	}
}

// AudioConfig builds the speech provider configuration from viper
func AudioConfig() *audio.Config {
	config := audio.DefaultProviderConfig()
	config.Provider = viper.GetString("audio.provider")
	config.Fallback = viper.GetString("audio.fallback")
	config.OpenAIKey = GetOpenAIKey()
	config.OpenAIModel = viper.GetString("audio.openai_model")
	config.OpenAIVoice = viper.GetString("audio.openai_voice")
	config.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	config.GoogleSpeakingRate = viper.GetFloat64("audio.google_speaking_rate")
	config.ESpeakSpeed = viper.GetInt("audio.espeak_speed")
	config.ESpeakPitch = viper.GetInt("audio.espeak_pitch")
	config.BreakerMaxFailures = viper.GetUint32("breaker.max_failures")
	config.BreakerTimeout = viper.GetDuration("breaker.timeout")
	return config
}
