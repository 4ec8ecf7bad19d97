// Package llm isolates the language model behind a narrow prompt-in,
// text-out interface. It provides OpenAI and Gemini backed models and a
// circuit breaker wrapper.
package llm
