// Package models lists the OpenAI models usable for text processing and
// speech synthesis with the configured API key.
package models
