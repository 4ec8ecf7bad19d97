// Package language holds the fixed table of target languages supported by
// the pipeline. Each entry maps a short code to the identifiers used by the
// speech engines and a human readable display name.
package language
