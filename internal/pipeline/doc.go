// Package pipeline turns an article URL or raw text into streamable speech.
//
// A Coordinator runs the stages in order for one request:
//
//	extract (URL only) -> process (clean, summarize, translate) -> select
//	full or summary text -> synthesize -> stream
//
// Blocking stages are submitted to a shared worker pool. Stage failures are
// reported as *Error values whose Kind maps to a transport status; audio and
// an error are never returned together.
package pipeline
