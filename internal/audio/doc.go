// Package audio synthesizes speech. Every provider returns the complete
// MP3 payload in memory; nothing is written to disk.
package audio
