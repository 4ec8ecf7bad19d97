// Package cli provides command-line interface functionality for readaloud.
// It handles command creation, flag parsing, configuration loading and the
// wiring of the pipeline for the run, serve and batch commands.
package cli
