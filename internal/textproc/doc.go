// Package textproc cleans, summarizes and translates article text with a
// language model. Processing never fails: when the model misbehaves the
// processor degrades to a translation-only result, and when the model is
// unreachable it returns the original text.
package textproc
