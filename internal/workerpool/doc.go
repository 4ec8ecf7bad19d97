// Package workerpool runs blocking work on a bounded number of goroutines.
//
// Work is handed over explicitly with Submit and collected with
// Future.Await. Submissions beyond the pool size queue in submission
// order; nothing is dropped. A panicking task fails its own future and
// leaves the pool usable.
package workerpool
