// Package diag carries non-fatal resolution failures out of the
// reference walker. Diagnostics are reporting-only: nothing in this
// package ever turns one back into an error for the walker's caller.
package diag

import "sync"

// Diagnostic describes one failed resolution: which callable, where
// the walker last saw a line marker, and what went wrong.
type Diagnostic struct {
	Func string
	File string
	Line int
	Err  error
}

// Sink receives diagnostics. Report must not block the walk for long
// and must never panic into the caller.
type Sink interface {
	Report(d Diagnostic)
}

type nopSink struct{}

func (nopSink) Report(Diagnostic) {}

// Nop returns a sink that discards everything.
func Nop() Sink { return nopSink{} }

// Collector is an in-memory sink for tests and offline inspection.
type Collector struct {
	mu   sync.Mutex
	seen []Diagnostic
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.seen = append(c.seen, d)
	c.mu.Unlock()
}

// Diagnostics returns a snapshot of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.seen))
	copy(out, c.seen)
	return out
}
