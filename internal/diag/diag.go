// Package diag carries non-fatal diagnostics (unbound variables, failed
// production matches, malformed stochastic weights) out of the
// rewriting/interpretation core. The original C++ program wrote these
// straight to std::cerr from deep inside library code; lsys routes them
// through a small Sink interface instead so callers (tests, the CLI, a
// future server) can choose where warnings go without the core
// depending on os.Stderr directly.
package diag

import (
	"fmt"
	"io"
)

// Sink receives a formatted warning. Implementations must be safe to
// call from a single-threaded rewrite/interpret pass; lsys never calls
// Warnf concurrently.
type Sink interface {
	Warnf(format string, args ...any)
}

// Writer adapts an io.Writer into a Sink, prefixing every line the way
// the original program's "lsys: warning: ..." messages read.
type Writer struct {
	W      io.Writer
	Prefix string
}

// NewWriter returns a Writer sink with the conventional "lsys: warning: "
// prefix.
func NewWriter(w io.Writer) *Writer {
	return &Writer{W: w, Prefix: "lsys: warning: "}
}

// Warnf implements Sink.
func (s *Writer) Warnf(format string, args ...any) {
	fmt.Fprintf(s.W, "%s%s\n", s.Prefix, fmt.Sprintf(format, args...))
}

// Discard is a Sink that drops every warning; used by tests that assert
// on behavior unrelated to diagnostics.
var Discard Sink = discard{}

type discard struct{}

func (discard) Warnf(string, ...any) {}

// Collector is a Sink that accumulates warnings in memory, for tests
// that want to assert a specific warning fired.
type Collector struct {
	Messages []string
}

// Warnf implements Sink.
func (c *Collector) Warnf(format string, args ...any) {
	c.Messages = append(c.Messages, fmt.Sprintf(format, args...))
}
