package alert

import (
	"fmt"
	"io"
	"sync"

	"ransomguard/internal/logging"
)

// LineSink writes the operator-facing alert line and mirrors it to the
// structured log. The line format is fixed:
//
//	[ALERT] <path> -> <comma-joined reasons>
type LineSink struct {
	mu  sync.Mutex
	w   io.Writer
	log *logging.Logger
}

// NewLineSink returns a sink writing alert lines to w.
func NewLineSink(w io.Writer, log *logging.Logger) *LineSink {
	return &LineSink{w: w, log: log}
}

// Emit implements Sink.
func (s *LineSink) Emit(a Alert) {
	s.mu.Lock()
	fmt.Fprintf(s.w, "[ALERT] %s -> %s\n", a.Path, a.Reason())
	s.mu.Unlock()

	if s.log != nil {
		s.log.Warn("alert", "path", a.Path, "reasons", a.Reason())
	}
}

// Func adapts a plain function into a Sink.
type Func func(Alert)

// Emit implements Sink.
func (f Func) Emit(a Alert) { f(a) }
