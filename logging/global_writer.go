package logging

import (
	"io"
	"os"
	"sync"
)

// swappableWriter delegates to a writer that can be replaced while loggers
// hold a reference to it.
type swappableWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (sw *swappableWriter) Write(p []byte) (int, error) {
	sw.mu.RLock()
	defer sw.mu.RUnlock()
	return sw.w.Write(p)
}

func (sw *swappableWriter) set(w io.Writer) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.w = w
}

var stderrSink = &swappableWriter{w: os.Stderr}

// SetGlobalOutput redirects the stderr sink of every logger. Tests use it to
// capture log lines; the CLI uses it to keep --json stdout clean.
func SetGlobalOutput(w io.Writer) {
	stderrSink.set(w)
}

// GetGlobalOutput returns the shared stderr sink.
func GetGlobalOutput() io.Writer {
	return stderrSink
}
