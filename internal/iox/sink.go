// Package iox owns the output sink benchmark diagnostics are written to.
//
// Backend operations print result samples and progress through a Sink
// instead of os.Stdout directly, so the executor can silence output
// during warmup runs and the harness can tee everything into a run log.
package iox

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink is a swappable output target. Writes always go to the current
// target; Silence swaps the target for io.Discard and hands back a
// restore function that reinstalls the previous target on every exit
// path, including failure.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink wraps w. A nil writer discards output.
func NewSink(w io.Writer) *Sink {
	if w == nil {
		w = io.Discard
	}
	return &Sink{w: w}
}

// Write implements io.Writer against the current target.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	w := s.w
	s.mu.Unlock()
	return w.Write(p)
}

// Silence redirects the sink to io.Discard until the returned restore
// function runs. Callers must defer the restore immediately:
//
//	restore := sink.Silence()
//	defer restore()
func (s *Sink) Silence() (restore func()) {
	s.mu.Lock()
	prev := s.w
	s.w = io.Discard
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.w = prev
			s.mu.Unlock()
		})
	}
}

// RunLog returns a writer that duplicates everything to the terminal and
// to a size-rotated log file under dir, mirroring what the operator saw
// on the console for later inspection.
func RunLog(dir string) (io.Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	logger := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "benchmark_log.txt"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
	return io.MultiWriter(os.Stdout, logger), nil
}
