// Package console delivers transmission lines to a terminal or any writer.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// DefaultBuffer is the number of lines queued before Append waits for the writer.
const DefaultBuffer = 256

// Sink implements ports.LogSink. Lines are written by one goroutine in the
// order Append was called.
type Sink struct {
	w      io.Writer
	logger log.Logger
	lines  chan string
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewSink starts a sink writing one line per Append to w.
func NewSink(w io.Writer, buffer int, logger log.Logger) *Sink {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &Sink{
		w:      w,
		logger: logger,
		lines:  make(chan string, buffer),
		done:   make(chan struct{}),
	}
	go s.drain()
	return s
}

// Append queues line. Lines appended after Close are dropped.
func (s *Sink) Append(line string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	s.lines <- line
}

// Close flushes queued lines and stops the writer. Safe to call repeatedly.
func (s *Sink) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.lines)
	}
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *Sink) drain() {
	defer close(s.done)
	for line := range s.lines {
		if _, err := fmt.Fprintln(s.w, line); err != nil {
			s.logger.Warn("write transmission line", log.Err(err))
		}
	}
}

var _ ports.LogSink = (*Sink)(nil)
