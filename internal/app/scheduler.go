package app

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// TimeLayout is the clock format used in transmission lines.
const TimeLayout = "15:04:05.000"

// Job is one periodic transmission: a prebuilt frame sent through a handle.
type Job struct {
	Frame       domain.Frame
	Handle      ports.Handle
	Interval    time.Duration
	Destination net.IP
	Text        string
}

// FormatLine renders the sink line for one successful send.
func FormatLine(t time.Time, destination net.IP, text string) string {
	return fmt.Sprintf("time: '%s', destination: '%s', text: '%s' ", t.Format(TimeLayout), destination, text)
}

// formatFailure renders the sink line reporting a fatal send failure.
func formatFailure(t time.Time, err error) string {
	return fmt.Sprintf("time: '%s', transmission stopped: %v", t.Format(TimeLayout), err)
}

// SchedulerOption configures optional behavior of a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock sets the clock used for line timestamps.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithGracePeriod overrides StopGracePeriod.
func WithGracePeriod(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.grace = d
	}
}

// WithSchedulerLogger sets the operational logger.
func WithSchedulerLogger(logger log.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithEventEmitter receives lifecycle state changes. The emitter is called
// without any scheduler lock held, so it may query the scheduler.
func WithEventEmitter(emitter EventEmitter) SchedulerOption {
	return func(s *Scheduler) {
		s.emitter = emitter
	}
}

// Scheduler re-sends one frame at a fixed period on a single goroutine.
//
// Start is valid only from StateIdle. Stop stops admitting firings, waits up
// to the grace period for an in-flight send, then abandons it and returns to
// StateIdle; no sink line is delivered after Stop returns. A failed send halts
// the run and is reported to the sink once.
type Scheduler struct {
	mu        sync.Mutex
	lifecycle *Lifecycle
	sink      ports.LogSink
	logger    log.Logger
	emitter   EventEmitter
	now       func() time.Time
	grace     time.Duration

	run *run
	err error

	pending  []stateChange
	draining bool
}

// stateChange is a lifecycle event waiting for delivery.
type stateChange struct {
	previous, current State
	reason            string
}

// queueEmitter records transitions made under s.mu for flushEvents.
type queueEmitter struct{ s *Scheduler }

func (q queueEmitter) OnStateChange(previous, current State, reason string) {
	q.s.pending = append(q.s.pending, stateChange{previous, current, reason})
}

// run is the state of one Start..Idle cycle.
type run struct {
	cancel   context.CancelFunc
	finished chan struct{} // worker goroutine returned
	over     chan struct{} // run reached StateIdle
	sent     atomic.Uint64

	emitMu sync.Mutex
	sealed bool
}

// emit delivers line unless the run has been sealed by Stop.
func (r *run) emit(sink ports.LogSink, line string) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	if r.sealed {
		return
	}
	sink.Append(line)
}

func (r *run) seal() {
	r.emitMu.Lock()
	r.sealed = true
	r.emitMu.Unlock()
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// NewScheduler creates an idle scheduler reporting to sink.
func NewScheduler(sink ports.LogSink, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sink:   sink,
		logger: log.NewNoopLogger(),
		now:    time.Now,
		grace:  StopGracePeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	var emitter EventEmitter
	if s.emitter != nil {
		emitter = queueEmitter{s}
	}
	s.lifecycle = NewLifecycle(s.logger, emitter)
	return s
}

// flushEvents delivers queued state changes in order with s.mu released.
// One goroutine delivers at a time; changes queued meanwhile, including by
// the emitter itself, are delivered by that goroutine.
func (s *Scheduler) flushEvents() {
	if s.emitter == nil {
		return
	}
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		s.emitter.OnStateChange(ev.previous, ev.current, ev.reason)
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

// GracePeriod returns how long Stop waits for an in-flight send.
func (s *Scheduler) GracePeriod() time.Duration {
	return s.grace
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return s.lifecycle.State()
}

// Done returns a channel closed when the current run returns to StateIdle.
// When idle, the returned channel is already closed.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return closedCh
	}
	return s.run.over
}

// Finished returns a channel closed when the worker goroutine of the current
// run has returned, which may be after Done when a send was abandoned.
// When idle, the returned channel is already closed.
func (s *Scheduler) Finished() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return closedCh
	}
	return s.run.finished
}

// Err returns the send failure that halted the most recent run, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Start begins sending job.Frame immediately and then every job.Interval.
// Returns domain.ErrAlreadyRunning unless the scheduler is idle.
func (s *Scheduler) Start(job Job) error {
	s.mu.Lock()
	defer s.flushEvents()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if job.Interval <= 0 || job.Handle == nil || job.Frame.Empty() {
		return fmt.Errorf("%w: job needs a frame, a handle and a positive interval", domain.ErrInvalidConfig)
	}

	if err := s.lifecycle.TransitionTo(StateRunning, "Start() called"); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		cancel:   cancel,
		finished: make(chan struct{}),
		over:     make(chan struct{}),
	}
	s.run = r
	s.err = nil

	go s.loop(ctx, r, job)
	return nil
}

// Stop halts the current run. Stop on an idle scheduler is a no-op.
// Returns domain.ErrShutdownTimeout if an in-flight send had to be abandoned.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return nil
	}
	r := s.run
	if err := s.lifecycle.TransitionTo(StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	r.cancel()
	s.mu.Unlock()
	s.flushEvents()

	err := waitWithTimeout(r.finished, s.grace, s.logger)
	r.seal()

	s.mu.Lock()
	reason := "stopped"
	if err != nil {
		reason = "stopped after grace period"
	}
	s.finish(r, reason)
	s.mu.Unlock()
	s.flushEvents()

	return err
}

// loop is the single timer goroutine of a run.
func (s *Scheduler) loop(ctx context.Context, r *run, job Job) {
	defer close(r.finished)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := job.Handle.Send(job.Frame.Raw()); err != nil {
			s.fail(r, err)
			return
		}
		r.sent.Add(1)
		r.emit(s.sink, FormatLine(s.now(), job.Destination, job.Text))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// fail reports a fatal send error and halts the run without retrying.
func (s *Scheduler) fail(r *run, err error) {
	s.logger.Error("send failed, halting transmission",
		log.Err(err),
		log.Uint64("sent", r.sent.Load()),
	)
	r.emit(s.sink, formatFailure(s.now(), err))

	s.mu.Lock()
	defer s.flushEvents()
	defer s.mu.Unlock()

	if s.run != r {
		return
	}
	s.err = err
	if s.lifecycle.State() != StateRunning {
		// Stop is already tearing this run down.
		return
	}
	_ = s.lifecycle.TransitionTo(StateStopping, "send failed")
	r.cancel()
	r.seal()
	s.finish(r, "send failed")
}

// finish moves a stopping run to StateIdle. Caller holds s.mu.
func (s *Scheduler) finish(r *run, reason string) {
	if s.run != r {
		return
	}
	_ = s.lifecycle.TransitionTo(StateIdle, reason)
	s.logger.Info("transmission finished", log.Uint64("sent", r.sent.Load()))
	s.run = nil
	close(r.over)
}
