package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/frame"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// InterfaceResolver selects the outbound interface.
type InterfaceResolver interface {
	Resolve() (domain.NetworkIdentity, error)
}

// SessionDeps are the collaborators a session is built from.
type SessionDeps struct {
	Resolver  InterfaceResolver
	LinkLayer ports.LinkLayer
	Sink      ports.LogSink
	Logger    log.Logger

	// SchedulerOptions are applied to every session's scheduler.
	SchedulerOptions []SchedulerOption
}

// Session binds one validated config, one frame and one scheduler.
type Session struct {
	id          uuid.UUID
	config      domain.TransmissionConfig
	source      domain.NetworkIdentity
	destination domain.DestinationIdentity
	frame       domain.Frame
	handle      ports.Handle
	scheduler   *Scheduler
	logger      log.Logger

	started   atomic.Bool
	closeOnce sync.Once
	closeErr  error
	released  chan struct{}
}

// NewSession runs the construction pipeline: validate, resolve the interface,
// derive the destination, build the frame, open the handle. Validation
// failures are returned before anything is resolved; no frame exists unless
// every earlier step succeeded.
func NewSession(in domain.RawInput, deps SessionDeps) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	cfg, err := domain.Validate(in)
	if err != nil {
		return nil, err
	}

	source, err := deps.Resolver.Resolve()
	if err != nil {
		return nil, err
	}
	destination := domain.NewDestination(cfg.Destination)

	f, err := frame.Build(frame.Spec{
		Source:      source,
		Destination: destination,
		Payload:     cfg.Payload(),
	})
	if err != nil {
		return nil, err
	}

	handle, err := deps.LinkLayer.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s handle on %s: %w", deps.LinkLayer.Name(), source.Interface, err)
	}

	id := uuid.New()
	sessLogger := log.With(logger, log.Stringer("session", id))

	opts := append([]SchedulerOption{WithSchedulerLogger(sessLogger)}, deps.SchedulerOptions...)
	s := &Session{
		id:          id,
		config:      cfg,
		source:      source,
		destination: destination,
		frame:       f,
		handle:      handle,
		scheduler:   NewScheduler(deps.Sink, opts...),
		logger:      sessLogger,
		released:    make(chan struct{}),
	}

	sessLogger.Info("session created",
		log.String("iface", source.Interface),
		log.String("backend", deps.LinkLayer.Name()),
		log.Stringer("destination", destination.IP),
		log.Stringer("destination_mac", destination.MAC),
		log.Int("frame_bytes", f.Len()),
		log.Uint64("fingerprint", f.Fingerprint()),
	)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Config returns the validated configuration.
func (s *Session) Config() domain.TransmissionConfig { return s.config }

// Source returns the resolved source identity.
func (s *Session) Source() domain.NetworkIdentity { return s.source }

// Destination returns the destination identity.
func (s *Session) Destination() domain.DestinationIdentity { return s.destination }

// Frame returns the prebuilt frame.
func (s *Session) Frame() domain.Frame { return s.frame }

// State returns the scheduler state.
func (s *Session) State() State { return s.scheduler.State() }

// Running reports whether the scheduler is not idle.
func (s *Session) Running() bool { return s.scheduler.State() != StateIdle }

// Done returns a channel closed when transmission ends for any reason.
func (s *Session) Done() <-chan struct{} { return s.scheduler.Done() }

// Err returns the send failure that halted the session, if any.
func (s *Session) Err() error { return s.scheduler.Err() }

// Released returns a channel closed once the handle has been closed. After a
// forced Stop this happens only when the abandoned send returns.
func (s *Session) Released() <-chan struct{} { return s.released }

// Start begins periodic transmission. A session can be started once;
// restarting requires a new session.
func (s *Session) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: session %s was already started", domain.ErrAlreadyRunning, s.id)
	}
	if err := s.scheduler.Start(Job{
		Frame:       s.frame,
		Handle:      s.handle,
		Interval:    s.config.Interval(),
		Destination: s.destination.IP,
		Text:        s.config.Text,
	}); err != nil {
		return err
	}

	finished := s.scheduler.Finished()
	go func() {
		<-finished
		_ = s.closeHandle()
	}()
	return nil
}

// Stop halts transmission and releases the handle. Safe to call repeatedly.
func (s *Session) Stop() error {
	stopErr := s.scheduler.Stop()
	if errors.Is(stopErr, domain.ErrShutdownTimeout) {
		// The abandoned send still holds the handle; the goroutine started
		// in Start releases it once that send returns.
		return stopErr
	}
	return errors.Join(stopErr, s.closeHandle())
}

func (s *Session) closeHandle() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.handle.Close()
		if s.closeErr != nil {
			s.logger.Warn("close handle", log.Err(s.closeErr))
		}
		close(s.released)
	})
	return s.closeErr
}
