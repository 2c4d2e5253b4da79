package mctransmit

import (
	"fmt"
	"sync"

	"github.com/bft-labs/mctransmit/internal/adapters/afpacket"
	"github.com/bft-labs/mctransmit/internal/adapters/pcap"
	"github.com/bft-labs/mctransmit/internal/app"
	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/frame"
	"github.com/bft-labs/mctransmit/internal/netif"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// Transmitter owns at most one transmission session at a time.
// Use New() to create an instance, then Start() to begin sending.
type Transmitter struct {
	input      *inputSource
	controller *app.Controller
	linkLayer  ports.LinkLayer
	logger     log.Logger
}

// New creates a Transmitter in StateIdle. The inputs are not validated until
// Start. Returns an error only for an unknown backend name.
func New(in Inputs, opts ...Option) (*Transmitter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	linkLayer := o.linkLayer
	if linkLayer == nil {
		var err error
		linkLayer, err = newBackend(o.backend, o.logger)
		if err != nil {
			return nil, err
		}
	}

	var schedOpts []app.SchedulerOption
	if o.eventHandler != nil {
		schedOpts = append(schedOpts, app.WithEventEmitter(&eventEmitterWrapper{handler: o.eventHandler}))
	}
	if o.gracePeriod > 0 {
		schedOpts = append(schedOpts, app.WithGracePeriod(o.gracePeriod))
	}
	if o.clock != nil {
		schedOpts = append(schedOpts, app.WithClock(o.clock))
	}

	input := &inputSource{in: in}
	controller := app.NewController(input, app.SessionDeps{
		Resolver:         netif.NewResolverWithLister(o.lister, o.logger),
		LinkLayer:        linkLayer,
		Sink:             o.sink,
		Logger:           o.logger,
		SchedulerOptions: schedOpts,
	})

	return &Transmitter{
		input:      input,
		controller: controller,
		linkLayer:  linkLayer,
		logger:     o.logger,
	}, nil
}

func newBackend(name string, logger log.Logger) (ports.LinkLayer, error) {
	switch name {
	case "", BackendPcap:
		return pcap.NewLinkLayer(logger), nil
	case BackendAFPacket:
		return afpacket.NewLinkLayer(logger), nil
	default:
		return nil, fmt.Errorf("mctransmit: unknown backend %q", name)
	}
}

// Backend returns the name of the link layer in use.
func (t *Transmitter) Backend() string {
	return t.linkLayer.Name()
}

// Start validates the current inputs, builds the frame and begins sending.
// Validation failures are returned as ValidationErrors listing every
// invalid input. Returns ErrAlreadyRunning while a transmission is active.
func (t *Transmitter) Start() error {
	_, err := t.controller.Start()
	return err
}

// Stop ends the current transmission. Stop while idle is a no-op.
// Returns ErrShutdownTimeout if an in-flight send had to be abandoned.
func (t *Transmitter) Stop() error {
	return t.controller.Stop()
}

// Toggle stops an active transmission or starts a new one.
func (t *Transmitter) Toggle() error {
	return t.controller.Toggle()
}

// Restart stops the current transmission and starts a new one from the
// current inputs.
func (t *Transmitter) Restart() error {
	_, err := t.controller.Restart()
	return err
}

// Update replaces the inputs used by the next Start or Restart.
// A running transmission is not affected.
func (t *Transmitter) Update(in Inputs) {
	t.input.set(in)
}

// Inputs returns the inputs the next Start will use.
func (t *Transmitter) Inputs() Inputs {
	return t.input.Inputs()
}

// Running reports whether a transmission is active.
func (t *Transmitter) Running() bool {
	return t.controller.Running()
}

// Status returns the lifecycle state of the current transmission.
func (t *Transmitter) Status() State {
	if s := t.controller.Current(); s != nil {
		return s.State()
	}
	return StateIdle
}

// Done returns a channel closed when the current transmission ends.
// With no transmission, the returned channel is already closed.
func (t *Transmitter) Done() <-chan struct{} {
	if s := t.controller.Current(); s != nil {
		return s.Done()
	}
	return closedCh
}

// Err returns the send failure that halted the current transmission, if any.
func (t *Transmitter) Err() error {
	if s := t.controller.Current(); s != nil {
		return s.Err()
	}
	return nil
}

// SessionID identifies the current transmission, or returns "" when idle.
func (t *Transmitter) SessionID() string {
	if s := t.controller.Current(); s != nil {
		return s.ID().String()
	}
	return ""
}

// Source returns the interface the current transmission sends from.
func (t *Transmitter) Source() (NetworkIdentity, bool) {
	if s := t.controller.Current(); s != nil {
		return s.Source(), true
	}
	return NetworkIdentity{}, false
}

// Frame returns a copy of the frame being sent, or nil when idle.
func (t *Transmitter) Frame() []byte {
	if s := t.controller.Current(); s != nil {
		return s.Frame().Bytes()
	}
	return nil
}

// Describe renders the current frame for debugging, or "" when idle.
func (t *Transmitter) Describe() string {
	if s := t.controller.Current(); s != nil {
		return frame.Describe(s.Frame())
	}
	return ""
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// inputSource is the mutable ports.InputSource behind Update.
type inputSource struct {
	mu sync.RWMutex
	in domain.RawInput
}

func (s *inputSource) Inputs() domain.RawInput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.in
}

func (s *inputSource) set(in domain.RawInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in = in
}
