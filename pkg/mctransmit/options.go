package mctransmit

import (
	"time"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/netif"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// Re-export types from internal packages for library users.
type (
	// Inputs are the three raw values a transmission is built from.
	Inputs = domain.RawInput

	// LinkLayer opens raw transmit handles on an interface.
	LinkLayer = ports.LinkLayer

	// Handle sends raw frames on one interface.
	Handle = ports.Handle

	// NetworkIdentity describes the selected source interface.
	NetworkIdentity = domain.NetworkIdentity

	// Interface is one entry of an interface enumeration.
	Interface = netif.Interface

	// Sink receives one line per transmission or failure.
	Sink = ports.LogSink

	// Logger is the interface for structured logging.
	Logger = log.Logger
)

// Backend names accepted by WithBackend.
const (
	BackendPcap     = "pcap"
	BackendAFPacket = "afpacket"
)

// Option configures optional behavior of a Transmitter.
type Option func(*options)

// options holds the optional configuration for a Transmitter instance.
type options struct {
	logger       log.Logger
	backend      string
	linkLayer    ports.LinkLayer
	sink         ports.LogSink
	lister       netif.Lister
	eventHandler EventHandler
	gracePeriod  time.Duration
	clock        func() time.Time
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger:  log.NewNoopLogger(),
		backend: BackendPcap,
		sink:    discardSink{},
		lister:  netif.SystemLister,
	}
}

// WithLogger sets a custom logger for operational logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBackend selects a built-in link layer by name ("pcap" or "afpacket").
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithLinkLayer sets a custom link layer. It takes precedence over WithBackend.
func WithLinkLayer(l LinkLayer) Option {
	return func(o *options) {
		o.linkLayer = l
	}
}

// WithSink sets where transmission lines are delivered.
// If not provided, lines are discarded.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithInterfaces replaces the system interface enumeration.
func WithInterfaces(list func() ([]Interface, error)) Option {
	return func(o *options) {
		o.lister = list
	}
}

// WithEventHandler sets a handler for lifecycle events.
// Events are called synchronously with no internal lock held; a handler may
// call Status, Err, Done and the other query methods, but must not call
// Start, Stop, Toggle or Restart.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithGracePeriod overrides how long Stop waits for an in-flight send.
// Default: 5 seconds.
func WithGracePeriod(d time.Duration) Option {
	return func(o *options) {
		o.gracePeriod = d
	}
}

// WithClock sets the clock used for line timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// discardSink drops every line.
type discardSink struct{}

func (discardSink) Append(string) {}
