// Package pcap sends raw frames through libpcap.
package pcap

import (
	"sync"
	"time"

	gopcap "github.com/google/gopacket/pcap"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

const (
	snapLen     = 65536
	promiscuous = true
	readTimeout = 10 * time.Millisecond
)

// packetWriter is the part of *gopcap.Handle used for transmission.
type packetWriter interface {
	WritePacketData(data []byte) error
	Close()
}

// LinkLayer implements ports.LinkLayer on top of libpcap.
type LinkLayer struct {
	logger   log.Logger
	findDevs func() ([]gopcap.Interface, error)
	open     func(device string) (packetWriter, error)
}

// NewLinkLayer creates a libpcap link layer.
func NewLinkLayer(logger log.Logger) *LinkLayer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &LinkLayer{
		logger:   logger,
		findDevs: gopcap.FindAllDevs,
		open: func(device string) (packetWriter, error) {
			return gopcap.OpenLive(device, snapLen, promiscuous, readTimeout)
		},
	}
}

// Name returns "pcap".
func (l *LinkLayer) Name() string { return "pcap" }

// Open opens a live capture handle on the device that carries ident.IP.
func (l *LinkLayer) Open(ident domain.NetworkIdentity) (ports.Handle, error) {
	device := l.device(ident)
	w, err := l.open(device)
	if err != nil {
		return nil, &domain.NativeCaptureError{Op: "open " + device, Err: err}
	}
	l.logger.Debug("pcap handle opened", log.String("device", device))
	return &Handle{w: w}, nil
}

// device maps the interface to a pcap device name. On Windows the two differ;
// elsewhere the device found by address is the interface itself.
func (l *LinkLayer) device(ident domain.NetworkIdentity) string {
	devs, err := l.findDevs()
	if err != nil {
		l.logger.Debug("pcap device lookup failed, using interface name",
			log.String("iface", ident.Interface),
			log.Err(err),
		)
		return ident.Interface
	}
	for _, dev := range devs {
		for _, addr := range dev.Addresses {
			if addr.IP != nil && addr.IP.Equal(ident.IP) {
				return dev.Name
			}
		}
	}
	return ident.Interface
}

// Handle is an open libpcap handle.
type Handle struct {
	mu     sync.Mutex
	w      packetWriter
	closed bool
}

// Send writes one frame.
func (h *Handle) Send(frame []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}
	if err := h.w.WritePacketData(frame); err != nil {
		return &domain.NativeCaptureError{Op: "write", Err: err}
	}
	return nil
}

// Close releases the pcap handle. Later calls are no-ops.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.w.Close()
	return nil
}

var _ ports.LinkLayer = (*LinkLayer)(nil)
var _ ports.Handle = (*Handle)(nil)
