// Package afpacket sends raw frames through Linux AF_PACKET sockets.
package afpacket

import (
	"bytes"
	"fmt"
	"net"
	"sync"

	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/packet"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// conn is the part of *packet.Conn used for transmission.
type conn interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
	Close() error
}

// LinkLayer implements ports.LinkLayer with raw packet sockets.
type LinkLayer struct {
	logger log.Logger
	listen func(ifi *net.Interface) (conn, error)
}

// NewLinkLayer creates an AF_PACKET link layer.
func NewLinkLayer(logger log.Logger) *LinkLayer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &LinkLayer{
		logger: logger,
		listen: listen,
	}
}

// Name returns "afpacket".
func (l *LinkLayer) Name() string { return "afpacket" }

// Open binds a raw socket to the interface with index ident.Index.
func (l *LinkLayer) Open(ident domain.NetworkIdentity) (ports.Handle, error) {
	ifi := &net.Interface{
		Index:        ident.Index,
		Name:         ident.Interface,
		HardwareAddr: ident.MAC,
	}
	c, err := l.listen(ifi)
	if err != nil {
		return nil, &domain.NativeCaptureError{Op: "open " + ident.Interface, Err: err}
	}
	l.logger.Debug("packet socket opened",
		log.String("iface", ident.Interface),
		log.Int("index", ident.Index),
	)
	return &Handle{c: c}, nil
}

// Handle is an open packet socket.
type Handle struct {
	mu     sync.Mutex
	c      conn
	closed bool
	addr   *packet.Addr // destination of the last frame sent
}

// Send writes one frame, addressed to the frame's own destination MAC.
// The header is decoded only when the destination differs from the
// previous frame's.
func (h *Handle) Send(frame []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}
	if h.addr == nil || len(frame) < len(h.addr.HardwareAddr) || !bytes.Equal(frame[:len(h.addr.HardwareAddr)], h.addr.HardwareAddr) {
		var f ethernet.Frame
		if err := f.UnmarshalBinary(frame); err != nil {
			return fmt.Errorf("decode ethernet header: %w", err)
		}
		h.addr = &packet.Addr{HardwareAddr: f.Destination}
	}
	if _, err := h.c.WriteTo(frame, h.addr); err != nil {
		return &domain.NativeCaptureError{Op: "write", Err: err}
	}
	return nil
}

// Close releases the socket. Later calls are no-ops.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return h.c.Close()
}

var _ ports.LinkLayer = (*LinkLayer)(nil)
var _ ports.Handle = (*Handle)(nil)
