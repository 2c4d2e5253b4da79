package ports

import "github.com/bft-labs/mctransmit/internal/domain"

// LinkLayer opens transmit handles on local network interfaces.
type LinkLayer interface {
	// Name identifies the backend in logs (e.g. "pcap").
	Name() string

	// Open binds a handle to the interface described by ident.
	// Platform failures are returned as *domain.NativeCaptureError.
	Open(ident domain.NetworkIdentity) (Handle, error)
}

// Handle sends raw frames on one interface.
// A Handle is used by one goroutine at a time; Close may be called concurrently
// with Send and must make later sends fail with domain.ErrHandleClosed.
type Handle interface {
	// Send writes one complete Ethernet frame.
	Send(frame []byte) error

	// Close releases the handle. Closing twice is a no-op.
	Close() error
}
