package domain

import (
	"net"

	"github.com/cespare/xxhash"
)

// Fixed protocol constants of the transmitted frame.
const (
	SourcePort      uint16 = 25000
	DestinationPort uint16 = 780
	TTL             uint8  = 255
	TOS             uint8  = 0

	// MaxPayload is the largest UDP payload carried by one IPv4 datagram.
	MaxPayload = 65535 - 20 - 8
)

// Frame is a fully composed Ethernet frame.
// The zero value is an empty frame; frames are only created by the frame builder.
type Frame struct {
	b []byte
}

// NewFrame wraps b as a frame. The caller must not modify b afterwards.
func NewFrame(b []byte) Frame {
	return Frame{b: b}
}

// Bytes returns a copy of the frame bytes.
func (f Frame) Bytes() []byte {
	return append([]byte(nil), f.b...)
}

// Len returns the frame length in bytes.
func (f Frame) Len() int {
	return len(f.b)
}

// Empty returns true if the frame has no bytes.
func (f Frame) Empty() bool {
	return len(f.b) == 0
}

// Equal reports whether both frames hold identical bytes.
func (f Frame) Equal(o Frame) bool {
	return string(f.b) == string(o.b)
}

// Fingerprint returns a 64-bit hash of the frame bytes.
func (f Frame) Fingerprint() uint64 {
	return xxhash.Sum64(f.b)
}

// Raw returns the frame bytes without copying. The result must not be modified.
func (f Frame) Raw() []byte {
	return f.b
}

// NetworkIdentity is the resolved source side of a transmission.
type NetworkIdentity struct {
	// Interface is the OS name of the selected interface
	Interface string

	// Index is the OS interface index
	Index int

	// MAC is the hardware address of the interface
	MAC net.HardwareAddr

	// IP is the first IPv4 address of the interface (4 bytes)
	IP net.IP
}

// DestinationIdentity is the destination group and its derived MAC address.
type DestinationIdentity struct {
	IP  net.IP
	MAC net.HardwareAddr
}

// NewDestination derives the destination identity of a validated multicast address.
func NewDestination(ip net.IP) DestinationIdentity {
	return DestinationIdentity{IP: ip, MAC: MulticastMAC(ip)}
}
