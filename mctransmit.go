// Package mctransmit exposes the frame-level building blocks of the
// multicast transmitter: input validation, multicast MAC derivation and
// frame construction. For a running transmitter, see pkg/mctransmit.
//
// Example usage:
//
//	cfg, err := mctransmit.Validate(mctransmit.Inputs{
//	    Address:  "239.1.1.1",
//	    Interval: "1000",
//	    Text:     "HELLO",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frame, err := mctransmit.BuildFrame(cfg, source)
package mctransmit

import (
	"net"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/frame"
)

// Inputs are the three raw values a transmission is built from.
type Inputs = domain.RawInput

// Config is a validated transmission configuration.
type Config = domain.TransmissionConfig

// NetworkIdentity describes the interface frames are sent from.
type NetworkIdentity = domain.NetworkIdentity

// Validate checks all three inputs and returns every failure at once as
// domain.ValidationErrors.
func Validate(in Inputs) (Config, error) {
	return domain.Validate(in)
}

// MulticastMAC returns the Ethernet group address for an IPv4 multicast IP.
func MulticastMAC(ip net.IP) net.HardwareAddr {
	return domain.MulticastMAC(ip)
}

// BuildFrame returns the complete Ethernet frame for cfg sent from source.
func BuildFrame(cfg Config, source NetworkIdentity) ([]byte, error) {
	f, err := frame.Build(frame.Spec{
		Source:      source,
		Destination: domain.NewDestination(cfg.Destination),
		Payload:     cfg.Payload(),
	})
	if err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// Frame header constants.
const (
	SourcePort      = domain.SourcePort
	DestinationPort = domain.DestinationPort
	TTL             = domain.TTL
)
