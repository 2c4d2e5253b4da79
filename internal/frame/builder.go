// Package frame composes the Ethernet/IPv4/UDP frame sent by a session.
package frame

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/bft-labs/mctransmit/internal/domain"
)

// Spec holds everything a frame is built from.
type Spec struct {
	Source      domain.NetworkIdentity
	Destination domain.DestinationIdentity
	Payload     []byte
}

// Build serializes the frame once. Lengths and checksums are computed from
// the final layout; the Ethernet layer pads short frames to 60 bytes.
func Build(spec Spec) (domain.Frame, error) {
	if len(spec.Payload) > domain.MaxPayload {
		return domain.Frame{}, fmt.Errorf("%w: %d bytes", domain.ErrPayloadTooLarge, len(spec.Payload))
	}
	srcIP := spec.Source.IP.To4()
	dstIP := spec.Destination.IP.To4()
	if srcIP == nil || dstIP == nil {
		return domain.Frame{}, fmt.Errorf("build frame: source %v and destination %v must be IPv4", spec.Source.IP, spec.Destination.IP)
	}

	eth := &layers.Ethernet{
		SrcMAC:       spec.Source.MAC,
		DstMAC:       spec.Destination.MAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TOS:      domain.TOS,
		TTL:      domain.TTL,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    srcIP,
		DstIP:    dstIP,
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(domain.SourcePort),
		DstPort: layers.UDPPort(domain.DestinationPort),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return domain.Frame{}, fmt.Errorf("build frame: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(spec.Payload)); err != nil {
		return domain.Frame{}, fmt.Errorf("serialize frame: %w", err)
	}

	// SerializeBuffer reuses its backing array; keep an owned copy.
	return domain.NewFrame(append([]byte(nil), buf.Bytes()...)), nil
}
