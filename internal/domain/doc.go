// Package domain contains the core entities and value objects for mctransmit.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (capture devices, the file system,
// logging) and contains only pure rules.
//
// # Entities
//
//   - [RawInput]: The three unvalidated strings supplied by a front-end
//   - [TransmissionConfig]: Validated destination, interval and payload text
//   - [NetworkIdentity]: Source MAC and IPv4 address of the outbound interface
//   - [DestinationIdentity]: Destination IPv4 address and its multicast MAC
//   - [Frame]: The immutable Ethernet/IPv4/UDP byte sequence sent on the wire
//
// # Rules
//
//   - [Validate] checks all three inputs independently and aggregates failures
//   - [MulticastMAC] maps an IPv4 multicast group to its Ethernet address
package domain
