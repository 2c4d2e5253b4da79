// Package mctransmit provides an embeddable periodic IPv4 multicast transmitter.
//
// A Transmitter validates three raw inputs (a multicast address, an interval
// in milliseconds and a text payload), selects a local interface, builds one
// Ethernet/IPv4/UDP frame and re-sends it through a raw link-layer handle at
// a fixed period. Frames bypass the operating system's socket stack, so the
// source MAC, source IP, TTL and ports are exactly those written into the frame.
//
// # Basic Usage
//
//	t, err := mctransmit.New(mctransmit.Inputs{
//	    Address:  "239.1.1.1",
//	    Interval: "1000",
//	    Text:     "HELLO",
//	}, mctransmit.WithBackend("pcap"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := t.Start(); err != nil {
//	    log.Fatal(err) // validation, interface or capture failure
//	}
//
//	// ... run until shutdown signal or <-t.Done() ...
//
//	if err := t.Stop(); err != nil {
//	    log.Printf("stop: %v", err)
//	}
//
// # Transmission Lines
//
// Each successful send appends one line to the configured [Sink]:
//
//	time: '13:04:05.067', destination: '239.1.1.1', text: 'HELLO'
//
// No line is appended after Stop returns. A send failure halts the
// transmission, appends one failure line and closes [Transmitter.Done].
//
// # Backends
//
// "pcap" (default) uses libpcap through gopacket and needs capture
// privileges. "afpacket" uses Linux AF_PACKET sockets and needs CAP_NET_RAW.
// Custom link layers can be injected with [WithLinkLayer].
//
// # Lifecycle States
//
// Each transmission moves through [StateIdle], [StateRunning] and
// [StateStopping]. Use [WithEventHandler] to observe transitions.
package mctransmit
