// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [LinkLayer]: Opens a raw link-layer transmit handle on an interface
//   - [Handle]: Sends prebuilt Ethernet frames, bypassing the socket stack
//   - [LogSink]: Receives one formatted line per transmission or failure
//   - [InputSource]: Supplies the three raw configuration strings on demand
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with libpcap,
// AF_PACKET sockets, and console output.
package ports
