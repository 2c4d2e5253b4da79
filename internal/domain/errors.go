package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent error conditions in the mctransmit domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called while a session is active.
	ErrAlreadyRunning = errors.New("mctransmit: already running")

	// ErrNotRunning is returned when an operation needs an active session.
	ErrNotRunning = errors.New("mctransmit: not running")

	// ErrShutdownTimeout is returned when an in-flight send outlives the stop grace period.
	ErrShutdownTimeout = errors.New("mctransmit: shutdown timeout")

	// ErrInvalidConfig matches any aggregated validation failure.
	ErrInvalidConfig = errors.New("mctransmit: invalid configuration")

	// ErrNoUsableInterface is returned when no local interface qualifies for transmission.
	ErrNoUsableInterface = errors.New("mctransmit: no usable network interface (up, non-loopback, non-virtual, with an Ethernet MAC and an IPv4 address)")

	// ErrHandleClosed is returned when sending through a closed link-layer handle.
	ErrHandleClosed = errors.New("mctransmit: link-layer handle closed")

	// ErrPayloadTooLarge is returned when the text does not fit in one UDP datagram.
	ErrPayloadTooLarge = errors.New("mctransmit: payload exceeds a single UDP datagram")
)

// FailureKind classifies a validation failure.
type FailureKind int

const (
	InvalidMulticastAddress FailureKind = iota + 1
	InvalidInterval
	InvalidText
)

// String returns a human-readable representation of the kind.
func (k FailureKind) String() string {
	switch k {
	case InvalidMulticastAddress:
		return "InvalidMulticastAddress"
	case InvalidInterval:
		return "InvalidInterval"
	case InvalidText:
		return "InvalidText"
	default:
		return "Unknown"
	}
}

// FieldError is a single validation failure for one raw input.
type FieldError struct {
	Kind   FailureKind
	Input  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("'%s': %s", e.Input, e.Reason)
}

// ValidationErrors is the ordered, non-empty set of failures produced by Validate.
// Order follows the inputs: address, interval, text.
type ValidationErrors []*FieldError

// Error joins every failure into one message, one failure per line.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Is reports whether target is ErrInvalidConfig.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Has reports whether a failure of the given kind is present.
func (v ValidationErrors) Has(kind FailureKind) bool {
	for _, e := range v {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Kinds returns the failure kinds in order.
func (v ValidationErrors) Kinds() []FailureKind {
	kinds := make([]FailureKind, len(v))
	for i, e := range v {
		kinds[i] = e.Kind
	}
	return kinds
}

// NativeCaptureError wraps a failure reported by the platform capture layer.
type NativeCaptureError struct {
	Op  string
	Err error
}

func (e *NativeCaptureError) Error() string {
	return fmt.Sprintf("mctransmit: capture %s: %v", e.Op, e.Err)
}

func (e *NativeCaptureError) Unwrap() error {
	return e.Err
}
