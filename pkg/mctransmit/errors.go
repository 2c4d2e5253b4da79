package mctransmit

import "github.com/bft-labs/mctransmit/internal/domain"

// Errors returned by Transmitter. Check with errors.Is / errors.As.
var (
	ErrAlreadyRunning    = domain.ErrAlreadyRunning
	ErrShutdownTimeout   = domain.ErrShutdownTimeout
	ErrInvalidConfig     = domain.ErrInvalidConfig
	ErrNoUsableInterface = domain.ErrNoUsableInterface
	ErrHandleClosed      = domain.ErrHandleClosed
	ErrPayloadTooLarge   = domain.ErrPayloadTooLarge
)

type (
	// ValidationErrors lists every invalid input, in address, interval,
	// text order.
	ValidationErrors = domain.ValidationErrors

	// FieldError is one invalid input.
	FieldError = domain.FieldError

	// FailureKind classifies a FieldError.
	FailureKind = domain.FailureKind

	// NativeCaptureError wraps a platform capture failure.
	NativeCaptureError = domain.NativeCaptureError
)

// Failure kinds.
const (
	InvalidMulticastAddress = domain.InvalidMulticastAddress
	InvalidInterval         = domain.InvalidInterval
	InvalidText             = domain.InvalidText
)
