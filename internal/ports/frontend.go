package ports

import "github.com/bft-labs/mctransmit/internal/domain"

// LogSink receives user-facing transmission lines.
// Append must not block the caller for long; implementations deliver lines
// in the order Append was called.
type LogSink interface {
	Append(line string)
}

// InputSource supplies the three raw values when a session starts.
type InputSource interface {
	Inputs() domain.RawInput
}
