// Package log provides a logging abstraction for mctransmit components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. A zerolog implementation is provided, plus a
// no-op logger for tests and for library use without output.
//
// # Usage
//
//	logger := log.NewZerologAdapter(os.Stderr, "info")
//	logger.Info("session started", log.String("session", id))
//
// Transmission lines shown to the user do not go through this package;
// they are delivered to a ports.LogSink.
package log
