package configwatcher

import (
	"context"
	"time"

	"github.com/bft-labs/mctransmit/pkg/log"
)

// ReloadFunc is invoked on the watcher goroutine after the watched file
// settles. An error is logged and the watcher keeps running.
type ReloadFunc func(ctx context.Context) error

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the config file to watch. Its directory must exist.
	Path string

	// DebounceDelay is the quiet period after the last change before reloading.
	// Default: 200 milliseconds
	DebounceDelay time.Duration

	// Reload is called once per settled change.
	Reload ReloadFunc

	// Logger receives operational messages. Default: no-op.
	Logger log.Logger
}

// DefaultConfig returns a Config watching path with sensible defaults.
func DefaultConfig(path string, reload ReloadFunc) Config {
	return Config{
		Path:          path,
		DebounceDelay: 200 * time.Millisecond,
		Reload:        reload,
	}
}
