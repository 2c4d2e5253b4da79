package cliconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bft-labs/mctransmit/internal/domain"
)

// Defaults for the three transmission values.
const (
	DefaultAddress  = "233.10.47.10"
	DefaultInterval = "5000"
	DefaultText     = "mctransmit"
)

// Link-layer backends.
const (
	BackendPcap     = "pcap"
	BackendAFPacket = "afpacket"
)

// Config holds CLI configuration for mctransmit.
//
// Address, Interval and Text stay raw strings; they are checked by
// domain.Validate when a session starts, not here.
type Config struct {
	Address  string
	Interval string
	Text     string

	Backend  string
	LogLevel string
	Watch    bool
	Meta     bool

	// Label tags operational logs of this instance.
	Label string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Address:  DefaultAddress,
		Interval: DefaultInterval,
		Text:     DefaultText,
		Backend:  BackendPcap,
		LogLevel: "info",
	}
}

// Validate checks the non-transmission settings and normalizes them.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendPcap
	}
	switch c.Backend {
	case BackendPcap, BackendAFPacket:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendPcap, BackendAFPacket)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

// Inputs returns the raw transmission values. Surrounding whitespace is
// trimmed from the address and interval; the text is sent as entered.
func (c Config) Inputs() domain.RawInput {
	return domain.RawInput{
		Address:  strings.TrimSpace(c.Address),
		Interval: strings.TrimSpace(c.Interval),
		Text:     c.Text,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
