package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MCTRANSMIT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("address", os.Getenv("MCTRANSMIT_ADDRESS"), &cfg.Address)
	s.setString("interval", os.Getenv("MCTRANSMIT_INTERVAL"), &cfg.Interval)
	s.setString("text", os.Getenv("MCTRANSMIT_TEXT"), &cfg.Text)
	s.setString("backend", os.Getenv("MCTRANSMIT_BACKEND"), &cfg.Backend)
	s.setString("log-level", os.Getenv("MCTRANSMIT_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setBoolFromString("watch", os.Getenv("MCTRANSMIT_WATCH"), &cfg.Watch); err != nil {
		return err
	}
	if err := s.setBoolFromString("meta", os.Getenv("MCTRANSMIT_META"), &cfg.Meta); err != nil {
		return err
	}

	return nil
}
