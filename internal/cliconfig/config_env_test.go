package cliconfig

import (
	"testing"
)

var envKeys = []string{
	"MCTRANSMIT_ADDRESS",
	"MCTRANSMIT_INTERVAL",
	"MCTRANSMIT_TEXT",
	"MCTRANSMIT_BACKEND",
	"MCTRANSMIT_LOG_LEVEL",
	"MCTRANSMIT_WATCH",
	"MCTRANSMIT_META",
}

// clearEnv blanks every MCTRANSMIT_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"MCTRANSMIT_ADDRESS":   "239.1.1.1",
				"MCTRANSMIT_INTERVAL":  "1000",
				"MCTRANSMIT_TEXT":      "HELLO",
				"MCTRANSMIT_BACKEND":   "afpacket",
				"MCTRANSMIT_LOG_LEVEL": "debug",
				"MCTRANSMIT_WATCH":     "true",
				"MCTRANSMIT_META":      "1",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Address:  "239.1.1.1",
				Interval: "1000",
				Text:     "HELLO",
				Backend:  "afpacket",
				LogLevel: "debug",
				Watch:    true,
				Meta:     true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"MCTRANSMIT_ADDRESS": "239.1.1.1",
				"MCTRANSMIT_TEXT":    "env",
			},
			changed: map[string]bool{"address": true},
			initial: Config{Address: "233.10.47.10"},
			expected: Config{
				Address: "233.10.47.10",
				Text:    "env",
			},
		},
		{
			name: "keeps raw interval for later validation",
			envVars: map[string]string{
				"MCTRANSMIT_INTERVAL": "soon",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{Interval: "soon"},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"MCTRANSMIT_WATCH": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{Watch: true},
			expected: Config{Watch: false},
		},
		{
			name: "returns error for invalid bool",
			envVars: map[string]string{
				"MCTRANSMIT_META": "maybe",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	clearEnv(t)
	trueVal := true

	fileConf := FileConfig{
		Address:  "239.9.9.9",
		Interval: "250",
		Text:     "file",
		Meta:     &trueVal,
	}

	t.Setenv("MCTRANSMIT_INTERVAL", "750")
	t.Setenv("MCTRANSMIT_TEXT", "env")

	changed := map[string]bool{
		"text": true,
	}

	cfg := DefaultConfig()
	cfg.Text = "cli"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Text != "cli" {
		t.Errorf("Text = %v, want cli (CLI should win)", cfg.Text)
	}
	if cfg.Interval != "750" {
		t.Errorf("Interval = %v, want 750 (env should override file)", cfg.Interval)
	}
	if cfg.Address != "239.9.9.9" {
		t.Errorf("Address = %v, want 239.9.9.9 (file should set)", cfg.Address)
	}
	if !cfg.Meta {
		t.Error("Meta = false, want true (file should set)")
	}
	if cfg.Backend != BackendPcap {
		t.Errorf("Backend = %v, want default", cfg.Backend)
	}
}
