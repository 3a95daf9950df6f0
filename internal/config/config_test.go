package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Servers: []string{"kiwisdr.example.net:8073"},
		Audio: AudioConfig{
			SourceRate:  12000,
			OutputRate:  44100,
			RingSeconds: 1.0,
		},
		Client: ClientConfig{
			PollTimeout:       100,
			SetupDelay:        100,
			ReconnectInterval: 5,
			AutoReconnect:     true,
			FreqDebounce:      10,
		},
		HTTP: HTTPConfig{
			Port:    8088,
			Address: "127.0.0.1",
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid configuration",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty server list",
			mutate:      func(c *Config) { c.Servers = nil },
			expectError: true,
			errorMsg:    "servers list cannot be empty",
		},
		{
			name:        "server missing port",
			mutate:      func(c *Config) { c.Servers = []string{"kiwisdr.example.net"} },
			expectError: true,
			errorMsg:    "must be host:port",
		},
		{
			name:        "zero source rate",
			mutate:      func(c *Config) { c.Audio.SourceRate = 0 },
			expectError: true,
			errorMsg:    "source_rate must be positive",
		},
		{
			name:        "negative ring size",
			mutate:      func(c *Config) { c.Audio.RingSeconds = -1 },
			expectError: true,
			errorMsg:    "ring_seconds must be positive",
		},
		{
			name:        "zero poll timeout",
			mutate:      func(c *Config) { c.Client.PollTimeout = 0 },
			expectError: true,
			errorMsg:    "poll_timeout_ms must be at least 1",
		},
		{
			name:        "invalid http port",
			mutate:      func(c *Config) { c.HTTP.Port = 70000 },
			expectError: true,
			errorMsg:    "http port must be between",
		},
		{
			name: "http disabled skips address check",
			mutate: func(c *Config) {
				c.HTTP.Enabled = false
				c.HTTP.Address = ""
			},
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "level must be one of",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
			errorMsg:    "format must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errorMsg != "" && !contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
servers:
  - "kiwisdr.example.net:8073"
  - "backup.example.net:8073"
audio:
  source_rate: 12000
  output_rate: 48000
  ring_seconds: 2.0
client:
  poll_timeout_ms: 50
  setup_delay_ms: 100
  reconnect_interval_s: 5
  auto_reconnect: true
  freq_debounce_hz: 10
logging:
  level: debug
  format: json
  output: stdout
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Servers) != 2 {
		t.Errorf("Expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Audio.OutputRate != 48000 {
		t.Errorf("Expected output rate 48000, got %d", cfg.Audio.OutputRate)
	}
	if cfg.Audio.RingCapacity() != 24000 {
		t.Errorf("Expected ring capacity 24000, got %d", cfg.Audio.RingCapacity())
	}
	if cfg.Client.GetPollTimeout() != 50*time.Millisecond {
		t.Errorf("Expected 50ms poll timeout, got %v", cfg.Client.GetPollTimeout())
	}
	if cfg.Client.GetReconnectInterval() != 5*time.Second {
		t.Errorf("Expected 5s reconnect interval, got %v", cfg.Client.GetReconnectInterval())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("servers: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration must validate: %v", err)
	}
	if len(cfg.Servers) == 0 {
		t.Error("Default configuration must include fallback servers")
	}
}

// contains checks substring presence without pulling in strings for one call
func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchSubstring(s, substr)
}

func searchSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
