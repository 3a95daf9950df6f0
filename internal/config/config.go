package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete client configuration
type Config struct {
	Servers []string      `yaml:"servers"`
	Audio   AudioConfig   `yaml:"audio"`
	Client  ClientConfig  `yaml:"client"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// AudioConfig contains audio rate and buffering parameters
type AudioConfig struct {
	SourceRate  int     `yaml:"source_rate"`  // receiver PCM rate, Hz
	OutputRate  int     `yaml:"output_rate"`  // default consumer rate, Hz
	RingSeconds float64 `yaml:"ring_seconds"` // ring capacity in seconds of source audio
}

// ClientConfig contains connection and tuning policy
type ClientConfig struct {
	PollTimeout       int     `yaml:"poll_timeout_ms"`      // receive loop read deadline
	SetupDelay        int     `yaml:"setup_delay_ms"`       // delay between setup commands
	ReconnectInterval int     `yaml:"reconnect_interval_s"` // auto-reconnect sweep interval
	AutoReconnect     bool    `yaml:"auto_reconnect"`
	FreqDebounce      float64 `yaml:"freq_debounce_hz"` // minimum retune step
}

// HTTPConfig contains the status API server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given: the public
// fallback receivers and the rates the SND endpoint negotiates.
func Default() *Config {
	return &Config{
		Servers: []string{
			"kiwisdr.ve6slp.ca:8073",
			"sdr.ve3sun.com:8073",
			"kiwisdr.n3lga.com:8073",
		},
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
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return fmt.Errorf("servers list cannot be empty")
	}
	for i, s := range c.Servers {
		if !strings.Contains(s, ":") {
			return fmt.Errorf("server %d (%q) must be host:port", i, s)
		}
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SourceRate < 1 {
		return fmt.Errorf("source_rate must be positive, got %d", a.SourceRate)
	}

	if a.OutputRate < 1 {
		return fmt.Errorf("output_rate must be positive, got %d", a.OutputRate)
	}

	if a.RingSeconds <= 0 {
		return fmt.Errorf("ring_seconds must be positive, got %f", a.RingSeconds)
	}

	return nil
}

// Validate validates client policy configuration
func (c *ClientConfig) Validate() error {
	if c.PollTimeout < 1 {
		return fmt.Errorf("poll_timeout_ms must be at least 1, got %d", c.PollTimeout)
	}

	if c.SetupDelay < 0 {
		return fmt.Errorf("setup_delay_ms cannot be negative, got %d", c.SetupDelay)
	}

	if c.ReconnectInterval < 1 {
		return fmt.Errorf("reconnect_interval_s must be at least 1, got %d", c.ReconnectInterval)
	}

	if c.FreqDebounce < 0 {
		return fmt.Errorf("freq_debounce_hz cannot be negative, got %f", c.FreqDebounce)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// RingCapacity returns the ring size in samples for the configured rates.
func (a *AudioConfig) RingCapacity() int {
	return int(float64(a.SourceRate) * a.RingSeconds)
}

// GetPollTimeout returns the receive loop read deadline as a time.Duration
func (c *ClientConfig) GetPollTimeout() time.Duration {
	return time.Duration(c.PollTimeout) * time.Millisecond
}

// GetSetupDelay returns the inter-command setup delay as a time.Duration
func (c *ClientConfig) GetSetupDelay() time.Duration {
	return time.Duration(c.SetupDelay) * time.Millisecond
}

// GetReconnectInterval returns the auto-reconnect interval as a time.Duration
func (c *ClientConfig) GetReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectInterval) * time.Second
}
