package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skypro1111/websdr-client/internal/audio"
	"github.com/skypro1111/websdr-client/internal/client"
	"github.com/skypro1111/websdr-client/internal/config"
	"github.com/skypro1111/websdr-client/internal/metrics"
	"github.com/skypro1111/websdr-client/internal/server"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "websdr-client"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	freq := flag.Float64("freq", 7055000, "Tuned frequency in Hz")
	modeName := flag.String("mode", "am", "Demodulation mode (am, fm, usb, lsb, cw)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = run until interrupted)")
	record := flag.String("record", "", "Record to a WAV file instead of writing raw PCM to stdout")
	flag.Parse()

	// Load configuration; the built-in defaults apply when the default
	// config file is simply absent
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != defaultConfigPath || !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	mode, err := client.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid mode: %v\n", err)
		os.Exit(1)
	}

	// Raw PCM goes to stdout, so logs must not
	if *record == "" && (cfg.Logging.Output == "" || cfg.Logging.Output == "stdout") {
		cfg.Logging.Output = "stderr"
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary
	logger.Info("Configuration loaded",
		slog.Int("servers", len(cfg.Servers)),
		slog.Int("source_rate", cfg.Audio.SourceRate),
		slog.Int("output_rate", cfg.Audio.OutputRate),
		slog.Float64("ring_seconds", cfg.Audio.RingSeconds),
		slog.Bool("auto_reconnect", cfg.Client.AutoReconnect),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize the streaming client
	c := client.New(client.Options{
		SourceRate:        cfg.Audio.SourceRate,
		OutputRate:        cfg.Audio.OutputRate,
		RingCapacity:      cfg.Audio.RingCapacity(),
		PollTimeout:       cfg.Client.GetPollTimeout(),
		SetupDelay:        cfg.Client.GetSetupDelay(),
		ReconnectInterval: cfg.Client.GetReconnectInterval(),
		AutoReconnect:     cfg.Client.AutoReconnect,
		FreqDebounce:      cfg.Client.FreqDebounce,
	}, logger, appMetrics)
	c.SetFrequency(*freq)
	c.SetMode(mode)

	// Initialize HTTP API server (if enabled)
	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, cfg, c, appMetrics)
		logger.Info("HTTP API server initialized",
			slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
		)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Connect to the first reachable receiver
	if err := c.Connect(cfg.Servers); err != nil {
		logger.Error("Failed to connect", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Streaming",
		slog.String("host", c.Host()),
		slog.Float64("frequency_hz", c.Frequency()),
		slog.String("mode", c.Mode().String()),
	)

	// Drive the resampled output at the configured rate in 100ms blocks
	outputRate := cfg.Audio.OutputRate
	blockSize := outputRate / 10
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	var recorded []float32
	block := make([]float32, blockSize)

loop:
	for {
		select {
		case sig := <-sigChan:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			break loop
		case <-deadline:
			logger.Info("Duration reached", slog.Duration("duration", *duration))
			break loop
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			for i := range block {
				block[i] = c.Pull(outputRate)
			}
			if *record != "" {
				recorded = append(recorded, block...)
			} else {
				if _, err := os.Stdout.Write(audio.EncodePCM16(block)); err != nil {
					logger.Error("Failed to write audio", slog.String("error", err.Error()))
					break loop
				}
			}
		}
	}

	logger.Info("Starting graceful shutdown...")

	// Stop HTTP server first (stop accepting new requests)
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	stats := c.Stats()
	c.Disconnect()

	// Write the recording after the stream is down
	if *record != "" && len(recorded) > 0 {
		if err := writeRecording(*record, recorded, outputRate); err != nil {
			logger.Error("Failed to write recording", slog.String("error", err.Error()))
		} else {
			logger.Info("Recording written",
				slog.String("path", *record),
				slog.Int("samples", len(recorded)),
			)
		}
	}

	// Final statistics
	logger.Info("Final client statistics",
		slog.String("state", stats.State.String()),
		slog.Int("ring_fill", stats.RingFill),
		slog.Uint64("samples_dropped", stats.SamplesDropped),
	)

	logger.Info("Service stopped")
}

// writeRecording encodes the captured samples as a WAV file
func writeRecording(path string, samples []float32, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := audio.WriteWAV(f, samples, rate); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
