package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skypro1111/websdr-client/internal/client"
	"github.com/skypro1111/websdr-client/internal/config"
	"github.com/skypro1111/websdr-client/internal/metrics"
	"github.com/skypro1111/websdr-client/internal/stations"
)

// HTTPServer provides HTTP API endpoints for monitoring the client
type HTTPServer struct {
	server  *http.Server
	logger  *slog.Logger
	config  *config.Config
	client  *client.Client
	metrics *metrics.Metrics

	startTime time.Time
}

// NewHTTPServer creates a new HTTP API server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger,
	appConfig *config.Config, c *client.Client, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		config:    appConfig,
		client:    c,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))
	mux.HandleFunc("/status", h.withMetrics("/status", h.handleStatus))
	mux.HandleFunc("/stations", h.withMetrics("/stations", h.handleStations))
	mux.HandleFunc("/config", h.withMetrics("/config", h.handleConfig))

	// Prometheus metrics endpoint (no metrics needed for metrics endpoint)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/", h.withMetrics("/", h.handleRoot))
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		ww := &responseWriter{ResponseWriter: w, statusCode: 200}
		handler(ww, r)

		if h.metrics != nil {
			duration := time.Since(startTime).Seconds()
			statusCode := fmt.Sprintf("%d", ww.statusCode)
			h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP API server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP API server...")

	return h.server.Shutdown(ctx)
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := h.client.Stats()
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
		"service": map[string]interface{}{
			"name":    "websdr-client",
			"version": "1.0.0",
		},
		"components": map[string]interface{}{
			"receiver": map[string]interface{}{
				"state": stats.State.String(),
				"host":  stats.Host,
			},
			"audio": map[string]interface{}{
				"ring_fill":       stats.RingFill,
				"ring_capacity":   stats.RingCapacity,
				"samples_dropped": stats.SamplesDropped,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleStatus implements the /status endpoint
func (h *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := h.client.Stats()
	status := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
		"connection": map[string]interface{}{
			"state": stats.State.String(),
			"host":  stats.Host,
		},
		"tuning": map[string]interface{}{
			"frequency_hz": stats.FrequencyHz,
			"mode":         stats.Mode,
			"bandwidth_hz": stats.BandwidthHz,
		},
		"audio": map[string]interface{}{
			"ring_fill":       stats.RingFill,
			"ring_capacity":   stats.RingCapacity,
			"samples_dropped": stats.SamplesDropped,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleStations implements the /stations endpoint with an optional
// category filter
func (h *HTTPServer) handleStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var list []stations.Station
	if category := r.URL.Query().Get("category"); category != "" {
		list = stations.ByCategory(stations.Category(category))
	} else if r.URL.Query().Has("favorites") {
		list = stations.Favorites()
	} else {
		list = stations.All()
	}

	response := map[string]interface{}{
		"total_stations": len(list),
		"timestamp":      time.Now().UTC(),
		"stations":       list,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleConfig implements the /config endpoint
func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := map[string]interface{}{
		"servers": h.config.Servers,
		"audio": map[string]interface{}{
			"source_rate":  h.config.Audio.SourceRate,
			"output_rate":  h.config.Audio.OutputRate,
			"ring_seconds": h.config.Audio.RingSeconds,
		},
		"client": map[string]interface{}{
			"poll_timeout_ms":      h.config.Client.PollTimeout,
			"setup_delay_ms":       h.config.Client.SetupDelay,
			"reconnect_interval_s": h.config.Client.ReconnectInterval,
			"auto_reconnect":       h.config.Client.AutoReconnect,
			"freq_debounce_hz":     h.config.Client.FreqDebounce,
		},
		"logging": map[string]interface{}{
			"level":  h.config.Logging.Level,
			"format": h.config.Logging.Format,
			"output": h.config.Logging.Output,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// handleRoot implements the / endpoint with API documentation
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": "WebSDR Streaming Client",
		"version": "1.0.0",
		"endpoints": map[string]interface{}{
			"GET /":                           "API documentation",
			"GET /health":                     "Service health check",
			"GET /status":                     "Connection, tuning and buffer state",
			"GET /stations":                   "Station directory",
			"GET /stations?category={name}":   "Stations filtered by category",
			"GET /stations?favorites":         "Favorite stations",
			"GET /config":                     "Effective configuration",
			"GET /metrics":                    "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiDoc)
}
