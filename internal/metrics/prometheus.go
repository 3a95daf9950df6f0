package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the WebSDR client
type Metrics struct {
	// Connection metrics
	ConnectAttempts   prometheus.Counter
	ConnectFailures   prometheus.Counter
	HandshakeFailures prometheus.Counter
	Reconnects        prometheus.Counter
	HandshakeDuration prometheus.Histogram

	// Frame metrics
	FramesReceived *prometheus.CounterVec
	DecodeErrors   prometheus.Counter
	PingsAnswered  prometheus.Counter

	// Command metrics
	CommandsSent prometheus.Counter
	SendErrors   prometheus.Counter

	// Audio metrics
	SamplesReceived prometheus.Counter
	SamplesDropped  prometheus.Counter
	RingFill        prometheus.Gauge

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ConnectAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_connect_attempts_total",
			Help: "Total number of connection attempts across all hosts",
		}),
		ConnectFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_connect_failures_total",
			Help: "Total number of failed resolve/connect attempts",
		}),
		HandshakeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_handshake_failures_total",
			Help: "Total number of upgrade handshakes without a 101 response",
		}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_reconnects_total",
			Help: "Total number of automatic reconnect sweeps",
		}),
		HandshakeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "websdr_handshake_duration_seconds",
			Help:    "Time from dial to accepted upgrade response",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		}),

		FramesReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "websdr_frames_received_total",
			Help: "Total number of frames decoded, by opcode",
		}, []string{"opcode"}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_decode_errors_total",
			Help: "Total number of frame decode errors (read discarded)",
		}),
		PingsAnswered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_pings_answered_total",
			Help: "Total number of pings answered with a pong",
		}),

		CommandsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_commands_sent_total",
			Help: "Total number of SET commands written to the socket",
		}),
		SendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_send_errors_total",
			Help: "Total number of failed or dropped outbound commands",
		}),

		SamplesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_audio_samples_received_total",
			Help: "Total number of PCM samples pushed into the ring",
		}),
		SamplesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "websdr_audio_samples_dropped_total",
			Help: "Total number of samples evicted by ring overflow",
		}),
		RingFill: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "websdr_ring_fill_samples",
			Help: "Current number of unread samples in the audio ring",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "websdr_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "websdr_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordConnectAttempt increments the connect attempts counter
func (m *Metrics) RecordConnectAttempt() {
	m.ConnectAttempts.Inc()
}

// RecordConnectFailure increments the connect failures counter
func (m *Metrics) RecordConnectFailure() {
	m.ConnectFailures.Inc()
}

// RecordHandshakeFailure increments the handshake failures counter
func (m *Metrics) RecordHandshakeFailure() {
	m.HandshakeFailures.Inc()
}

// RecordReconnect increments the reconnect counter
func (m *Metrics) RecordReconnect() {
	m.Reconnects.Inc()
}

// RecordHandshake records a successful handshake duration
func (m *Metrics) RecordHandshake(seconds float64) {
	m.HandshakeDuration.Observe(seconds)
}

// RecordFrame increments the per-opcode frame counter
func (m *Metrics) RecordFrame(opcode string) {
	m.FramesReceived.WithLabelValues(opcode).Inc()
}

// RecordDecodeError increments the decode errors counter
func (m *Metrics) RecordDecodeError() {
	m.DecodeErrors.Inc()
}

// RecordPingAnswered increments the pings answered counter
func (m *Metrics) RecordPingAnswered() {
	m.PingsAnswered.Inc()
}

// RecordCommandSent increments the commands sent counter
func (m *Metrics) RecordCommandSent() {
	m.CommandsSent.Inc()
}

// RecordSendError increments the send errors counter
func (m *Metrics) RecordSendError() {
	m.SendErrors.Inc()
}

// RecordSamples adds to the samples received counter and updates ring fill
func (m *Metrics) RecordSamples(count int, ringFill int) {
	m.SamplesReceived.Add(float64(count))
	m.RingFill.Set(float64(ringFill))
}

// RecordSamplesDropped adds to the overflow drop counter
func (m *Metrics) RecordSamplesDropped(count uint64) {
	m.SamplesDropped.Add(float64(count))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
