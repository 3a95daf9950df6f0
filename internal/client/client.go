package client

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/skypro1111/websdr-client/internal/audio"
	"github.com/skypro1111/websdr-client/internal/metrics"
)

// Options configures a Client. Zero values fall back to the rates and
// timings the public receivers use.
type Options struct {
	// SourceRate is the sample rate the remote receiver streams at.
	SourceRate int
	// OutputRate is the rate Pull produces samples at.
	OutputRate int
	// RingCapacity is the audio buffer size in samples.
	RingCapacity int
	// PollTimeout bounds each blocking read on the socket.
	PollTimeout time.Duration
	// SetupDelay is inserted before the initial session commands.
	SetupDelay time.Duration
	// ReconnectInterval is the pause between reconnect attempts.
	ReconnectInterval time.Duration
	// AutoReconnect enables the background reconnect loop after a
	// connection is lost.
	AutoReconnect bool
	// FreqDebounce is the minimum frequency change, in Hz, that
	// triggers a retune.
	FreqDebounce float64
	// DialTimeout bounds the TCP connect to each candidate host.
	DialTimeout time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.SourceRate <= 0 {
		out.SourceRate = 12000
	}
	if out.OutputRate <= 0 {
		out.OutputRate = 44100
	}
	if out.RingCapacity <= 0 {
		out.RingCapacity = out.SourceRate
	}
	if out.PollTimeout <= 0 {
		out.PollTimeout = 100 * time.Millisecond
	}
	if out.SetupDelay <= 0 {
		out.SetupDelay = 100 * time.Millisecond
	}
	if out.ReconnectInterval <= 0 {
		out.ReconnectInterval = 5 * time.Second
	}
	if out.FreqDebounce <= 0 {
		out.FreqDebounce = defaultFreqDebounce
	}
	if out.DialTimeout <= 0 {
		out.DialTimeout = 5 * time.Second
	}
	return out
}

// Stats is a point-in-time snapshot of the client's counters.
type Stats struct {
	State          State   `json:"state"`
	Host           string  `json:"host"`
	FrequencyHz    float64 `json:"frequency_hz"`
	Mode           string  `json:"mode"`
	BandwidthHz    float64 `json:"bandwidth_hz"`
	RingFill       int     `json:"ring_fill"`
	RingCapacity   int     `json:"ring_capacity"`
	SamplesDropped uint64  `json:"samples_dropped"`
}

// Client streams demodulated audio from a remote WebSDR receiver. All
// methods are safe for concurrent use; Pull is intended to be called
// from the audio consumer at its own cadence.
type Client struct {
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Metrics

	ring      *audio.Ring
	resampler *audio.Resampler
	tuning    tuning

	statusMu sync.Mutex
	statusFn func(string)

	mu        sync.Mutex
	conn      net.Conn
	state     State
	stop      chan struct{}
	reconStop chan struct{}
	hosts     []string
	host      string
	reconWG   sync.WaitGroup
	recvWG    sync.WaitGroup
	sendMu    sync.Mutex
	lastDrop  uint64
}

// New creates a Client. logger must not be nil; m may be nil when the
// caller does not export metrics.
func New(opts Options, logger *slog.Logger, m *metrics.Metrics) *Client {
	o := opts.withDefaults()
	ring := audio.NewRing(o.RingCapacity)
	c := &Client{
		opts:      o,
		logger:    logger,
		metrics:   m,
		ring:      ring,
		resampler: audio.NewResampler(float64(o.SourceRate), ring),
		state:     StateDisconnected,
	}
	c.tuning.freqHz = 7055000
	c.tuning.mode = ModeAM
	c.tuning.bandwidth = 8000
	c.tuning.debounce = o.FreqDebounce
	return c
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether audio is currently streaming.
func (c *Client) IsConnected() bool {
	return c.State() == StateStreaming
}

// Host returns the address of the currently connected receiver, or the
// empty string when disconnected.
func (c *Client) Host() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Pull produces one output sample at the given rate, resampled from the
// source stream. During starvation it holds the last sample.
func (c *Client) Pull(targetRate int) float32 {
	sample := c.resampler.Pull(float64(targetRate))
	if c.metrics != nil {
		dropped := c.ring.Dropped()
		if delta := dropped - c.lastDrop; delta > 0 {
			c.metrics.RecordSamplesDropped(delta)
			c.lastDrop = dropped
		}
	}
	return sample
}

// Stats returns a snapshot of the client's current state and counters.
func (c *Client) Stats() Stats {
	freq, mode, bw := c.tuning.snapshot()
	c.mu.Lock()
	state := c.state
	host := c.host
	c.mu.Unlock()
	return Stats{
		State:          state,
		Host:           host,
		FrequencyHz:    freq,
		Mode:           mode.String(),
		BandwidthHz:    bw,
		RingFill:       c.ring.Len(),
		RingCapacity:   c.ring.Cap(),
		SamplesDropped: c.ring.Dropped(),
	}
}

// SetFrequency tunes the receiver. Changes below the debounce threshold
// are ignored. While not streaming the value is stored and applied on
// the next (re)connect.
func (c *Client) SetFrequency(hz float64) {
	if !c.tuning.setFrequency(hz) {
		return
	}
	c.retune()
}

// SetMode switches the demodulation mode.
func (c *Client) SetMode(m Mode) {
	if !c.tuning.setMode(m) {
		return
	}
	c.retune()
}

// SetBandwidth sets the passband width in Hz, applied symmetrically
// around the carrier.
func (c *Client) SetBandwidth(hz float64) {
	if !c.tuning.setBandwidth(hz) {
		return
	}
	c.retune()
}

// Frequency returns the current tuned frequency in Hz.
func (c *Client) Frequency() float64 {
	freq, _, _ := c.tuning.snapshot()
	return freq
}

// Mode returns the current demodulation mode.
func (c *Client) Mode() Mode {
	_, mode, _ := c.tuning.snapshot()
	return mode
}

// OnStatus registers a callback invoked with every status message the
// receiver sends (text frames and "MSG "-tagged payloads). Passing nil
// removes the callback.
func (c *Client) OnStatus(fn func(string)) {
	c.statusMu.Lock()
	c.statusFn = fn
	c.statusMu.Unlock()
}

func (c *Client) notifyStatus(msg string) {
	c.statusMu.Lock()
	fn := c.statusFn
	c.statusMu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// retune re-emits the full tuning command when streaming. When not
// streaming the stored state is replayed by applySetup on reconnect.
func (c *Client) retune() {
	c.mu.Lock()
	streaming := c.state == StateStreaming
	conn := c.conn
	c.mu.Unlock()
	if !streaming || conn == nil {
		return
	}
	c.sendCommand(conn, c.tuning.command())
}
