package client

import (
	"fmt"
	"math"
	"sync"
)

// Mode identifies a demodulation mode.
type Mode int

const (
	ModeAM Mode = iota
	ModeFM
	ModeUSB
	ModeLSB
	ModeCW
)

// defaultFreqDebounce is the minimum frequency change, in Hz, that
// triggers a retune when the config does not override it.
const defaultFreqDebounce = 10.0

// maxFreqHz bounds the tunable range.
const maxFreqHz = 30000000.0

// Token returns the protocol name of the mode as sent on the wire.
func (m Mode) Token() string {
	switch m {
	case ModeAM:
		return "am"
	case ModeFM:
		return "nbfm"
	case ModeUSB:
		return "usb"
	case ModeLSB:
		return "lsb"
	case ModeCW:
		return "cw"
	default:
		return "am"
	}
}

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAM:
		return "AM"
	case ModeFM:
		return "FM"
	case ModeUSB:
		return "USB"
	case ModeLSB:
		return "LSB"
	case ModeCW:
		return "CW"
	default:
		return "AM"
	}
}

// ParseMode maps a mode name to a Mode. Both display and wire names
// are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "am", "AM":
		return ModeAM, nil
	case "fm", "FM", "nbfm":
		return ModeFM, nil
	case "usb", "USB":
		return ModeUSB, nil
	case "lsb", "LSB":
		return ModeLSB, nil
	case "cw", "CW":
		return ModeCW, nil
	default:
		return ModeAM, fmt.Errorf("unknown mode %q", s)
	}
}

// tuning holds the receiver tuning state guarded by its own mutex so
// UI-driven updates never contend with the receive loop.
type tuning struct {
	mu        sync.Mutex
	freqHz    float64
	mode      Mode
	bandwidth float64
	debounce  float64
}

// command formats the full tuning command for the current state.
// Frequency goes on the wire in kHz with three decimals; the passband
// is symmetric around the carrier.
func (t *tuning) command() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	half := t.bandwidth / 2
	return fmt.Sprintf("SET mod=%s low_cut=%.0f high_cut=%.0f freq=%.3f",
		t.mode.Token(), -half, half, t.freqHz/1000.0)
}

// setFrequency clamps and stores a new frequency. It reports whether the
// change is large enough to warrant a retune.
func (t *tuning) setFrequency(hz float64) bool {
	if hz < 0 {
		hz = 0
	}
	if hz > maxFreqHz {
		hz = maxFreqHz
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if math.Abs(hz-t.freqHz) < t.debounce {
		return false
	}
	t.freqHz = hz
	return true
}

// setMode stores a new mode and reports whether it changed.
func (t *tuning) setMode(m Mode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m == t.mode {
		return false
	}
	t.mode = m
	return true
}

// setBandwidth stores a new passband width in Hz and reports whether it
// changed.
func (t *tuning) setBandwidth(hz float64) bool {
	if hz < 0 {
		hz = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if hz == t.bandwidth {
		return false
	}
	t.bandwidth = hz
	return true
}

// snapshot returns the current tuning values.
func (t *tuning) snapshot() (freqHz float64, mode Mode, bandwidth float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freqHz, t.mode, t.bandwidth
}
