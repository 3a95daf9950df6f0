package audio

// Resampler converts the receiver's fixed source rate to an arbitrary output
// rate by linear interpolation, driven by one Pull call per output sample.
// A phase accumulator advances by sourceRate/targetRate each call; whole
// phase steps consume samples from the ring and the fractional remainder
// weights the interpolation toward the next unread sample.
//
// The resampler is owned by the consumer side and is not safe for concurrent
// Pull calls; the ring it drains carries the cross-goroutine coordination.
type Resampler struct {
	sourceRate float64
	ring       *Ring

	phase      float64
	lastSample float32
}

// NewResampler creates a resampler draining ring, whose samples arrive at
// sourceRate Hz.
func NewResampler(sourceRate float64, ring *Ring) *Resampler {
	return &Resampler{
		sourceRate: sourceRate,
		ring:       ring,
	}
}

// Pull produces one output sample at targetRate Hz. Under starvation (ring
// drained faster than the network fills it) the last delivered sample is
// held flat, which avoids discontinuities and never yields NaN.
func (rs *Resampler) Pull(targetRate float64) float32 {
	if targetRate <= 0 {
		return rs.lastSample
	}

	rs.phase += rs.sourceRate / targetRate

	if rs.phase >= 1 {
		advance := int(rs.phase)
		rs.phase -= float64(advance)
		if last, n := rs.ring.Consume(advance); n > 0 {
			rs.lastSample = last
		}
	}

	next, ok := rs.ring.Peek()
	if !ok {
		return rs.lastSample
	}
	return rs.lastSample + (next-rs.lastSample)*float32(rs.phase)
}

// Reset clears the accumulated phase and held sample, for reuse across
// reconnects.
func (rs *Resampler) Reset() {
	rs.phase = 0
	rs.lastSample = 0
}
