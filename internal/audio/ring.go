package audio

import (
	"sync"
)

// Ring is a fixed-capacity circular sample buffer shared between the network
// goroutine (sole writer) and the resampling consumer (sole reader). A write
// into a full ring evicts the single oldest unread sample instead of blocking
// or growing, so the writer never stalls the socket and the reader never sees
// stale data older than one ring length.
//
// writePos == readPos means empty; Push performs the about-to-collide check
// before advancing, so a full ring is never misread as empty. All operations
// share one mutex and touch only index arithmetic plus a single element,
// keeping the critical sections short enough for per-sample calls from both
// sides.
type Ring struct {
	storage  []float32
	readPos  int
	writePos int

	// Drop accounting for monitoring; not part of the ring invariant.
	dropped uint64

	mu sync.Mutex
}

// NewRing creates a ring holding up to capacity samples. Capacity must be
// positive; one slot is reserved to distinguish full from empty.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{
		// +1 so a ring holding `capacity` unread samples is representable.
		storage: make([]float32, capacity+1),
	}
}

// Push appends one sample, evicting the oldest unread sample when full.
// It never blocks, never resizes and never fails.
func (r *Ring) Push(sample float32) {
	r.mu.Lock()
	r.storage[r.writePos] = sample
	r.writePos = (r.writePos + 1) % len(r.storage)
	if r.writePos == r.readPos {
		r.readPos = (r.readPos + 1) % len(r.storage)
		r.dropped++
	}
	r.mu.Unlock()
}

// Peek returns the oldest unread sample without consuming it. The second
// return value is false when the ring is empty.
func (r *Ring) Peek() (float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.readPos == r.writePos {
		return 0, false
	}
	return r.storage[r.readPos], true
}

// Consume advances the read position by up to n samples, never past the
// write position. It returns the last sample consumed and how many samples
// were actually consumed (zero when the ring is empty).
func (r *Ring) Consume(n int) (last float32, consumed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for consumed < n && r.readPos != r.writePos {
		last = r.storage[r.readPos]
		r.readPos = (r.readPos + 1) % len(r.storage)
		consumed++
	}
	return last, consumed
}

// Len returns the number of unread samples.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lenLocked()
}

func (r *Ring) lenLocked() int {
	d := r.writePos - r.readPos
	if d < 0 {
		d += len(r.storage)
	}
	return d
}

// Cap returns the maximum number of unread samples the ring can hold.
func (r *Ring) Cap() int {
	return len(r.storage) - 1
}

// Dropped returns the total number of samples evicted by overflow.
func (r *Ring) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Reset empties the ring. Used when a connection is torn down so a
// reconnect starts from silence instead of stale audio.
func (r *Ring) Reset() {
	r.mu.Lock()
	r.readPos = 0
	r.writePos = 0
	r.mu.Unlock()
}
