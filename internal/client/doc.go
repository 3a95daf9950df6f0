// Package client implements the WebSDR streaming client: connection and
// handshake management with a fallback host list, the framed receive loop,
// the protocol session that sequences setup and tuning commands, and the
// resampled audio surface consumed in real time.
package client
