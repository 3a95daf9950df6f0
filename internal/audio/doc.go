// Package audio provides the real-time audio plumbing between the network
// receive loop and the consumer: a fixed-capacity drop-oldest sample ring,
// a phase-accumulator resampler to an arbitrary output rate, s16le PCM
// decoding, and WAV encoding for recorded output.
package audio
