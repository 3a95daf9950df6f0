// Package protocol implements the WebSocket-style frame codec for the WebSDR
// wire protocol. It handles outbound command frames with client-side masking
// and inbound frame decoding, including the 16-bit extended payload length
// and detection of the protocol violations the receive loop cares about.
package protocol
