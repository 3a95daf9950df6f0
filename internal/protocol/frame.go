package protocol

import (
	"encoding/binary"
	"fmt"
)

// Opcode identifies a frame's purpose per the framing convention.
type Opcode uint8

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA

	// OpcodeUnsupported marks any opcode outside the set above.
	OpcodeUnsupported Opcode = 0xF
)

// Frame layout constants
const (
	// MaxInlinePayload is the largest payload the 7-bit inline length form
	// can carry. Encode only supports this form; the command vocabulary
	// never comes close to the limit.
	MaxInlinePayload = 125

	// Extended length sentinels in the base header.
	len16Sentinel = 126
	len64Sentinel = 127

	baseHeaderSize = 2
	maskKeySize    = 4

	finBit  = 0x80
	maskBit = 0x80
)

// clientMaskKey is the fixed mask applied to every outbound frame. The
// remote service never validates mask randomness, and a fixed key keeps the
// outbound byte stream reproducible.
var clientMaskKey = [maskKeySize]byte{0x12, 0x34, 0x56, 0x78}

// Frame represents one decoded message unit of the wire protocol.
type Frame struct {
	Fin     bool
	Opcode  Opcode
	Masked  bool
	Payload []byte
}

// Decode errors, distinguished so the receive loop can report violations
// without tearing down the connection itself.
var (
	ErrHeaderTooShort    = fmt.Errorf("frame header truncated")
	ErrLengthUnsupported = fmt.Errorf("64-bit extended payload length not supported")
	ErrExtendedTruncated = fmt.Errorf("16-bit extended length truncated")
	ErrMaskedServerFrame = fmt.Errorf("protocol violation: server frame has mask bit set")
	ErrPayloadTooLarge   = fmt.Errorf("payload exceeds inline length form")
	ErrUnsupportedEncode = fmt.Errorf("only text, binary, ping and pong frames can be encoded")
)

// Encode builds one unfragmented, masked client frame carrying payload.
// Payloads longer than MaxInlinePayload fail explicitly rather than being
// truncated; the caller drops that single command.
func Encode(op Opcode, payload []byte) ([]byte, error) {
	switch op {
	case OpcodeText, OpcodeBinary, OpcodePing, OpcodePong:
	default:
		return nil, fmt.Errorf("%w: opcode 0x%X", ErrUnsupportedEncode, uint8(op))
	}

	if len(payload) > MaxInlinePayload {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxInlinePayload)
	}

	buf := make([]byte, 0, baseHeaderSize+maskKeySize+len(payload))
	buf = append(buf, finBit|byte(op))
	buf = append(buf, maskBit|byte(len(payload)))
	buf = append(buf, clientMaskKey[:]...)
	for i, b := range payload {
		buf = append(buf, b^clientMaskKey[i%maskKeySize])
	}
	return buf, nil
}

// Decode parses the first frame found in raw. It handles the 2-byte base
// header and the 16-bit extended length; the 64-bit form is refused rather
// than risking a misread. Frames from the remote endpoint must arrive
// unmasked. The payload slice is bounded by the bytes actually available,
// so a frame that spans reads yields its first chunk only.
func Decode(raw []byte) (*Frame, error) {
	if len(raw) < baseHeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrHeaderTooShort, len(raw))
	}

	frame := &Frame{
		Fin:    raw[0]&finBit != 0,
		Opcode: classifyOpcode(raw[0] & 0x0F),
		Masked: raw[1]&maskBit != 0,
	}

	length := int(raw[1] & 0x7F)
	offset := baseHeaderSize

	switch length {
	case len64Sentinel:
		return nil, ErrLengthUnsupported
	case len16Sentinel:
		if len(raw) < offset+2 {
			return nil, fmt.Errorf("%w: got %d bytes", ErrExtendedTruncated, len(raw))
		}
		length = int(binary.BigEndian.Uint16(raw[offset:]))
		offset += 2
	}

	if frame.Masked {
		return nil, ErrMaskedServerFrame
	}

	avail := len(raw) - offset
	if length > avail {
		length = avail
	}
	frame.Payload = raw[offset : offset+length]
	return frame, nil
}

// classifyOpcode maps raw opcode bits onto the closed Opcode set.
func classifyOpcode(raw byte) Opcode {
	switch Opcode(raw) {
	case OpcodeContinuation, OpcodeText, OpcodeBinary, OpcodeClose, OpcodePing, OpcodePong:
		return Opcode(raw)
	default:
		return OpcodeUnsupported
	}
}

// String returns a human-readable opcode name for logging.
func (o Opcode) String() string {
	switch o {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	default:
		return fmt.Sprintf("unsupported(0x%X)", uint8(o))
	}
}

// String returns a human-readable representation of the frame.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{Fin:%t, Opcode:%s, Masked:%t, PayloadLen:%d}",
		f.Fin, f.Opcode, f.Masked, len(f.Payload))
}
