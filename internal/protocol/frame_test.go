package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expected    *Frame
		expectError bool
		errorIs     error
	}{
		{
			name: "unmasked text frame",
			data: []byte{0x81, 0x05, 'H', 'E', 'L', 'L', 'O'},
			expected: &Frame{
				Fin:     true,
				Opcode:  OpcodeText,
				Payload: []byte("HELLO"),
			},
		},
		{
			name: "binary audio frame",
			data: []byte{0x82, 0x04, 0x00, 0x40, 0x00, 0xC0},
			expected: &Frame{
				Fin:     true,
				Opcode:  OpcodeBinary,
				Payload: []byte{0x00, 0x40, 0x00, 0xC0},
			},
		},
		{
			name: "ping with payload",
			data: []byte{0x89, 0x02, 'h', 'i'},
			expected: &Frame{
				Fin:     true,
				Opcode:  OpcodePing,
				Payload: []byte("hi"),
			},
		},
		{
			name: "16-bit extended length",
			data: append([]byte{0x82, 126, 0x00, 0x04}, 1, 2, 3, 4),
			expected: &Frame{
				Fin:     true,
				Opcode:  OpcodeBinary,
				Payload: []byte{1, 2, 3, 4},
			},
		},
		{
			name: "declared length exceeds available bytes",
			data: []byte{0x81, 0x05, 'H', 'E'},
			expected: &Frame{
				Fin:     true,
				Opcode:  OpcodeText,
				Payload: []byte("HE"),
			},
		},
		{
			name: "non-final continuation",
			data: []byte{0x00, 0x01, 'x'},
			expected: &Frame{
				Fin:     false,
				Opcode:  OpcodeContinuation,
				Payload: []byte("x"),
			},
		},
		{
			name: "reserved opcode classified as unsupported",
			data: []byte{0x83, 0x00},
			expected: &Frame{
				Fin:     true,
				Opcode:  OpcodeUnsupported,
				Payload: []byte{},
			},
		},
		{
			name:        "masked server frame is a protocol violation",
			data:        []byte{0x81, 0x85, 'H', 'E', 'L', 'L', 'O'},
			expectError: true,
			errorIs:     ErrMaskedServerFrame,
		},
		{
			name:        "64-bit extended length refused",
			data:        []byte{0x82, 127, 0, 0, 0, 0, 0, 0, 0, 8},
			expectError: true,
			errorIs:     ErrLengthUnsupported,
		},
		{
			name:        "truncated 16-bit extended length",
			data:        []byte{0x82, 126, 0x01},
			expectError: true,
			errorIs:     ErrExtendedTruncated,
		},
		{
			name:        "single byte",
			data:        []byte{0x81},
			expectError: true,
			errorIs:     ErrHeaderTooShort,
		},
		{
			name:        "empty input",
			data:        []byte{},
			expectError: true,
			errorIs:     ErrHeaderTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Decode(tt.data)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got frame %v", frame)
				}
				if tt.errorIs != nil && !errors.Is(err, tt.errorIs) {
					t.Errorf("Expected error %v, got %v", tt.errorIs, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if frame.Fin != tt.expected.Fin {
				t.Errorf("Fin: expected %t, got %t", tt.expected.Fin, frame.Fin)
			}
			if frame.Opcode != tt.expected.Opcode {
				t.Errorf("Opcode: expected %s, got %s", tt.expected.Opcode, frame.Opcode)
			}
			if !bytes.Equal(frame.Payload, tt.expected.Payload) {
				t.Errorf("Payload: expected %q, got %q", tt.expected.Payload, frame.Payload)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name        string
		opcode      Opcode
		payload     []byte
		expectError bool
		errorIs     error
	}{
		{
			name:    "text command",
			opcode:  OpcodeText,
			payload: []byte("SET keepalive"),
		},
		{
			name:    "empty pong",
			opcode:  OpcodePong,
			payload: nil,
		},
		{
			name:    "max inline payload",
			opcode:  OpcodeBinary,
			payload: bytes.Repeat([]byte{0xAB}, MaxInlinePayload),
		},
		{
			name:        "oversized payload",
			opcode:      OpcodeText,
			payload:     bytes.Repeat([]byte{'x'}, MaxInlinePayload+1),
			expectError: true,
			errorIs:     ErrPayloadTooLarge,
		},
		{
			name:        "close frames are not sent by this client",
			opcode:      OpcodeClose,
			expectError: true,
			errorIs:     ErrUnsupportedEncode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.opcode, tt.payload)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got %d bytes", len(raw))
				}
				if tt.errorIs != nil && !errors.Is(err, tt.errorIs) {
					t.Errorf("Expected error %v, got %v", tt.errorIs, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}

			if raw[0] != finBit|byte(tt.opcode) {
				t.Errorf("First byte: expected 0x%02X, got 0x%02X", finBit|byte(tt.opcode), raw[0])
			}
			if raw[1]&maskBit == 0 {
				t.Error("Client frame must have the mask bit set")
			}
			if got := int(raw[1] & 0x7F); got != len(tt.payload) {
				t.Errorf("Inline length: expected %d, got %d", len(tt.payload), got)
			}

			// Unmask and verify the payload survived.
			unmasked := make([]byte, len(tt.payload))
			for i, b := range raw[baseHeaderSize+maskKeySize:] {
				unmasked[i] = b ^ clientMaskKey[i%maskKeySize]
			}
			if !bytes.Equal(unmasked, tt.payload) {
				t.Errorf("Payload after unmasking: expected %q, got %q", tt.payload, unmasked)
			}
		})
	}
}

// TestEncodeDecodeRoundTrip strips the client mask the way a receiving
// endpoint would, then decodes the result.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw, err := Encode(OpcodeText, []byte("HELLO"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Remove mask bit and key, unmask payload.
	stripped := []byte{raw[0], raw[1] &^ maskBit}
	for i, b := range raw[baseHeaderSize+maskKeySize:] {
		stripped = append(stripped, b^clientMaskKey[i%maskKeySize])
	}

	frame, err := Decode(stripped)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !frame.Fin {
		t.Error("Expected fin=true")
	}
	if frame.Opcode != OpcodeText {
		t.Errorf("Expected opcode text, got %s", frame.Opcode)
	}
	if string(frame.Payload) != "HELLO" {
		t.Errorf("Expected payload HELLO, got %q", frame.Payload)
	}
}

func TestOpcodeString(t *testing.T) {
	if s := OpcodeBinary.String(); s != "binary" {
		t.Errorf("Expected binary, got %s", s)
	}
	if s := Opcode(0x7).String(); !strings.Contains(s, "unsupported") {
		t.Errorf("Expected unsupported marker, got %s", s)
	}
}
