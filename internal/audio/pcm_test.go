package audio

import (
	"math"
	"testing"
)

func TestDecodePCM16(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected []float32
	}{
		{
			name:     "zero and full scale",
			data:     []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80},
			expected: []float32{0, 32767.0 / 32768.0, -1},
		},
		{
			name:     "little endian ordering",
			data:     []byte{0x00, 0x40}, // 0x4000 = 16384
			expected: []float32{0.5},
		},
		{
			name:     "trailing odd byte ignored",
			data:     []byte{0x00, 0x40, 0x12},
			expected: []float32{0.5},
		},
		{
			name:     "empty",
			data:     nil,
			expected: []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodePCM16(tt.data)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d samples, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.expected[i])) > 1e-6 {
					t.Errorf("Sample %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestEncodePCM16Clipping(t *testing.T) {
	out := EncodePCM16([]float32{2.0, -2.0})
	if len(out) != 4 {
		t.Fatalf("Expected 4 bytes, got %d", len(out))
	}
	hi := int16(uint16(out[0]) | uint16(out[1])<<8)
	lo := int16(uint16(out[2]) | uint16(out[3])<<8)
	if hi != 0x7FFF {
		t.Errorf("Positive clip: expected 32767, got %d", hi)
	}
	if lo != -0x8000 {
		t.Errorf("Negative clip: expected -32768, got %d", lo)
	}
}

func TestPCMRoundTrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.5, -0.5}
	got := DecodePCM16(EncodePCM16(in))
	if len(got) != len(in) {
		t.Fatalf("Expected %d samples, got %d", len(in), len(got))
	}
	for i := range got {
		if math.Abs(float64(got[i]-in[i])) > 1.0/32768.0 {
			t.Errorf("Sample %d: expected %v, got %v", i, in[i], got[i])
		}
	}
}
