package audio

// pcmScale normalizes signed 16-bit samples into [-1, 1).
const pcmScale = 32768.0

// DecodePCM16 converts little-endian signed 16-bit PCM bytes to normalized
// float32 samples. A trailing odd byte is ignored.
func DecodePCM16(data []byte) []float32 {
	samples := make([]float32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		s := int16(uint16(data[i]) | uint16(data[i+1])<<8)
		samples = append(samples, float32(s)/pcmScale)
	}
	return samples
}

// EncodePCM16 converts normalized float32 samples to little-endian signed
// 16-bit PCM bytes, clipping out-of-range values.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		v := int(s * pcmScale)
		if v > 0x7FFF {
			v = 0x7FFF
		}
		if v < -0x8000 {
			v = -0x8000
		}
		out = append(out, byte(v), byte(v>>8))
	}
	return out
}
