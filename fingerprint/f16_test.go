package fingerprint

import "testing"

func TestF16RoundTrip(t *testing.T) {
	tests := []float32{0, 1, -1, 0.5, 0.25, 100, -100, 0.125, 3.5}
	for _, v := range tests {
		bits := float32ToF16Bits(v)
		got := f16BitsToFloat32(bits)
		if got != v {
			t.Errorf("round trip %v -> bits %#04x -> %v, want %v", v, bits, got, v)
		}
	}
}

func TestF16Zero(t *testing.T) {
	if bits := float32ToF16Bits(0); bits != 0 {
		t.Errorf("float32ToF16Bits(0) = %#04x, want 0", bits)
	}
}
