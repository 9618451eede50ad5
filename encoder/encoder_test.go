package encoder

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestEncodeSuccess(t *testing.T) {
	want := []byte{0x00, 0x00, 0x00, 0x01, 0x67}
	cb := func(raster gocv.Mat, cfg Config, fn func([]byte, error)) {
		fn(want, nil)
	}
	e := New(cb, nil)

	got, err := e.Encode(gocv.NewMat(), NewConfig(128, 96, 400000))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
}

func TestEncodeFailure(t *testing.T) {
	cb := func(raster gocv.Mat, cfg Config, fn func([]byte, error)) {
		fn(nil, errFakeHardware)
	}
	e := New(cb, nil)

	_, err := e.Encode(gocv.NewMat(), NewConfig(128, 96, 400000))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestEncodeNoOutput(t *testing.T) {
	cb := func(raster gocv.Mat, cfg Config, fn func([]byte, error)) {
		fn(nil, nil)
	}
	e := New(cb, nil)

	_, err := e.Encode(gocv.NewMat(), NewConfig(128, 96, 400000))
	if err != ErrNoOutput {
		t.Fatalf("err = %v, want ErrNoOutput", err)
	}
}

func TestEncodeTimeout(t *testing.T) {
	cb := func(raster gocv.Mat, cfg Config, fn func([]byte, error)) {
		// Never calls fn, simulating a wedged hardware encoder.
	}
	e := New(cb, nil)

	cfg := NewConfig(128, 96, 400000, WithDeadline(10*time.Millisecond))
	_, err := e.Encode(gocv.NewMat(), cfg)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig(640, 480, 1000000)
	if !cfg.IFrameOnly {
		t.Error("IFrameOnly = false, want true by default")
	}
	if cfg.EntropyMode != EntropyCAVLC {
		t.Errorf("EntropyMode = %v, want EntropyCAVLC", cfg.EntropyMode)
	}
	if cfg.Deadline != DefaultDeadline {
		t.Errorf("Deadline = %v, want %v", cfg.Deadline, DefaultDeadline)
	}
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(640, 480, 1000000, WithQuality(80), WithEntropyMode(EntropyCABAC))
	if cfg.Quality != 80 {
		t.Errorf("Quality = %d, want 80", cfg.Quality)
	}
	if cfg.EntropyMode != EntropyCABAC {
		t.Errorf("EntropyMode = %v, want EntropyCABAC", cfg.EntropyMode)
	}
}

type fakeHardwareError struct{}

func (fakeHardwareError) Error() string { return "hardware encoder stalled" }

var errFakeHardware = fakeHardwareError{}
