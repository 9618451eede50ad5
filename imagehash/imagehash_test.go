package imagehash

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/framehash/h264fp/encoder"
	"github.com/framehash/h264fp/features"
)

// fixedStreamEncoder returns a Callback that always yields stream,
// ignoring the requested raster/config.
func fixedStreamEncoder(stream []byte) encoder.Callback {
	return func(raster gocv.Mat, cfg encoder.Config, fn func([]byte, error)) {
		fn(stream, nil)
	}
}

func failingEncoder(err error) encoder.Callback {
	return func(raster gocv.Mat, cfg encoder.Config, fn func([]byte, error)) {
		fn(nil, err)
	}
}

func TestHashPropagatesEncoderFailure(t *testing.T) {
	e := encoder.New(failingEncoder(errBoom), nil)
	h := New(e, nil)

	_, err := h.Hash(gocv.NewMat(), encoder.NewConfig(16, 16, 100000))
	if err == nil {
		t.Fatal("expected error from failing encoder")
	}
}

func TestHashPropagatesExtractError(t *testing.T) {
	// A non-empty stream holding only an access unit delimiter passes the
	// encoder but has no SPS/PPS/slices, so feature extraction fails.
	e := encoder.New(fixedStreamEncoder([]byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xF0}), nil)
	h := New(e, nil)

	_, err := h.Hash(gocv.NewMat(), encoder.NewConfig(16, 16, 100000))
	if err == nil {
		t.Fatal("expected extract error for empty stream")
	}
}

func TestSharedSingletonCachesInstance(t *testing.T) {
	ResetShared()
	defer ResetShared()

	calls := 0
	newFn := func() *Hasher {
		calls++
		e := encoder.New(fixedStreamEncoder(nil), nil)
		return New(e, nil)
	}

	a := Shared(newFn)
	b := Shared(newFn)
	if a != b {
		t.Error("Shared returned different instances across calls")
	}
	if calls != 1 {
		t.Errorf("newFn called %d times, want 1", calls)
	}
}

func TestWithDCStrategyOption(t *testing.T) {
	e := encoder.New(fixedStreamEncoder(nil), nil)
	h := New(e, nil, WithDCStrategy(features.DCFallback))
	if h.strategy != features.DCFallback {
		t.Errorf("strategy = %v, want DCFallback", h.strategy)
	}
}

type fakeErr struct{ s string }

func (e fakeErr) Error() string { return e.s }

var errBoom = fakeErr{"hardware fault"}
