package fingerprint

import "testing"

// uniform builds a Fingerprint with widthMBs x heightMBs macroblocks, all
// dc_luma set to v, for testing properties that hold on uniform grids.
func uniform(widthMBs, heightMBs int, v int16) *Fingerprint {
	n := widthMBs * heightMBs
	f := &Fingerprint{
		Width:      widthMBs * 16,
		Height:     heightMBs * 16,
		WidthMBs:   widthMBs,
		HeightMBs:  heightMBs,
		MBTypes:    make([]byte, n),
		IntraModes: make([]byte, n),
		DCLuma:     make([]int16, n),
		DCCb:       make([]int16, n),
		DCCr:       make([]int16, n),
		QPAvg:      26,
	}
	for i := range f.MBTypes {
		f.MBTypes[i] = 1
		f.IntraModes[i] = 2
		f.DCLuma[i] = v
		f.DCCb[i] = v
		f.DCCr[i] = v
	}
	f.DCMean = v
	for i := range f.Pyramid2x2 {
		f.Pyramid2x2[i] = v
	}
	for i := range f.Pyramid4x4 {
		f.Pyramid4x4[i] = v
	}
	f.IntraRatio = 1
	return f
}

func TestRoundTrip(t *testing.T) {
	f := uniform(4, 4, 100)
	f.SkipRatio = 0.25
	f.DCStd = 3.5
	f.EdgeDensity = 0.125

	data := Serialize(f)
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.Width != f.Width || got.Height != f.Height {
		t.Errorf("dimensions mismatch: got (%d,%d), want (%d,%d)", got.Width, got.Height, f.Width, f.Height)
	}
	if got.WidthMBs != f.WidthMBs || got.HeightMBs != f.HeightMBs {
		t.Errorf("mb grid mismatch: got (%d,%d), want (%d,%d)", got.WidthMBs, got.HeightMBs, f.WidthMBs, f.HeightMBs)
	}
	if got.QPAvg != f.QPAvg {
		t.Errorf("QPAvg = %d, want %d", got.QPAvg, f.QPAvg)
	}
	if got.DCMean != f.DCMean {
		t.Errorf("DCMean = %d, want %d", got.DCMean, f.DCMean)
	}
	for i := range got.DCLuma {
		if got.DCLuma[i] != f.DCLuma[i] {
			t.Fatalf("DCLuma[%d] = %d, want %d", i, got.DCLuma[i], f.DCLuma[i])
		}
	}
	for i := range got.Pyramid4x4 {
		if got.Pyramid4x4[i] != f.Pyramid4x4[i] {
			t.Fatalf("Pyramid4x4[%d] = %d, want %d", i, got.Pyramid4x4[i], f.Pyramid4x4[i])
		}
	}
}

func TestLengthFormula(t *testing.T) {
	f := uniform(4, 4, 100) // num_mbs = 16
	want := 32 + 8*16 + 40
	if got := len(Serialize(f)); got != want {
		t.Errorf("len(Serialize(f)) = %d, want %d", got, want)
	}
}

func TestDeserializeInvalidData(t *testing.T) {
	if _, err := Deserialize([]byte{1, 2, 3}); err != ErrInvalidData {
		t.Errorf("got %v, want ErrInvalidData", err)
	}

	f := uniform(2, 2, 10)
	data := Serialize(f)
	if _, err := Deserialize(data[:len(data)-1]); err != ErrInvalidData {
		t.Errorf("got %v, want ErrInvalidData on truncated data", err)
	}
}

// uniform fills both pyramids with v directly, so this checks the fixture's
// pyramid fields; the tiling itself is computed and tested in package
// features.
func TestUniformFixturePyramidFields(t *testing.T) {
	f := uniform(8, 6, 77)
	for i, v := range f.Pyramid2x2 {
		if v != 77 {
			t.Errorf("Pyramid2x2[%d] = %d, want 77", i, v)
		}
	}
	for i, v := range f.Pyramid4x4 {
		if v != 77 {
			t.Errorf("Pyramid4x4[%d] = %d, want 77", i, v)
		}
	}
}
