package features

import "testing"

func TestComputePyramidUniform(t *testing.T) {
	widthMBs, heightMBs := 8, 6
	dcLuma := make([]int16, widthMBs*heightMBs)
	for i := range dcLuma {
		dcLuma[i] = 77
	}

	p2 := computePyramid(dcLuma, widthMBs, heightMBs, 2)
	if len(p2) != 4 {
		t.Fatalf("len(pyramid_2x2) = %d, want 4", len(p2))
	}
	for i, v := range p2 {
		if v != 77 {
			t.Errorf("pyramid_2x2[%d] = %d, want 77", i, v)
		}
	}

	p4 := computePyramid(dcLuma, widthMBs, heightMBs, 4)
	if len(p4) != 16 {
		t.Fatalf("len(pyramid_4x4) = %d, want 16", len(p4))
	}
	for i, v := range p4 {
		if v != 77 {
			t.Errorf("pyramid_4x4[%d] = %d, want 77", i, v)
		}
	}
}

func TestComputePyramidVaryingGrid(t *testing.T) {
	widthMBs, heightMBs := 4, 4
	dcLuma := make([]int16, widthMBs*heightMBs)
	// top-left quadrant = 10, everything else = 50.
	for y := 0; y < heightMBs; y++ {
		for x := 0; x < widthMBs; x++ {
			v := int16(50)
			if x < 2 && y < 2 {
				v = 10
			}
			dcLuma[y*widthMBs+x] = v
		}
	}

	p2 := computePyramid(dcLuma, widthMBs, heightMBs, 2)
	if p2[0] != 10 { // tile (0,0)
		t.Errorf("pyramid_2x2[0] = %d, want 10", p2[0])
	}
	if p2[3] != 50 { // tile (1,1)
		t.Errorf("pyramid_2x2[3] = %d, want 50", p2[3])
	}
}
