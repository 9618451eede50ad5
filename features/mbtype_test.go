package features

import (
	"testing"

	"github.com/framehash/h264fp/h264syntax"
)

func TestMbTypeCodeIntraINxN(t *testing.T) {
	code, _, intra, isI16x16 := mbTypeCode(h264syntax.SliceI, 0)
	if code != 1 {
		t.Errorf("code = %d, want 1 (I_NxN)", code)
	}
	if !intra {
		t.Error("intra = false, want true")
	}
	if isI16x16 {
		t.Error("isI16x16 = true, want false")
	}
}

func TestMbTypeCodeIntraI16x16(t *testing.T) {
	code, predMode, intra, isI16x16 := mbTypeCode(h264syntax.SliceI, 5)
	if code != 6 {
		t.Errorf("code = %d, want 6", code)
	}
	if !intra || !isI16x16 {
		t.Error("expected intra I_16x16 macroblock")
	}
	if predMode != (5-1)%4 {
		t.Errorf("predMode = %d, want %d", predMode, (5-1)%4)
	}
}

func TestMbTypeCodeAllIntraWithinRange(t *testing.T) {
	for raw := uint32(0); raw < 25; raw++ {
		code, _, intra, _ := mbTypeCode(h264syntax.SliceI, raw)
		if !intra {
			t.Fatalf("raw=%d: expected intra", raw)
		}
		if code < 1 || code > 25 {
			t.Fatalf("raw=%d: code = %d, want in [1,25]", raw, code)
		}
	}
}

func TestMbTypeCodePInter(t *testing.T) {
	code, _, intra, _ := mbTypeCode(h264syntax.SliceP, 2)
	if intra {
		t.Error("intra = true, want false")
	}
	if code == codePSkip || code == codeBSkip {
		t.Errorf("inter code %d collides with a skip code", code)
	}
}

func TestSkipCode(t *testing.T) {
	if got := skipCode(h264syntax.SliceP); got != codePSkip {
		t.Errorf("skipCode(P) = %d, want %d", got, codePSkip)
	}
	if got := skipCode(h264syntax.SliceB); got != codeBSkip {
		t.Errorf("skipCode(B) = %d, want %d", got, codeBSkip)
	}
}

func TestIsSkipFamily(t *testing.T) {
	for _, st := range []int{h264syntax.SliceP, h264syntax.SliceB, h264syntax.SliceSP} {
		if !isSkipFamily(st) {
			t.Errorf("isSkipFamily(%d) = false, want true", st)
		}
	}
	if isSkipFamily(h264syntax.SliceI) {
		t.Error("isSkipFamily(I) = true, want false")
	}
}
