package features

import "github.com/framehash/h264fp/h264syntax"

// mb_type_code families, per spec.md section 3.5 and the "Mb-type code
// table" design note: codes <= 25 are intra, 37 and 87 are the fixed
// P_Skip/B_Skip codes, and the remaining values are a locally-stable,
// deterministic mapping for inter macroblocks.
const (
	codePSkip = 37
	codeBSkip = 87
)

// intraCode folds a raw, ue(v)-coded intra mb_type (0 = I_NxN, 1..24 =
// I_16x16 variants, matching the real H.264 table where mb_type =
// 1 + predMode + 4*cbpChroma + 12*cbpLuma) into the 8-bit code space of
// spec.md section 3.5, and returns the associated intra prediction mode
// for the I_16x16 case (I_NxN's mode comes from the per-4x4 walk instead).
func intraCode(raw uint32) (code uint8, predMode int, isI16x16 bool) {
	raw %= 25
	if raw == 0 {
		return 1, 0, false // I_NxN; predMode filled in by the per-4x4 walk
	}
	return uint8(raw + 1), int((raw - 1) % 4), true
}

// mbTypeCode maps a slice's raw mb_type value to the macroblock record's
// type code and, for intra macroblocks, its I_16x16 prediction mode.
func mbTypeCode(sliceType int, raw uint32) (code uint8, predMode int, intra, isI16x16 bool) {
	switch sliceType {
	case h264syntax.SliceI, h264syntax.SliceSI:
		code, predMode, isI16x16 = intraCode(raw)
		return code, predMode, true, isI16x16
	case h264syntax.SliceP, h264syntax.SliceSP:
		if raw < 5 {
			return uint8(26 + raw), 0, false, false
		}
		code, predMode, isI16x16 = intraCode(raw - 5)
		return code, predMode, true, isI16x16
	case h264syntax.SliceB:
		if raw < 23 {
			return uint8(50 + raw%23), 0, false, false
		}
		code, predMode, isI16x16 = intraCode(raw - 23)
		return code, predMode, true, isI16x16
	default:
		return uint8(26 + raw%11), 0, false, false
	}
}

// skipCode returns the mb_type_code used for a skipped macroblock in the
// given slice type.
func skipCode(sliceType int) uint8 {
	if sliceType == h264syntax.SliceB {
		return codeBSkip
	}
	return codePSkip
}

// isSkipFamily reports whether slice_type introduces macroblocks via
// mb_skip_run (P, B and SP).
func isSkipFamily(sliceType int) bool {
	return sliceType == h264syntax.SliceP || sliceType == h264syntax.SliceB || sliceType == h264syntax.SliceSP
}
