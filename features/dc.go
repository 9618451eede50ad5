package features

import "github.com/framehash/h264fp/bitreader"

// DCStrategy selects how a macroblock's DC transform coefficients are
// obtained, per the degraded-mode allowance of spec.md section 4.4.
type DCStrategy int

const (
	// DCCanonical reads the three se(v)-coded DC deltas this package
	// places immediately after each coded macroblock's type/intra-mode
	// fields (see decodeMBDC). This is the reference strategy.
	DCCanonical DCStrategy = iota
	// DCFallback approximates dc_luma, dc_cb and dc_cr directly from the
	// cleaned RBSP bytes at a fixed macroblock stride, as spec.md section
	// 4.4 explicitly allows as a documented degraded mode. The bit
	// cursor still advances past the se(v) fields so the walk stays in
	// sync; only the resulting values are replaced.
	DCFallback
)

func clampI16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}

// decodeMBDC reads the three DC deltas (luma, Cb, Cr) coded as se(v)
// immediately after a macroblock's type and, for I_NxN, intra-mode fields.
func decodeMBDC(r *bitreader.Reader) (luma, cb, cr int16, err error) {
	l, err := r.ReadSE()
	if err != nil {
		return 0, 0, 0, err
	}
	c, err := r.ReadSE()
	if err != nil {
		return 0, 0, 0, err
	}
	cr32, err := r.ReadSE()
	if err != nil {
		return 0, 0, 0, err
	}
	return clampI16(l), clampI16(c), clampI16(cr32), nil
}

// fallbackDC approximates a macroblock's DC luma/Cb/Cr from the cleaned
// RBSP bytes at a fixed stride, per spec.md section 4.4's documented
// degraded policy (dc_luma[i] = byte[2i] - 128).
func fallbackDC(rbsp []byte, idx int) (luma, cb, cr int16) {
	base := 2 * idx
	at := func(off int) int16 {
		if off < 0 || off >= len(rbsp) {
			return 0
		}
		return int16(rbsp[off]) - 128
	}
	return at(base), at(base + 1), at(base + 2)
}
