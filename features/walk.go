package features

import "github.com/framehash/h264fp/bitreader"

// decodeIntra4x4Average reads the 16 per-4x4 luma intra prediction mode
// flags of an I_NxN macroblock and returns their average, truncated to an
// integer, as a
// single byte, per spec.md section 4.4 ("the per-4x4 modes averaged to a
// single byte"). The true H.264 syntax predicts each block's mode from
// its already-decoded neighbours (section 8.3.1.1); reproducing that
// neighbour search is out of scope here, so a predicted block (flag=1)
// is treated as DC (mode 2), a documented simplification that still
// yields a deterministic, bit-accurate cursor advance.
func decodeIntra4x4Average(r *bitreader.Reader) byte {
	sum := 0
	for i := 0; i < 16; i++ {
		flag, err := r.ReadFlag()
		if err != nil {
			return 2
		}
		mode := 2
		if !flag {
			rem, err := r.ReadBits(3)
			if err != nil {
				return 2
			}
			mode = int(rem)
		}
		sum += mode
	}
	return byte(sum / 16)
}

// walkMacroblocks decodes the macroblock records of a single slice,
// starting at firstMB, filling mbTypes/intraModes/dcLuma/dcCb/dcCr at
// their cursor positions. It stops silently (keeping whatever was
// already decoded) on truncation or once num_mbs is reached, per the
// slice-internal robustness policy of spec.md section 7.
func walkMacroblocks(
	r *bitreader.Reader,
	rbsp []byte,
	strategy DCStrategy,
	sliceType, firstMB, numMBs int,
	mbTypes, intraModes []byte,
	dcLuma, dcCb, dcCr []int16,
) {
	cursor := firstMB
	if cursor < 0 {
		cursor = 0
	}

	for cursor < numMBs && r.BitsLeft() > 0 {
		if isSkipFamily(sliceType) {
			run, err := r.ReadUE()
			if err != nil {
				return
			}
			code := skipCode(sliceType)
			end := cursor + int(run)
			if end > numMBs {
				end = numMBs
			}
			for ; cursor < end; cursor++ {
				mbTypes[cursor] = code
			}
			if cursor >= numMBs || r.BitsLeft() <= 0 {
				return
			}
		}

		rawType, err := r.ReadUE()
		if err != nil {
			return
		}
		code, predMode, intra, isI16x16 := mbTypeCode(sliceType, rawType)
		mbTypes[cursor] = code
		if intra {
			if isI16x16 {
				intraModes[cursor] = byte(predMode)
			} else {
				intraModes[cursor] = decodeIntra4x4Average(r)
			}
		}

		luma, cb, cr, err := decodeMBDC(r)
		if err != nil {
			return
		}
		if strategy == DCFallback {
			luma, cb, cr = fallbackDC(rbsp, cursor)
		}
		dcLuma[cursor] = luma
		dcCb[cursor] = cb
		dcCr[cursor] = cr

		cursor++
	}
}
