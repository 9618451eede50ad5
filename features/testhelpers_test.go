package features

// bitsToBytes packs a string of '0'/'1' characters (spaces ignored),
// padding the final byte with zero bits, into a byte slice.
func bitsToBytes(s string) []byte {
	var out []byte
	var cur byte
	var n int
	for _, c := range s {
		if c == ' ' {
			continue
		}
		cur <<= 1
		if c == '1' {
			cur |= 1
		}
		n++
		if n == 8 {
			out = append(out, cur)
			cur = 0
			n = 0
		}
	}
	if n > 0 {
		cur <<= uint(8 - n)
		out = append(out, cur)
	}
	return out
}

// addEmulationPrevention inserts 0x03 after every 00 00 pair followed by
// a byte <= 0x03, the inverse of the scanner's stripping pass — used here
// to build Annex-B test fixtures from arbitrary RBSP content without
// having to hand-verify the bit patterns never collide with a start
// code or emulation sequence.
func addEmulationPrevention(rbsp []byte) []byte {
	var out []byte
	zeroRun := 0
	for _, b := range rbsp {
		if zeroRun >= 2 && b <= 3 {
			out = append(out, 0x03)
			zeroRun = 0
		}
		out = append(out, b)
		if b == 0 {
			zeroRun++
		} else {
			zeroRun = 0
		}
	}
	return out
}

// annexBNAL wraps rbsp in a 4-byte start code and a one-byte NAL header
// with the given nal_ref_idc and nal_unit_type.
func annexBNAL(refIDC, nalType byte, rbsp []byte) []byte {
	out := []byte{0x00, 0x00, 0x00, 0x01, (refIDC << 5) | nalType}
	return append(out, addEmulationPrevention(rbsp)...)
}

func newMBArrays(numMBs int) (mbTypes, intraModes []byte, dcLuma, dcCb, dcCr []int16) {
	mbTypes = make([]byte, numMBs)
	intraModes = make([]byte, numMBs)
	for i := range intraModes {
		intraModes[i] = 2
	}
	dcLuma = make([]int16, numMBs)
	dcCb = make([]int16, numMBs)
	dcCr = make([]int16, numMBs)
	return
}
