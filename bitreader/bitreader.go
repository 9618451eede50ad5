// Package bitreader provides a big-endian, MSB-first bit cursor over a byte
// slice, along with the Exp-Golomb (UE/SE) decoders used throughout H.264
// bitstream syntax.
package bitreader

import "github.com/pkg/errors"

// ErrTruncatedBitstream is returned when a read runs past the end of the
// underlying byte slice.
var ErrTruncatedBitstream = errors.New("bitreader: truncated bitstream")

// ErrInvalidExpGolomb is returned when a ue(v)/se(v) read finds more than 31
// leading zero bits, which cannot correspond to a valid codeNum.
var ErrInvalidExpGolomb = errors.New("bitreader: invalid exp-golomb code")

// maxUEZeros is the leading-zero cap from the specification: a leading-zero
// run of 32 or more is rejected rather than silently overflowing a uint.
const maxUEZeros = 31

// Reader is a big-endian, MSB-first cursor over a byte slice. The zero value
// is not usable; construct with New.
type Reader struct {
	buf     []byte
	byteOff int // index of the next unread byte
	bitOff  int // number of bits already consumed from buf[byteOff], 0-7
}

// New returns a Reader positioned at the start of buf.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// BitsRead returns the total number of bits consumed so far.
func (r *Reader) BitsRead() int {
	return r.byteOff*8 + r.bitOff
}

// BitsLeft returns the number of unread bits remaining in the source.
func (r *Reader) BitsLeft() int {
	return len(r.buf)*8 - r.BitsRead()
}

// ByteAligned reports whether the cursor sits on a byte boundary.
func (r *Reader) ByteAligned() bool {
	return r.bitOff == 0
}

// ReadBits reads n bits (0 <= n <= 32) and returns them right-justified in a
// uint32. It fails with ErrTruncatedBitstream if fewer than n bits remain.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.Errorf("bitreader: invalid read width %d", n)
	}
	if n > r.BitsLeft() {
		return 0, ErrTruncatedBitstream
	}

	var v uint32
	remaining := n
	for remaining > 0 {
		curByte := r.buf[r.byteOff]
		availInByte := 8 - r.bitOff
		take := availInByte
		if take > remaining {
			take = remaining
		}

		shift := availInByte - take
		mask := byte(0xFF >> uint(r.bitOff))
		bits := (curByte & mask) >> uint(shift)

		v = (v << uint(take)) | uint32(bits)

		r.bitOff += take
		if r.bitOff == 8 {
			r.bitOff = 0
			r.byteOff++
		}
		remaining -= take
	}
	return v, nil
}

// SkipBits advances the cursor by n bits without producing a value.
func (r *Reader) SkipBits(n int) error {
	_, err := r.ReadBits(n)
	return err
}

// ReadFlag reads a single bit and returns it as a bool (1 => true).
func (r *Reader) ReadFlag() (bool, error) {
	b, err := r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// ReadUE decodes an unsigned Exp-Golomb coded (ue(v)) syntax element as
// specified in ITU-T H.264 section 9.1: count the leading zero bits (k),
// then return (1<<k)-1 + the following k bits, or 0 if k is 0.
func (r *Reader) ReadUE() (uint32, error) {
	zeros := 0
	for {
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		zeros++
		if zeros > maxUEZeros {
			return 0, ErrInvalidExpGolomb
		}
	}
	if zeros == 0 {
		return 0, nil
	}
	rem, err := r.ReadBits(zeros)
	if err != nil {
		return 0, err
	}
	return (uint32(1)<<uint(zeros) - 1) + rem, nil
}

// ReadSE decodes a signed Exp-Golomb coded (se(v)) syntax element as
// specified in ITU-T H.264 section 9.1.1, mapping the unsigned codeNum u to
// a signed value by folding: even u maps to -u/2, odd u maps to (u+1)/2.
func (r *Reader) ReadSE() (int32, error) {
	u, err := r.ReadUE()
	if err != nil {
		return 0, err
	}
	if u%2 == 0 {
		return -int32(u / 2), nil
	}
	return int32((u + 1) / 2), nil
}
