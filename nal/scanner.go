// Package nal locates NAL units inside an Annex-B H.264 byte stream and
// strips their emulation-prevention bytes, producing cleaned RBSP payloads
// for the syntax parser.
package nal

import "errors"

// errEmptyUnit is returned by Scanner.Next for a unit with no header byte.
var errEmptyUnit = errors.New("nal: NAL unit too short to contain a header")

// Unit types consumed by the core (ITU-T H.264 Table 7-1). Others are
// present in real streams but ignored by this pipeline.
const (
	TypeNonIDR = 1
	TypeIDR    = 5
	TypeSPS    = 7
	TypePPS    = 8
)

// Unit is a single NAL unit as found by Scanner: its header fields, and its
// RBSP payload with emulation-prevention bytes already removed. The RBSP is
// a fresh slice, not an alias into the scanned buffer; no downstream
// component retains a Unit.
type Unit struct {
	RefIDC uint8
	Type   uint8
	RBSP   []byte
}

// Scanner walks an Annex-B byte stream, yielding NAL units in stream order.
// It is single-pass and stateless beyond its read cursor, mirroring the
// teacher's byte-scanner idiom (codecutil.ByteScanner) but operating over
// an in-memory buffer rather than an io.Reader, since the core always
// receives a complete encoded stream from the hardware encoder collaborator.
type Scanner struct {
	buf []byte
	off int
}

// NewScanner returns a Scanner over the given Annex-B byte stream.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Next returns the next NAL unit in the stream, or ok == false once the
// stream is exhausted. err is non-nil only for a malformed header (a
// stream too short to contain even the one-byte NAL header).
//
// nextStartCode locates the 3-byte 00 00 01 marker; the optional extra
// zero byte that makes a 4-byte start code always precedes that
// marker, never follows it, so a unit's payload always begins exactly
// 3 bytes after the marker position regardless of which form is used.
// The symmetric case applies at the far end: if the marker found for
// the following unit is itself preceded by a zero byte, that zero
// belongs to the following start code and must be excluded from this
// unit's RBSP.
func (s *Scanner) Next() (u Unit, ok bool, err error) {
	start := s.nextStartCode(s.off)
	if start < 0 {
		return Unit{}, false, nil
	}
	bodyStart := start + 3

	next := s.nextStartCode(bodyStart)
	var raw []byte
	if next < 0 {
		raw = s.buf[bodyStart:]
		s.off = len(s.buf)
	} else {
		end := next
		if end > bodyStart && s.buf[end-1] == 0 {
			end--
		}
		raw = s.buf[bodyStart:end]
		s.off = next
	}

	if len(raw) < 1 {
		return Unit{}, false, errEmptyUnit
	}

	header := raw[0]
	u = Unit{
		RefIDC: (header >> 5) & 0x3,
		Type:   header & 0x1f,
		RBSP:   stripEmulationPrevention(raw[1:]),
	}
	return u, true, nil
}

// nextStartCode returns the buffer offset of the 00 00 01 marker at or
// after from, or -1 if none remains.
func (s *Scanner) nextStartCode(from int) int {
	buf := s.buf
	for i := from; i+2 < len(buf); i++ {
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 1 {
			return i
		}
	}
	return -1
}

// stripEmulationPrevention replaces every 00 00 03 sequence with 00 00, as
// specified by the emulation-prevention-byte removal process in ITU-T
// H.264 section 7.3.1.
func stripEmulationPrevention(in []byte) []byte {
	out := make([]byte, 0, len(in))
	zeros := 0
	for i := 0; i < len(in); i++ {
		b := in[i]
		if zeros >= 2 && b == 0x03 {
			zeros = 0
			continue
		}
		out = append(out, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}
