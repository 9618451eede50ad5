package nal

import (
	"bytes"
	"testing"
	"time"
)

func TestLexAccessUnitsSplitsOnSliceAndParamSets(t *testing.T) {
	sps := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0xAA, 0xBB}
	pps := []byte{0x00, 0x00, 0x00, 0x01, 0x68, 0xCC}
	idr := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0xDD, 0xEE}

	in := append(append(append([]byte{}, sps...), pps...), idr...)

	var out bytes.Buffer
	// LexAccessUnits always ends in io.EOF/io.ErrUnexpectedEOF once the
	// reader is exhausted; that's expected, not a failure.
	_ = LexAccessUnits(&out, bytes.NewReader(in), 0)

	got := out.Bytes()
	if len(got) == 0 {
		t.Fatal("expected some access unit bytes to be written")
	}
	// The first written NAL unit (SPS) must appear verbatim at the start
	// of the output, since it's the first boundary the lexer emits on.
	if !bytes.HasPrefix(got, sps) {
		t.Errorf("output missing SPS payload: %x", got)
	}
}

func TestLexAccessUnitsWithDelay(t *testing.T) {
	sps := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x01}
	idr := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x02}
	in := append(append([]byte{}, sps...), idr...)

	var out bytes.Buffer
	_ = LexAccessUnits(&out, bytes.NewReader(in), time.Millisecond)
	if out.Len() == 0 {
		t.Fatal("expected output with nonzero delay")
	}
}
