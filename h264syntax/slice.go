package h264syntax

import (
	"github.com/pkg/errors"

	"github.com/framehash/h264fp/bitreader"
)

// Slice type families, per ITU-T H.264 Table 7-6. slice_type is taken
// modulo 5 to fold the "all slices in picture share this type" variants
// (5-9) onto the base five.
const (
	SliceP = iota
	SliceB
	SliceI
	SliceSP
	SliceSI
)

// clampQP bounds a slice QP to the valid range defined by ITU-T H.264.
func clampQP(qp int) int {
	if qp < 0 {
		return 0
	}
	if qp > 51 {
		return 51
	}
	return qp
}

// SliceHeader holds the slice header fields the core needs (spec.md
// section 3.4).
type SliceHeader struct {
	FirstMBInSlice int
	SliceType      int // one of SliceP, SliceB, SliceI, SliceSP, SliceSI
	SliceQP        int // 26 + pic_init_qp_minus26 + slice_qp_delta, clamped to [0,51]
}

// ParseSliceHeader decodes a slice header from a cleaned RBSP payload. It
// reads first_mb_in_slice, slice_type, pic_parameter_set_id and frame_num,
// then reads slice_qp_delta directly after frame_num. The fields that ITU-T
// H.264 section 7.3.3 places between frame_num and slice_qp_delta
// (idr_pic_id, picture order count, reference-picture-list reordering,
// prediction weight tables, decoded-reference-picture marking and the
// like) are not read, so headers that carry them are not parsed correctly.
func ParseSliceHeader(rbsp []byte, sps *SPS, pps *PPS) (*SliceHeader, error) {
	h, _, err := ParseSliceHeaderCursor(rbsp, sps, pps)
	return h, err
}

// ParseSliceHeaderCursor behaves like ParseSliceHeader but additionally
// returns the bit reader positioned immediately after slice_qp_delta, so a
// caller (the macroblock walk in package features) can continue reading
// slice data from the exact bit the header parse left off at.
func ParseSliceHeaderCursor(rbsp []byte, sps *SPS, pps *PPS) (*SliceHeader, *bitreader.Reader, error) {
	r := bitreader.New(rbsp)
	h := &SliceHeader{}

	firstMB, err := r.ReadUE()
	if err != nil {
		return nil, nil, errors.Wrap(err, "first_mb_in_slice")
	}
	h.FirstMBInSlice = int(firstMB)

	sliceTypeRaw, err := r.ReadUE()
	if err != nil {
		return nil, nil, errors.Wrap(err, "slice_type")
	}
	h.SliceType = int(sliceTypeRaw % 5)

	if _, err := r.ReadUE(); err != nil { // pic_parameter_set_id
		return nil, nil, errors.Wrap(err, "pic_parameter_set_id")
	}

	frameNumWidth := 4
	if sps != nil && sps.Log2MaxFrameNum > 0 {
		frameNumWidth = int(sps.Log2MaxFrameNum)
	}
	if err := r.SkipBits(frameNumWidth); err != nil { // frame_num
		return nil, nil, errors.Wrap(err, "frame_num")
	}

	sliceQPDelta, err := r.ReadSE()
	if err != nil {
		return nil, nil, errors.Wrap(err, "slice_qp_delta")
	}

	picInitQPMinus26 := int32(0)
	if pps != nil {
		picInitQPMinus26 = pps.PicInitQPMinus26
	}
	h.SliceQP = clampQP(26 + int(picInitQPMinus26) + int(sliceQPDelta))

	return h, r, nil
}
