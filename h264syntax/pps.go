package h264syntax

import (
	"github.com/pkg/errors"

	"github.com/framehash/h264fp/bitreader"
)

// ErrUnsupportedEntropyMode is returned when a PPS sets
// entropy_coding_mode_flag to 1 (CABAC); this pipeline only supports CAVLC
// streams, per spec.md section 3.3.
var ErrUnsupportedEntropyMode = errors.New("h264syntax: CABAC entropy mode is not supported")

// PPS is a picture parameter set, holding only the fields the core needs
// (spec.md section 3.3). The other PPS syntax before pic_init_qp_minus26
// is read and discarded bit-accurately; syntax after it is not read.
type PPS struct {
	PicInitQPMinus26     int32
	EntropyCodingMode    bool
	NumSliceGroupsMinus1 uint32
}

// ParsePPS decodes a picture parameter set from a cleaned RBSP payload,
// following the syntax of ITU-T H.264 section 7.3.2.2 up to
// pic_init_qp_minus26.
func ParsePPS(rbsp []byte) (*PPS, error) {
	r := bitreader.New(rbsp)
	p := &PPS{}

	if _, err := r.ReadUE(); err != nil { // pic_parameter_set_id
		return nil, errors.Wrap(err, "pic_parameter_set_id")
	}
	if _, err := r.ReadUE(); err != nil { // seq_parameter_set_id
		return nil, errors.Wrap(err, "seq_parameter_set_id")
	}

	entropyMode, err := r.ReadFlag()
	if err != nil {
		return nil, errors.Wrap(err, "entropy_coding_mode_flag")
	}
	p.EntropyCodingMode = entropyMode
	if entropyMode {
		return nil, ErrUnsupportedEntropyMode
	}

	if err := r.SkipBits(1); err != nil { // bottom_field_pic_order_in_frame_present_flag
		return nil, errors.Wrap(err, "bottom_field_pic_order_in_frame_present_flag")
	}

	numSliceGroupsMinus1, err := r.ReadUE()
	if err != nil {
		return nil, errors.Wrap(err, "num_slice_groups_minus1")
	}
	p.NumSliceGroupsMinus1 = numSliceGroupsMinus1

	if numSliceGroupsMinus1 > 0 {
		if err := skipSliceGroupMap(r, numSliceGroupsMinus1); err != nil {
			return nil, errors.Wrap(err, "slice_group_map")
		}
	}

	if _, err := r.ReadUE(); err != nil { // num_ref_idx_l0_default_active_minus1
		return nil, errors.Wrap(err, "num_ref_idx_l0_default_active_minus1")
	}
	if _, err := r.ReadUE(); err != nil { // num_ref_idx_l1_default_active_minus1
		return nil, errors.Wrap(err, "num_ref_idx_l1_default_active_minus1")
	}
	if err := r.SkipBits(1); err != nil { // weighted_pred_flag
		return nil, errors.Wrap(err, "weighted_pred_flag")
	}
	if err := r.SkipBits(2); err != nil { // weighted_bipred_idc
		return nil, errors.Wrap(err, "weighted_bipred_idc")
	}

	picInitQPMinus26, err := r.ReadSE()
	if err != nil {
		return nil, errors.Wrap(err, "pic_init_qp_minus26")
	}
	p.PicInitQPMinus26 = picInitQPMinus26

	// pic_init_qs_minus26 onward is not needed by the core and is not read;
	// the PPS parser stops here by design (spec.md section 3.3).
	return p, nil
}

// skipSliceGroupMap advances r past the slice_group_map syntax of ITU-T
// H.264 section 7.3.2.2, for the num_slice_groups_minus1 > 0 case. The
// map's contents are irrelevant to the core; only the bit-accurate skip
// matters, and this PPS parser never reads past pic_init_qp_minus26, so in
// practice this function is a best-effort skip for PPS streams that
// happen to carry it.
func skipSliceGroupMap(r *bitreader.Reader, numSliceGroupsMinus1 uint32) error {
	mapType, err := r.ReadUE()
	if err != nil {
		return err
	}
	switch {
	case mapType == 0:
		for i := uint32(0); i <= numSliceGroupsMinus1; i++ {
			if _, err := r.ReadUE(); err != nil { // run_length_minus1[i]
				return err
			}
		}
	case mapType == 2:
		for i := uint32(0); i < numSliceGroupsMinus1; i++ {
			if _, err := r.ReadUE(); err != nil { // top_left[i]
				return err
			}
			if _, err := r.ReadUE(); err != nil { // bottom_right[i]
				return err
			}
		}
	case mapType >= 3 && mapType <= 5:
		if err := r.SkipBits(1); err != nil { // slice_group_change_direction_flag
			return err
		}
		if _, err := r.ReadUE(); err != nil { // slice_group_change_rate_minus1
			return err
		}
	case mapType == 6:
		picSizeInMapUnitsMinus1, err := r.ReadUE()
		if err != nil {
			return err
		}
		bitsPerID := ceilLog2(numSliceGroupsMinus1 + 1)
		for i := uint32(0); i <= picSizeInMapUnitsMinus1; i++ {
			if err := r.SkipBits(bitsPerID); err != nil { // slice_group_id[i]
				return err
			}
		}
	}
	return nil
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n uint32) int {
	bits := 0
	v := uint32(1)
	for v < n {
		v <<= 1
		bits++
	}
	return bits
}
