// Package h264syntax decodes the subset of H.264 parameter-set and slice
// header syntax the fingerprint pipeline needs: SPS, PPS, and slice
// headers, following ITU-T H.264 sections 7.3.2.1.1, 7.3.2.2 and 7.3.3.
package h264syntax

import (
	"github.com/pkg/errors"

	"github.com/framehash/h264fp/bitreader"
)

// ErrUnsupportedProfile is returned when a high-profile SPS explicitly
// carries a chroma_format_idc other than 1 (4:2:0), which this pipeline
// does not support.
var ErrUnsupportedProfile = errors.New("h264syntax: unsupported chroma format (only 4:2:0 supported)")

// highProfileIDCs lists the profile_idc values for which the SPS carries
// the extra chroma/bit-depth/scaling-list fields, per ITU-T H.264
// section 7.3.2.1.1.
var highProfileIDCs = map[uint8]bool{
	100: true, 110: true, 122: true, 244: true, 44: true,
	83: true, 86: true, 118: true, 128: true, 138: true,
	139: true, 134: true, 135: true,
}

// SPS is a sequence parameter set, holding only the fields the core needs
// (spec.md section 3.2).
type SPS struct {
	ProfileIDC        uint8
	ChromaFormatIDC   uint32 // defaults to 1 (4:2:0) when not present in the bitstream
	PicWidthInMBs     uint32
	PicHeightInMapUni uint32
	FrameMBSOnlyFlag  bool

	CropLeft, CropRight, CropTop, CropBottom uint32

	// Log2MaxFrameNum is the frame_num field width, used by slice header
	// parsing; defaults to 4 if this SPS was not retained by the caller.
	Log2MaxFrameNum uint32
}

// WidthMBs is the macroblock grid width.
func (s *SPS) WidthMBs() int { return int(s.PicWidthInMBs) }

// HeightMBs is the macroblock grid height, accounting for field coding.
func (s *SPS) HeightMBs() int {
	mul := uint32(2)
	if s.FrameMBSOnlyFlag {
		mul = 1
	}
	return int(s.PicHeightInMapUni * mul)
}

// PixelWidth is the cropped output picture width in luma samples.
func (s *SPS) PixelWidth() int {
	return s.WidthMBs()*16 - 2*int(s.CropLeft+s.CropRight)
}

// PixelHeight is the cropped output picture height in luma samples.
func (s *SPS) PixelHeight() int {
	return s.HeightMBs()*16 - 2*int(s.CropTop+s.CropBottom)
}

// ParseSPS decodes a sequence parameter set from a cleaned RBSP payload,
// following the syntax of ITU-T H.264 section 7.3.2.1.1 up through the
// frame-cropping offsets. VUI parameters, when present, are not decoded:
// nothing downstream of them is needed by this core.
func ParseSPS(rbsp []byte) (*SPS, error) {
	r := bitreader.New(rbsp)
	s := &SPS{ChromaFormatIDC: 1, Log2MaxFrameNum: 4}

	profile, err := r.ReadBits(8)
	if err != nil {
		return nil, errors.Wrap(err, "profile_idc")
	}
	s.ProfileIDC = uint8(profile)

	if err := r.SkipBits(8); err != nil { // constraint flags (6) + reserved (2)
		return nil, errors.Wrap(err, "constraint flags")
	}
	if err := r.SkipBits(8); err != nil { // level_idc
		return nil, errors.Wrap(err, "level_idc")
	}
	if _, err := r.ReadUE(); err != nil { // seq_parameter_set_id
		return nil, errors.Wrap(err, "seq_parameter_set_id")
	}

	if highProfileIDCs[s.ProfileIDC] {
		chromaFormat, err := r.ReadUE()
		if err != nil {
			return nil, errors.Wrap(err, "chroma_format_idc")
		}
		s.ChromaFormatIDC = chromaFormat
		if chromaFormat != 1 {
			return nil, ErrUnsupportedProfile
		}

		if chromaFormat == 3 {
			if err := r.SkipBits(1); err != nil { // separate_colour_plane_flag
				return nil, errors.Wrap(err, "separate_colour_plane_flag")
			}
		}
		if _, err := r.ReadUE(); err != nil { // bit_depth_luma_minus8
			return nil, errors.Wrap(err, "bit_depth_luma_minus8")
		}
		if _, err := r.ReadUE(); err != nil { // bit_depth_chroma_minus8
			return nil, errors.Wrap(err, "bit_depth_chroma_minus8")
		}
		if err := r.SkipBits(1); err != nil { // qpprime_y_zero_transform_bypass_flag
			return nil, errors.Wrap(err, "qpprime_y_zero_transform_bypass_flag")
		}
		scalingMatrixPresent, err := r.ReadFlag()
		if err != nil {
			return nil, errors.Wrap(err, "seq_scaling_matrix_present_flag")
		}
		if scalingMatrixPresent {
			count := 8
			if chromaFormat == 3 {
				count = 12
			}
			for i := 0; i < count; i++ {
				present, err := r.ReadFlag()
				if err != nil {
					return nil, errors.Wrap(err, "seq_scaling_list_present_flag")
				}
				if present {
					size := 16
					if i >= 6 {
						size = 64
					}
					if err := skipScalingList(r, size); err != nil {
						return nil, errors.Wrap(err, "scaling_list")
					}
				}
			}
		}
	}

	log2MaxFrameNumMinus4, err := r.ReadUE()
	if err != nil {
		return nil, errors.Wrap(err, "log2_max_frame_num_minus4")
	}
	s.Log2MaxFrameNum = log2MaxFrameNumMinus4 + 4

	picOrderCntType, err := r.ReadUE()
	if err != nil {
		return nil, errors.Wrap(err, "pic_order_cnt_type")
	}
	switch picOrderCntType {
	case 0:
		if _, err := r.ReadUE(); err != nil { // log2_max_pic_order_cnt_lsb_minus4
			return nil, errors.Wrap(err, "log2_max_pic_order_cnt_lsb_minus4")
		}
	case 1:
		if err := r.SkipBits(1); err != nil { // delta_pic_order_always_zero_flag
			return nil, errors.Wrap(err, "delta_pic_order_always_zero_flag")
		}
		if _, err := r.ReadSE(); err != nil { // offset_for_non_ref_pic
			return nil, errors.Wrap(err, "offset_for_non_ref_pic")
		}
		if _, err := r.ReadSE(); err != nil { // offset_for_top_to_bottom_field
			return nil, errors.Wrap(err, "offset_for_top_to_bottom_field")
		}
		numRefFrames, err := r.ReadUE()
		if err != nil {
			return nil, errors.Wrap(err, "num_ref_frames_in_pic_order_cnt_cycle")
		}
		for i := uint32(0); i < numRefFrames; i++ {
			if _, err := r.ReadSE(); err != nil { // offset_for_ref_frame[i]
				return nil, errors.Wrap(err, "offset_for_ref_frame")
			}
		}
	}

	if _, err := r.ReadUE(); err != nil { // max_num_ref_frames
		return nil, errors.Wrap(err, "max_num_ref_frames")
	}
	if err := r.SkipBits(1); err != nil { // gaps_in_frame_num_value_allowed_flag
		return nil, errors.Wrap(err, "gaps_in_frame_num_value_allowed_flag")
	}

	picWidthInMBsMinus1, err := r.ReadUE()
	if err != nil {
		return nil, errors.Wrap(err, "pic_width_in_mbs_minus1")
	}
	s.PicWidthInMBs = picWidthInMBsMinus1 + 1

	picHeightInMapUnitsMinus1, err := r.ReadUE()
	if err != nil {
		return nil, errors.Wrap(err, "pic_height_in_map_units_minus1")
	}
	s.PicHeightInMapUni = picHeightInMapUnitsMinus1 + 1

	frameMBSOnly, err := r.ReadFlag()
	if err != nil {
		return nil, errors.Wrap(err, "frame_mbs_only_flag")
	}
	s.FrameMBSOnlyFlag = frameMBSOnly

	if !frameMBSOnly {
		if err := r.SkipBits(1); err != nil { // mb_adaptive_frame_field_flag
			return nil, errors.Wrap(err, "mb_adaptive_frame_field_flag")
		}
	}

	if err := r.SkipBits(1); err != nil { // direct_8x8_inference_flag
		return nil, errors.Wrap(err, "direct_8x8_inference_flag")
	}

	cropFlag, err := r.ReadFlag()
	if err != nil {
		return nil, errors.Wrap(err, "frame_cropping_flag")
	}
	if cropFlag {
		if s.CropLeft, err = r.ReadUE(); err != nil {
			return nil, errors.Wrap(err, "frame_crop_left_offset")
		}
		if s.CropRight, err = r.ReadUE(); err != nil {
			return nil, errors.Wrap(err, "frame_crop_right_offset")
		}
		if s.CropTop, err = r.ReadUE(); err != nil {
			return nil, errors.Wrap(err, "frame_crop_top_offset")
		}
		if s.CropBottom, err = r.ReadUE(); err != nil {
			return nil, errors.Wrap(err, "frame_crop_bottom_offset")
		}
	}

	// vui_parameters_present_flag, and the vui_parameters() structure that
	// may follow, are intentionally not decoded: nothing the core needs
	// lives past this point in the SPS.
	return s, nil
}

// skipScalingList advances r past a scaling_list syntax structure of the
// given size, following the algorithm of ITU-T H.264 section 7.3.2.1.1.1:
// lastScale starts at 8 and nextScale is updated by a signed delta while
// it is non-zero; once it becomes 0 no further deltas are read and the
// remaining entries repeat lastScale.
func skipScalingList(r *bitreader.Reader, size int) error {
	lastScale := 8
	nextScale := 8
	for i := 0; i < size; i++ {
		if nextScale != 0 {
			delta, err := r.ReadSE()
			if err != nil {
				return err
			}
			nextScale = (lastScale + int(delta) + 256) % 256
		}
		if nextScale != 0 {
			lastScale = nextScale
		}
		_ = lastScale
	}
	return nil
}
