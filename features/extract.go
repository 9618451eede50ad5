// Package features walks the slices of an Annex-B H.264 byte stream and
// extracts the per-macroblock decision features (mb_type, intra mode, DC
// coefficients) into a fingerprint.Fingerprint, per spec.md section 4.4.
package features

import (
	"github.com/pkg/errors"

	"github.com/framehash/h264fp/fingerprint"
	"github.com/framehash/h264fp/h264syntax"
	"github.com/framehash/h264fp/nal"
)

// ErrMissingSPS and ErrMissingPPS are returned when a slice NAL is
// encountered before a parameter set it depends on has been seen.
var (
	ErrMissingSPS = errors.New("features: slice encountered before any SPS")
	ErrMissingPPS = errors.New("features: slice encountered before any PPS")
)

// Extract decodes stream into a Fingerprint using the canonical DC
// strategy. It is the in-process extract(bytes) -> Fingerprint entry
// point of spec.md section 6.
func Extract(stream []byte) (*fingerprint.Fingerprint, error) {
	return ExtractWithStrategy(stream, DCCanonical)
}

// ExtractWithStrategy behaves like Extract but lets the caller select the
// DC coefficient strategy (spec.md section 4.4's fallback policy).
func ExtractWithStrategy(stream []byte, strategy DCStrategy) (*fingerprint.Fingerprint, error) {
	scanner := nal.NewScanner(stream)

	var sps *h264syntax.SPS
	var pps *h264syntax.PPS
	var widthMBs, heightMBs, numMBs int
	var mbTypes, intraModes []byte
	var dcLuma, dcCb, dcCr []int16
	var qpSum, qpCount int

	for {
		unit, ok, err := scanner.Next()
		if err != nil {
			return nil, errors.Wrap(err, "scanning NAL units")
		}
		if !ok {
			break
		}

		switch unit.Type {
		case nal.TypeSPS:
			if sps != nil {
				continue
			}
			s, err := h264syntax.ParseSPS(unit.RBSP)
			if err != nil {
				return nil, errors.Wrap(err, "parsing SPS")
			}
			sps = s
			widthMBs = sps.WidthMBs()
			heightMBs = sps.HeightMBs()
			numMBs = widthMBs * heightMBs
			mbTypes = make([]byte, numMBs)
			intraModes = make([]byte, numMBs)
			for i := range intraModes {
				intraModes[i] = 2 // DC, per spec.md section 4.4 step 2
			}
			dcLuma = make([]int16, numMBs)
			dcCb = make([]int16, numMBs)
			dcCr = make([]int16, numMBs)

		case nal.TypePPS:
			if pps != nil {
				continue
			}
			p, err := h264syntax.ParsePPS(unit.RBSP)
			if err != nil {
				return nil, errors.Wrap(err, "parsing PPS")
			}
			pps = p

		case nal.TypeIDR, nal.TypeNonIDR:
			if sps == nil {
				return nil, ErrMissingSPS
			}
			if pps == nil {
				return nil, ErrMissingPPS
			}

			header, r, err := h264syntax.ParseSliceHeaderCursor(unit.RBSP, sps, pps)
			if err != nil {
				// Malformed slice header: the slice is skipped and the
				// walk moves on to the next NAL, keeping whatever was
				// already accumulated. The skip is not reported to the
				// caller.
				continue
			}
			qpSum += header.SliceQP
			qpCount++

			walkMacroblocks(
				r, unit.RBSP, strategy,
				header.SliceType, header.FirstMBInSlice, numMBs,
				mbTypes, intraModes, dcLuma, dcCb, dcCr,
			)
		}
	}

	if sps == nil {
		return nil, ErrMissingSPS
	}
	if pps == nil {
		return nil, ErrMissingPPS
	}

	s := computeSummary(mbTypes, intraModes, dcLuma)

	return &fingerprint.Fingerprint{
		Width:       sps.PixelWidth(),
		Height:      sps.PixelHeight(),
		WidthMBs:    widthMBs,
		HeightMBs:   heightMBs,
		MBTypes:     mbTypes,
		IntraModes:  intraModes,
		DCLuma:      dcLuma,
		DCCb:        dcCb,
		DCCr:        dcCr,
		QPAvg:       computeQPAvg(qpSum, qpCount),
		SkipRatio:   s.skipRatio,
		IntraRatio:  s.intraRatio,
		DCMean:      s.dcMean,
		DCStd:       s.dcStd,
		EdgeDensity: s.edgeDensity,
		Pyramid2x2:  toArray4(computePyramid(dcLuma, widthMBs, heightMBs, 2)),
		Pyramid4x4:  toArray16(computePyramid(dcLuma, widthMBs, heightMBs, 4)),
	}, nil
}

func toArray4(s []int16) [4]int16 {
	var a [4]int16
	copy(a[:], s)
	return a
}

func toArray16(s []int16) [16]int16 {
	var a [16]int16
	copy(a[:], s)
	return a
}
