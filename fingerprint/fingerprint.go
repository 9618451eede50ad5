// Package fingerprint defines the in-memory perceptual fingerprint record,
// its distance metrics, and its little-endian binary serialization.
package fingerprint

import "github.com/pkg/errors"

// ErrInvalidData is returned by Deserialize when the byte slice length is
// inconsistent with the num_mbs it encodes.
var ErrInvalidData = errors.New("fingerprint: invalid serialized data")

// Fingerprint is an immutable, compact summary of an encoder's
// macroblock-level decisions for a single still image. Callers must treat
// a Fingerprint returned by features.Extract or Deserialize as read-only;
// nothing in this package mutates one after construction.
type Fingerprint struct {
	Width, Height       int
	WidthMBs, HeightMBs int

	MBTypes    []byte
	IntraModes []byte
	DCLuma     []int16
	DCCb       []int16
	DCCr       []int16

	QPAvg       uint8
	SkipRatio   float32
	IntraRatio  float32
	DCMean      int16
	DCStd       float32
	EdgeDensity float32

	Pyramid2x2 [4]int16
	Pyramid4x4 [16]int16
}

// NumMBs is the macroblock count implied by the grid dimensions.
func (f *Fingerprint) NumMBs() int { return f.WidthMBs * f.HeightMBs }

func dimensionsMatch(a, b *Fingerprint) bool {
	return a.WidthMBs == b.WidthMBs && a.HeightMBs == b.HeightMBs
}
