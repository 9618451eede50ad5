package fingerprint

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// InfDistance is the sentinel returned by the float-valued metrics when two
// fingerprints have mismatched grid dimensions: the largest finite value of
// the result type, per spec.md section 4.5.
const InfDistance = float32(math.MaxFloat32)

// MaxHamming is the sentinel returned by HammingDistance on a dimension
// mismatch.
const MaxHamming = uint32(math.MaxUint32)

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// DistanceFast is an O(1) weighted L1 distance over the summary fields.
func DistanceFast(a, b *Fingerprint) float32 {
	if !dimensionsMatch(a, b) {
		return InfDistance
	}
	dqp := absf32(float32(a.QPAvg) - float32(b.QPAvg))
	dskip := absf32(a.SkipRatio - b.SkipRatio)
	dintra := absf32(a.IntraRatio - b.IntraRatio)
	ddcmean := absf32(float32(a.DCMean) - float32(b.DCMean))
	ddcstd := absf32(a.DCStd - b.DCStd)
	dedge := absf32(a.EdgeDensity - b.EdgeDensity)
	return 0.5*dqp + 50*dskip + 30*dintra + 0.1*ddcmean + 0.5*ddcstd + 20*dedge
}

// DistancePyramid is an O(20) distance over the spatial pyramid fields.
func DistancePyramid(a, b *Fingerprint) float32 {
	if !dimensionsMatch(a, b) {
		return InfDistance
	}
	var sum2, sum4 float64
	for i := range a.Pyramid2x2 {
		d := float64(a.Pyramid2x2[i] - b.Pyramid2x2[i])
		sum2 += d * d
	}
	for i := range a.Pyramid4x4 {
		d := float64(a.Pyramid4x4[i] - b.Pyramid4x4[i])
		sum4 += d * d
	}
	return float32(2*math.Sqrt(sum2) + math.Sqrt(sum4))
}

// DistanceFull is an O(num_mbs) distance over the full per-macroblock
// arrays.
func DistanceFull(a, b *Fingerprint) float32 {
	if !dimensionsMatch(a, b) {
		return InfDistance
	}
	n := a.NumMBs()
	if n == 0 {
		return 0
	}
	var typeMismatches, modeMismatches int
	var dcDiff float64
	for i := 0; i < n; i++ {
		if a.MBTypes[i] != b.MBTypes[i] {
			typeMismatches++
		}
		if a.IntraModes[i] != b.IntraModes[i] {
			modeMismatches++
		}
		dcDiff += math.Abs(float64(a.DCLuma[i] - b.DCLuma[i]))
		dcDiff += 0.5 * math.Abs(float64(a.DCCb[i]-b.DCCb[i]))
		dcDiff += 0.5 * math.Abs(float64(a.DCCr[i]-b.DCCr[i]))
	}
	fn := float64(n)
	result := 100*(float64(typeMismatches)/fn) +
		0.5*(dcDiff/fn) +
		20*(float64(modeMismatches)/fn)
	return float32(result)
}

// CosineSimilarity computes the standard cosine similarity of the dc_luma
// vectors in double precision, returning 0 if either magnitude is zero or
// if the grid dimensions differ.
func CosineSimilarity(a, b *Fingerprint) float32 {
	if !dimensionsMatch(a, b) {
		return 0
	}
	n := a.NumMBs()
	if n == 0 {
		return 0
	}
	xa := make([]float64, n)
	xb := make([]float64, n)
	for i := 0; i < n; i++ {
		xa[i] = float64(a.DCLuma[i])
		xb[i] = float64(b.DCLuma[i])
	}
	normA := floats.Norm(xa, 2)
	normB := floats.Norm(xb, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := floats.Dot(xa, xb)
	return float32(dot / (normA * normB))
}

// HammingDistance compares each fingerprint's per-macroblock "above its own
// dc_mean" bit and counts mismatches.
func HammingDistance(a, b *Fingerprint) uint32 {
	if !dimensionsMatch(a, b) {
		return MaxHamming
	}
	n := a.NumMBs()
	var mismatches uint32
	for i := 0; i < n; i++ {
		ba := a.DCLuma[i] > a.DCMean
		bb := b.DCLuma[i] > b.DCMean
		if ba != bb {
			mismatches++
		}
	}
	return mismatches
}

// Similarity maps cosine similarity onto [0, 1].
func Similarity(a, b *Fingerprint) float32 {
	cos := CosineSimilarity(a, b)
	s := (cos + 1) / 2
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	return s
}

// IsSimilar reports whether a and b meet the similarity threshold tau.
func IsSimilar(a, b *Fingerprint, tau float32) bool {
	return Similarity(a, b) >= tau
}
