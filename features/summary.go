package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

func clampQP(qp int) uint8 {
	if qp < 0 {
		return 0
	}
	if qp > 51 {
		return 51
	}
	return uint8(qp)
}

// computeQPAvg implements the intended design flagged by spec.md section 9's
// open question: aggregate actual per-slice QP values (sum/count), rather
// than the source's no-op re-division of qp_avg by num_mbs.
func computeQPAvg(qpSum, qpCount int) uint8 {
	if qpCount == 0 {
		return 26
	}
	avg := int(math.Round(float64(qpSum) / float64(qpCount)))
	return clampQP(avg)
}

// summary holds the scalar fields derived from the per-macroblock arrays,
// per spec.md section 4.4 step 4.
type summary struct {
	skipRatio   float32
	intraRatio  float32
	dcMean      int16
	dcStd       float32
	edgeDensity float32
}

func computeSummary(mbTypes, intraModes []byte, dcLuma []int16) summary {
	n := len(mbTypes)
	if n == 0 {
		return summary{}
	}

	var skipped, intra, edges int
	dcf := make([]float64, n)
	var dcSum int64
	for i, t := range mbTypes {
		if t == codePSkip || t == codeBSkip {
			skipped++
		}
		if t <= 25 {
			intra++
		}
		mode := intraModes[i]
		if mode != 0 && mode != 2 {
			edges++
		}
		dcf[i] = float64(dcLuma[i])
		dcSum += int64(dcLuma[i])
	}

	mean := stat.Mean(dcf, nil)
	variance := stat.MomentAbout(2, dcf, mean, nil) // population variance (divides by n)
	std := math.Sqrt(variance)

	return summary{
		skipRatio:   float32(skipped) / float32(n),
		intraRatio:  float32(intra) / float32(n),
		dcMean:      int16(dcSum / int64(n)), // integer truncation toward zero
		dcStd:       float32(std),
		edgeDensity: float32(edges) / float32(n),
	}
}
