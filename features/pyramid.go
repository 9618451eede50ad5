package features

// computePyramid computes the mean of dcLuma over a tiles x tiles tiling
// of a widthMBs x heightMBs grid, per spec.md section 4.4 step 5: tile
// (px, py) covers x in [px*stride, min((px+1)*stride, W)), y likewise,
// with stride = floor(W/tiles) (resp. H/tiles), clamped to a minimum of
// 1. As spec.md defines it, this literal min() can leave a trailing
// strip of macroblocks outside every tile when W or H isn't a multiple
// of tiles; that strip is simply excluded from the pyramid, matching
// the formula exactly rather than silently widening the last tile.
func computePyramid(dcLuma []int16, widthMBs, heightMBs, tiles int) []int16 {
	out := make([]int16, tiles*tiles)
	strideX := widthMBs / tiles
	if strideX < 1 {
		strideX = 1
	}
	strideY := heightMBs / tiles
	if strideY < 1 {
		strideY = 1
	}

	minInt := func(a, b int) int {
		if a < b {
			return a
		}
		return b
	}

	for py := 0; py < tiles; py++ {
		y0 := py * strideY
		y1 := minInt((py+1)*strideY, heightMBs)
		for px := 0; px < tiles; px++ {
			x0 := px * strideX
			x1 := minInt((px+1)*strideX, widthMBs)

			var sum, count int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += int(dcLuma[y*widthMBs+x])
					count++
				}
			}
			var mean int16
			if count > 0 {
				mean = int16(sum / count)
			}
			out[py*tiles+px] = mean
		}
	}
	return out
}
