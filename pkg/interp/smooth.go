package interp

import (
	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/terrain"
)

// smoothRadius and smoothSigma define the fixed gaussian kernel used by
// the Smooth method: a 5-tap separable kernel with sigma 1 cell.
const (
	smoothRadius = 2
	smoothSigma  = 1.0
)

// smoothKernel returns the 1D gaussian tap weights for offsets
// -smoothRadius..smoothRadius. Normalization happens per cell so
// missing neighbors can be dropped from the window.
func smoothKernel() [2*smoothRadius + 1]float32 {
	var k [2*smoothRadius + 1]float32
	for i := range k {
		d := float32(i - smoothRadius)
		k[i] = math32.Exp(-(d * d) / (2 * smoothSigma * smoothSigma))
	}
	return k
}

// gaussianSmooth blurs a row-major height block with two separable
// passes. Kernel weights are renormalized over the non-missing
// neighbors in each window; a window with no known neighbor stays
// missing.
func gaussianSmooth(heights []float32, rows, cols int) []float32 {
	kernel := smoothKernel()
	tmp := make([]float32, len(heights))
	out := make([]float32, len(heights))

	// Horizontal pass.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum, weight float32
			for o := -smoothRadius; o <= smoothRadius; o++ {
				cc := c + o
				if cc < 0 || cc >= cols {
					continue
				}
				h := heights[r*cols+cc]
				if terrain.IsMissing(h) {
					continue
				}
				w := kernel[o+smoothRadius]
				sum += w * h
				weight += w
			}
			if weight == 0 {
				tmp[r*cols+c] = terrain.Missing()
			} else {
				tmp[r*cols+c] = sum / weight
			}
		}
	}

	// Vertical pass.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum, weight float32
			for o := -smoothRadius; o <= smoothRadius; o++ {
				rr := r + o
				if rr < 0 || rr >= rows {
					continue
				}
				h := tmp[rr*cols+c]
				if terrain.IsMissing(h) {
					continue
				}
				w := kernel[o+smoothRadius]
				sum += w * h
				weight += w
			}
			if weight == 0 {
				out[r*cols+c] = terrain.Missing()
			} else {
				out[r*cols+c] = sum / weight
			}
		}
	}
	return out
}
