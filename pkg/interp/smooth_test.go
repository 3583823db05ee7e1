package interp

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/mjard/relief/pkg/terrain"
)

func TestSmoothKernelShape(t *testing.T) {
	k := smoothKernel()
	if k[smoothRadius] != 1 {
		t.Errorf("center tap = %g, want 1", k[smoothRadius])
	}
	for i := 0; i < smoothRadius; i++ {
		if k[i] != k[len(k)-1-i] {
			t.Errorf("kernel not symmetric at tap %d: %g vs %g", i, k[i], k[len(k)-1-i])
		}
		if k[i] >= k[i+1] {
			t.Errorf("kernel not increasing toward center at tap %d", i)
		}
	}
}

func TestGaussianSmoothConstant(t *testing.T) {
	heights := make([]float32, 25)
	for i := range heights {
		heights[i] = 3
	}
	out := gaussianSmooth(heights, 5, 5)
	for i, h := range out {
		if math32.Abs(h-3) > 1e-6 {
			t.Errorf("cell %d = %g, want 3", i, h)
		}
	}
}

func TestGaussianSmoothFlattensSpike(t *testing.T) {
	heights := make([]float32, 49)
	heights[3*7+3] = 100
	out := gaussianSmooth(heights, 7, 7)
	center := out[3*7+3]
	if !(center > 0 && center < 100) {
		t.Errorf("spike = %g, want blurred into (0, 100)", center)
	}
	// Mass spreads to the neighbors.
	if out[3*7+4] <= 0 || out[2*7+3] <= 0 {
		t.Error("spike did not spread to adjacent cells")
	}
}

func TestGaussianSmoothSkipsMissing(t *testing.T) {
	nan := terrain.Missing()
	// One known cell surrounded by missing ones: the known value must
	// not be diluted by NaNs, and unreachable cells stay missing.
	heights := []float32{
		nan, nan, nan, nan, nan, nan, nan,
		nan, nan, nan, nan, nan, nan, nan,
		nan, nan, nan, nan, nan, nan, nan,
		nan, nan, nan, 8, nan, nan, nan,
		nan, nan, nan, nan, nan, nan, nan,
		nan, nan, nan, nan, nan, nan, nan,
		nan, nan, nan, nan, nan, nan, nan,
	}
	out := gaussianSmooth(heights, 7, 7)
	if math32.Abs(out[3*7+3]-8) > 1e-6 {
		t.Errorf("known cell = %g, want 8", out[3*7+3])
	}
	// A cell within kernel reach picks up the known value.
	if math32.Abs(out[3*7+4]-8) > 1e-6 {
		t.Errorf("adjacent cell = %g, want 8", out[3*7+4])
	}
	// Far corner has no known neighbor in either pass.
	if !terrain.IsMissing(out[0]) {
		t.Errorf("unreachable cell = %g, want missing", out[0])
	}
}
