package feature

import (
	"fmt"

	"github.com/viant/cbir/pixel"
)

const textureBins = 16

// reflect101 mirrors an out-of-range index without repeating the edge
// sample (-1 -> 1, n -> n-2).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func saturate(v int) int {
	if v < 0 {
		v = -v
	}
	return min(v, 255)
}

// sobelMagnitude returns the per-pixel gradient magnitude of a grayscale
// plane: the rounded mean of the saturated absolute 3x3 Sobel responses.
func sobelMagnitude(gray []int, rows, cols int) []int {
	at := func(y, x int) int {
		return gray[reflect101(y, rows)*cols+reflect101(x, cols)]
	}
	out := make([]int, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			tl, tc, tr := at(y-1, x-1), at(y-1, x), at(y-1, x+1)
			ml, mr := at(y, x-1), at(y, x+1)
			bl, bc, br := at(y+1, x-1), at(y+1, x), at(y+1, x+1)
			gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy := (bl + 2*bc + br) - (tl + 2*tc + tr)
			out[y*cols+x] = (saturate(gx) + saturate(gy) + 1) / 2
		}
	}
	return out
}

// TextureHistogram returns a 16-bin histogram of Sobel gradient magnitude
// followed by a whole-image 8x8x8 RGB histogram.
func TextureHistogram(src pixel.Source) (Vector, error) {
	rows, cols := dims(src)
	if pixel.Empty(src) {
		return nil, fmt.Errorf("feature: %w: texture histogram of %dx%d image", ErrEmptyInput, rows, cols)
	}
	gray := make([]int, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gray[y*cols+x] = int(pixel.Gray(src.At(y, x)))
		}
	}
	out := make(Vector, textureBins+colorHistLen)
	for _, m := range sobelMagnitude(gray, rows, cols) {
		out[min(m*textureBins/256, textureBins-1)]++
	}
	accumulateColor(out[textureBins:], src, 0, rows, cols)
	return out, nil
}
