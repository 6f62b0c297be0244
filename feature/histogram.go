package feature

import (
	"fmt"

	"github.com/viant/cbir/pixel"
)

const (
	colorBins    = 8
	colorHistLen = colorBins * colorBins * colorBins
)

// chromaticity returns the r and g ratios of p. The channel sum is floored
// to 1 so black pixels do not divide by zero.
func chromaticity(p pixel.Pixel) (r, g float32) {
	sum := float32(int(p.R()) + int(p.G()) + int(p.B()))
	if sum < 1 {
		sum = 1
	}
	return float32(p.R()) / sum, float32(p.G()) / sum
}

// chromaBin maps a ratio in [0, 1] to a bin with half-up rounding.
func chromaBin(v float32, bins int) int {
	idx := int(v*float32(bins-1) + 0.5)
	if idx < 0 {
		return 0
	}
	if idx >= bins {
		return bins - 1
	}
	return idx
}

// RGHistogram counts every pixel into a bins x bins grid of (r, g)
// chromaticity, flattened row-major by r.
func RGHistogram(src pixel.Source, bins int) Vector {
	out := make(Vector, bins*bins)
	rows, cols := dims(src)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g := chromaticity(src.At(y, x))
			out[chromaBin(r, bins)*bins+chromaBin(g, bins)]++
		}
	}
	return out
}

// RGBHistogram counts every pixel into a bins^3 grid of (r, g, b)
// chromaticity with b = 1 - (r + g), indexed r*bins^2 + g*bins + b.
func RGBHistogram(src pixel.Source, bins int) Vector {
	out := make(Vector, bins*bins*bins)
	rows, cols := dims(src)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g := chromaticity(src.At(y, x))
			b := 1 - (r + g)
			out[chromaBin(r, bins)*bins*bins+chromaBin(g, bins)*bins+chromaBin(b, bins)]++
		}
	}
	return out
}

func colorBin(v uint8) int {
	return min(int(v)*colorBins/256, colorBins-1)
}

func colorIndex(p pixel.Pixel) int {
	return colorBin(p.R())*colorBins*colorBins + colorBin(p.G())*colorBins + colorBin(p.B())
}

// accumulateColor adds the 8x8x8 RGB counts of rows [r0, r1) into dst.
func accumulateColor(dst Vector, src pixel.Source, r0, r1, cols int) {
	for y := r0; y < r1; y++ {
		for x := 0; x < cols; x++ {
			dst[colorIndex(src.At(y, x))]++
		}
	}
}

// SpatialHistogram returns an 8x8x8 RGB histogram of the top half (rows
// [0, rows/2)) followed by one of the bottom half. An odd middle row belongs
// to the bottom half.
func SpatialHistogram(src pixel.Source) (Vector, error) {
	rows, cols := dims(src)
	if pixel.Empty(src) {
		return nil, fmt.Errorf("feature: %w: spatial histogram of %dx%d image", ErrEmptyInput, rows, cols)
	}
	out := make(Vector, 2*colorHistLen)
	mid := rows / 2
	accumulateColor(out[:colorHistLen], src, 0, mid, cols)
	accumulateColor(out[colorHistLen:], src, mid, rows, cols)
	return out, nil
}
