package feature

import (
	"fmt"

	"github.com/viant/cbir/pixel"
)

const (
	baselineSide = 7
	baselineLen  = baselineSide * baselineSide * 3
)

// BaselineBlock returns the 7x7 block centered at (rows/2, cols/2) in
// row-major order, three samples per pixel in storage order.
func BaselineBlock(src pixel.Source) (Vector, error) {
	rows, cols := dims(src)
	if rows < baselineSide || cols < baselineSide {
		return nil, fmt.Errorf("feature: %w: %dx%d below %dx%d", ErrInputTooSmall, rows, cols, baselineSide, baselineSide)
	}
	cy, cx := rows/2, cols/2
	half := baselineSide / 2
	out := make(Vector, 0, baselineLen)
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			p := src.At(cy+dy, cx+dx)
			out = append(out, float32(p[0]), float32(p[1]), float32(p[2]))
		}
	}
	return out, nil
}
