package feature

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/viant/cbir/pixel"
)

const (
	skinBins = 16
	hueRange = 180

	// CompositeTail is the number of values Composite appends after the
	// embedding: the skin hue histogram and the brightness scalar.
	CompositeTail = skinBins + 1
)

// SkinTone is the HSV predicate selecting skin-colored pixels. Hue uses the
// 8-bit [0, 180) scale. The defaults were tuned empirically and are exposed
// as configuration.
type SkinTone struct {
	MaxHue uint8 `mapstructure:"max_hue" yaml:"max_hue"`
	MinSat uint8 `mapstructure:"min_sat" yaml:"min_sat"`
	MaxSat uint8 `mapstructure:"max_sat" yaml:"max_sat"`
	MinVal uint8 `mapstructure:"min_val" yaml:"min_val"`
}

// DefaultSkinTone returns hue <= 50, 20 <= saturation <= 150, value >= 50.
func DefaultSkinTone() SkinTone {
	return SkinTone{MaxHue: 50, MinSat: 20, MaxSat: 150, MinVal: 50}
}

// Match reports whether c falls inside the predicate.
func (s SkinTone) Match(c pixel.HSV) bool {
	return c.H <= s.MaxHue && c.S >= s.MinSat && c.S <= s.MaxSat && c.V >= s.MinVal
}

// CompositeDescriptor appends to a copy of emb the 16-bin hue histogram of
// skin pixels and the mean gray brightness, both taken over the square
// centered on the image with half side min(cols/2, rows/2)/2.
func CompositeDescriptor(src pixel.Source, emb []float32, skin SkinTone) (Vector, error) {
	rows, cols := dims(src)
	if pixel.Empty(src) {
		return nil, fmt.Errorf("feature: %w: composite descriptor of %dx%d image", ErrEmptyInput, rows, cols)
	}
	out := make(Vector, len(emb)+CompositeTail)
	copy(out, emb)
	hist := out[len(emb) : len(emb)+skinBins]

	cx, cy := cols/2, rows/2
	half := min(cx, cy) / 2
	side := 2 * half
	gray := make([]float64, 0, side*side)
	for y := cy - half; y < cy+half; y++ {
		for x := cx - half; x < cx+half; x++ {
			p := src.At(y, x)
			gray = append(gray, float64(pixel.Gray(p)))
			if c := pixel.ToHSV(p); skin.Match(c) {
				hist[min(int(c.H)*skinBins/hueRange, skinBins-1)]++
			}
		}
	}
	if len(gray) > 0 {
		out[len(out)-1] = float32(stat.Mean(gray, nil))
	}
	return out, nil
}
