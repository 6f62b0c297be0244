package distance

import (
	"math"

	"github.com/viant/vec/search"
	"github.com/viterin/vek/vek32"
)

// Func computes the dissimilarity of two feature vectors.
type Func func(a, b []float32) float32

const (
	// Max is the sentinel returned by the bounded metrics on guard conditions.
	Max float32 = 1

	spatialLen      = 1024
	spatialHalf     = spatialLen / 2
	textureBins     = 16
	textureLen      = textureBins + 512
	skinBins        = 16
	compositeTail   = skinBins + 1
	brightnessRange = 255
)

// MaxSSD is the sentinel SumSquaredDifference returns for mismatched lengths.
var MaxSSD = float32(math.Inf(1))

// SumSquaredDifference returns the sum of squared element differences. It
// preserves the ordering of Euclidean distance without the square root.
func SumSquaredDifference(a, b []float32) float32 {
	if len(a) != len(b) {
		return MaxSSD
	}
	if len(a) == 0 {
		return 0
	}
	d := vek32.Sub(a, b)
	return vek32.Dot(d, d)
}

// intersection returns the histogram intersection of the L1-normalized
// inputs. ok is false when the lengths differ, the inputs are empty, or
// either raw sum is below 1.
func intersection(a, b []float32) (sim float32, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	sa, sb := vek32.Sum(a), vek32.Sum(b)
	if sa < 1 || sb < 1 {
		return 0, false
	}
	for i := range a {
		sim += min(a[i]/sa, b[i]/sb)
	}
	return clamp01(sim), true
}

// HistogramIntersection returns 1 minus the intersection of the normalized
// histograms, in [0, 1].
func HistogramIntersection(a, b []float32) float32 {
	sim, ok := intersection(a, b)
	if !ok {
		return Max
	}
	return clamp01(1 - sim)
}

// splitIntersection intersects a and b independently over [0, split) and
// [split, len) and returns 1 minus the mean. A degenerate part contributes
// zero similarity.
func splitIntersection(a, b []float32, split int) float32 {
	first, _ := intersection(a[:split], b[:split])
	second, _ := intersection(a[split:], b[split:])
	return clamp01(1 - (first+second)/2)
}

// SpatialHistogram compares two top/bottom RGB histogram pairs (1024 values).
func SpatialHistogram(a, b []float32) float32 {
	if len(a) != spatialLen || len(b) != spatialLen {
		return Max
	}
	return splitIntersection(a, b, spatialHalf)
}

// TextureColor compares two texture + color descriptors (16 + 512 values).
func TextureColor(a, b []float32) float32 {
	if len(a) != textureLen || len(b) != textureLen {
		return Max
	}
	return splitIntersection(a, b, textureBins)
}

// Cosine returns 1 minus the cosine similarity. Vectors with a squared norm
// below 1 are treated as maximally distant; similarity is clamped to 1 to
// absorb rounding overshoot.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return Max
	}
	ma, mb := search.Float32s(a).Magnitude(), search.Float32s(b).Magnitude()
	if ma < 1 || mb < 1 {
		return Max
	}
	sim := vek32.Dot(a, b) / (ma * mb)
	if sim > 1 {
		sim = 1
	}
	return 1 - sim
}

// Weights sets the contribution of each part of a composite descriptor.
// The defaults were tuned by hand and carry no derivation; treat them as
// configuration.
type Weights struct {
	DNN        float32 `mapstructure:"dnn" yaml:"dnn"`
	Skin       float32 `mapstructure:"skin" yaml:"skin"`
	Brightness float32 `mapstructure:"brightness" yaml:"brightness"`
}

// DefaultWeights returns 0.70 embedding, 0.20 skin, 0.10 brightness.
func DefaultWeights() Weights {
	return Weights{DNN: 0.70, Skin: 0.20, Brightness: 0.10}
}

// Composite returns the metric for embedding ++ skin histogram(16) ++
// brightness(1) descriptors: cosine on the embedding, histogram
// intersection on the skin part, and |a-b|/255 on brightness, combined
// with w.
func Composite(w Weights) Func {
	return func(a, b []float32) float32 {
		if len(a) != len(b) || len(a) <= compositeTail {
			return Max
		}
		n := len(a) - compositeTail
		dnn := Cosine(a[:n], b[:n])
		skin := HistogramIntersection(a[n:n+skinBins], b[n:n+skinBins])
		bright := float32(math.Abs(float64(a[len(a)-1]-b[len(b)-1]))) / brightnessRange
		return w.DNN*dnn + w.Skin*skin + w.Brightness*bright
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
