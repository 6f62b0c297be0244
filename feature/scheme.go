package feature

import (
	"fmt"
	"strings"
)

// Vector is a feature descriptor. Its layout is determined by the Scheme that
// produced it; vectors from different schemes are not comparable.
type Vector = []float32

// Kind enumerates the extraction strategies.
type Kind int

const (
	Baseline Kind = iota
	RGChromaticity
	RGBChromaticity
	SpatialColor
	TextureColor
	Embedding
	Composite
)

const (
	// DefaultRGBins is the per-axis bin count for RGChromaticity.
	DefaultRGBins = 16
	// DefaultRGBBins is the per-axis bin count for RGBChromaticity.
	DefaultRGBBins = 8

	maxRGBins  = 256
	maxRGBBins = 64
)

var kindNames = [...]string{
	Baseline:        "baseline",
	RGChromaticity:  "rg-chromaticity",
	RGBChromaticity: "rgb-chromaticity",
	SpatialColor:    "spatial-color",
	TextureColor:    "texture-color",
	Embedding:       "embedding",
	Composite:       "composite",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a kind by name. Matching is case-insensitive and
// accepts underscores in place of dashes.
func ParseKind(name string) (Kind, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, kn := range kindNames {
		if kn == n {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("feature: %w: unknown kind %q", ErrInvalidScheme, name)
}

// Scheme pairs a Kind with its parameters. Bins is only meaningful for the
// chromaticity kinds.
type Scheme struct {
	Kind Kind
	Bins int
}

// New returns the scheme for kind with default parameters.
func New(kind Kind) Scheme {
	s := Scheme{Kind: kind}
	switch kind {
	case RGChromaticity:
		s.Bins = DefaultRGBins
	case RGBChromaticity:
		s.Bins = DefaultRGBBins
	}
	return s
}

// Parse resolves a scheme by name. A bins value <= 0 selects the default.
func Parse(name string, bins int) (Scheme, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return Scheme{}, err
	}
	s := New(kind)
	if bins > 0 && s.Bins > 0 {
		s.Bins = bins
	}
	return s, s.Validate()
}

// Validate checks the kind and bin count.
func (s Scheme) Validate() error {
	switch s.Kind {
	case RGChromaticity:
		if s.Bins < 1 || s.Bins > maxRGBins {
			return fmt.Errorf("feature: %w: rg bins %d outside [1, %d]", ErrInvalidScheme, s.Bins, maxRGBins)
		}
	case RGBChromaticity:
		if s.Bins < 1 || s.Bins > maxRGBBins {
			return fmt.Errorf("feature: %w: rgb bins %d outside [1, %d]", ErrInvalidScheme, s.Bins, maxRGBBins)
		}
	case Baseline, SpatialColor, TextureColor, Embedding, Composite:
	default:
		return fmt.Errorf("feature: %w: %v", ErrInvalidScheme, s.Kind)
	}
	return nil
}

// Len returns the descriptor length. embeddingDim is only consulted by the
// embedding-backed kinds.
func (s Scheme) Len(embeddingDim int) int {
	switch s.Kind {
	case Baseline:
		return baselineLen
	case RGChromaticity:
		return s.Bins * s.Bins
	case RGBChromaticity:
		return s.Bins * s.Bins * s.Bins
	case SpatialColor:
		return 2 * colorHistLen
	case TextureColor:
		return textureBins + colorHistLen
	case Embedding:
		return embeddingDim
	case Composite:
		return embeddingDim + CompositeTail
	}
	return 0
}

// NeedsPixels reports whether extraction reads the pixel grid.
func (s Scheme) NeedsPixels() bool { return s.Kind != Embedding }

// NeedsEmbeddings reports whether extraction consults the embedding table.
func (s Scheme) NeedsEmbeddings() bool { return s.Kind == Embedding || s.Kind == Composite }

func (s Scheme) String() string {
	if s.Kind == RGChromaticity || s.Kind == RGBChromaticity {
		return fmt.Sprintf("%s(%d)", s.Kind, s.Bins)
	}
	return s.Kind.String()
}
