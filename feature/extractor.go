package feature

import (
	"fmt"

	"github.com/viant/cbir/pixel"
)

// Lookup resolves an image identifier to its precomputed embedding.
// Implementations must be safe for concurrent readers.
type Lookup interface {
	Lookup(id string) ([]float32, bool)
}

// Extractor dispatches a Scheme to its extraction routine. The zero value
// handles every pixel-based scheme; embedding-backed schemes need
// WithEmbeddings.
type Extractor struct {
	embeddings Lookup
	skin       SkinTone
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithEmbeddings sets the table consulted by Embedding and Composite.
func WithEmbeddings(l Lookup) Option {
	return func(e *Extractor) { e.embeddings = l }
}

// WithSkinTone overrides the skin predicate used by Composite.
func WithSkinTone(s SkinTone) Option {
	return func(e *Extractor) { e.skin = s }
}

// NewExtractor builds an Extractor with the default skin predicate.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{skin: DefaultSkinTone()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces the descriptor of src (or of id, for embedding-backed
// schemes). The returned vector is freshly allocated; src is never mutated.
func (e *Extractor) Extract(s Scheme, id string, src pixel.Source) (Vector, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Kind {
	case Baseline:
		return BaselineBlock(src)
	case RGChromaticity:
		return RGHistogram(src, s.Bins), nil
	case RGBChromaticity:
		return RGBHistogram(src, s.Bins), nil
	case SpatialColor:
		return SpatialHistogram(src)
	case TextureColor:
		return TextureHistogram(src)
	case Embedding:
		return e.embedding(id)
	case Composite:
		emb, err := e.embedding(id)
		if err != nil {
			return nil, err
		}
		return CompositeDescriptor(src, emb, e.skin)
	}
	return nil, fmt.Errorf("feature: %w: %v", ErrInvalidScheme, s.Kind)
}

func (e *Extractor) embedding(id string) (Vector, error) {
	if e.embeddings == nil {
		return nil, fmt.Errorf("feature: %w: no embedding table for %q", ErrLookupMiss, id)
	}
	v, ok := e.embeddings.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("feature: %w: %q", ErrLookupMiss, id)
	}
	return append(Vector(nil), v...), nil
}

func dims(src pixel.Source) (rows, cols int) {
	if src == nil {
		return 0, 0
	}
	return max(src.Rows(), 0), max(src.Cols(), 0)
}
