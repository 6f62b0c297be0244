package retrieval

import (
	"fmt"

	"github.com/viant/cbir/distance"
	"github.com/viant/cbir/feature"
)

// pipelines pairs every scheme kind with the metric its vectors are compared
// with. Extraction for all kinds goes through feature.Extractor.
var pipelines = map[feature.Kind]func(w distance.Weights) distance.Func{
	feature.Baseline:        fixed(distance.SumSquaredDifference),
	feature.RGChromaticity:  fixed(distance.HistogramIntersection),
	feature.RGBChromaticity: fixed(distance.HistogramIntersection),
	feature.SpatialColor:    fixed(distance.SpatialHistogram),
	feature.TextureColor:    fixed(distance.TextureColor),
	feature.Embedding:       fixed(distance.Cosine),
	feature.Composite:       distance.Composite,
}

func fixed(fn distance.Func) func(distance.Weights) distance.Func {
	return func(distance.Weights) distance.Func { return fn }
}

// Metric returns the distance function paired with scheme.
func (e *Engine) Metric(scheme feature.Scheme) (distance.Func, error) {
	if err := scheme.Validate(); err != nil {
		return nil, fmt.Errorf("retrieval: %w: %w", ErrUnknownScheme, err)
	}
	factory, ok := pipelines[scheme.Kind]
	if !ok {
		return nil, fmt.Errorf("retrieval: %w: %v", ErrUnknownScheme, scheme.Kind)
	}
	return factory(e.weights), nil
}
