package retrieval

import (
	"log/slog"

	"github.com/viant/cbir/distance"
	"github.com/viant/cbir/feature"
	"github.com/viant/cbir/index"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for skipped candidates and search summaries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWorkers bounds the number of concurrent candidate extractions. 1 runs
// strictly sequentially; n <= 0 keeps the default of GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCacheSize enables an LRU cache of extracted feature vectors holding up
// to n entries. n <= 0 disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cacheSize = n }
}

// WithSelfMatchSuppression drops the leading hit of every search when its
// score is below epsilon (index.DefaultEpsilon when epsilon is 0).
func WithSelfMatchSuppression(epsilon float32) Option {
	return func(e *Engine) {
		e.rank = index.Options{SuppressSelfMatch: true, Epsilon: epsilon}
	}
}

// WithMetrics records search counters and latencies on m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithWeights overrides the composite metric weights.
func WithWeights(w distance.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithSkinTone overrides the skin predicate used by the composite extractor.
func WithSkinTone(s feature.SkinTone) Option {
	return func(e *Engine) { e.skin = s }
}
