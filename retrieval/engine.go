package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viant/cbir/distance"
	"github.com/viant/cbir/feature"
	"github.com/viant/cbir/index"
	"github.com/viant/cbir/pixel"
	"golang.org/x/sync/errgroup"
)

// Candidate is an image that can be ranked. ID is the stable lookup key
// (the file name) used for embeddings and caching; Pixels may be nil for the
// embedding scheme.
type Candidate struct {
	ID     string
	Path   string
	Pixels pixel.Source
}

// Request describes one search.
type Request struct {
	Query      Candidate
	Scheme     feature.Scheme
	Candidates []Candidate
	K          int
}

// Result is the ranked outcome of a search.
type Result struct {
	// Hits holds at most K entries, ascending by score.
	Hits []index.Hit
	// Found is the number of ranked candidates after self-match suppression.
	Found int
	// Skipped is the number of candidates whose extraction failed.
	Skipped int
}

// FeatureIndex is a prebuilt index that remembers its extraction scheme.
type FeatureIndex interface {
	index.Index
	Scheme() feature.Scheme
}

// Engine ranks candidates by feature distance to a query.
type Engine struct {
	logger    *slog.Logger
	workers   int
	cacheSize int
	cache     *lru.Cache[string, feature.Vector]
	rank      index.Options
	metrics   *Metrics
	weights   distance.Weights
	skin      feature.SkinTone
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
		weights: distance.DefaultWeights(),
		skin:    feature.DefaultSkinTone(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		cache, err := lru.New[string, feature.Vector](e.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("retrieval: failed to create feature cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Search ranks req.Candidates by distance to req.Query under req.Scheme.
// Candidates whose extraction fails are logged, counted in Result.Skipped
// and excluded from ranking.
func (e *Engine) Search(ctx context.Context, sess *Session, req Request) (*Result, error) {
	if req.K <= 0 {
		return nil, fmt.Errorf("retrieval: %w: %d", ErrInvalidK, req.K)
	}
	metric, err := e.Metric(req.Scheme)
	if err != nil {
		return nil, err
	}
	if len(req.Candidates) == 0 {
		return &Result{}, nil
	}
	started := time.Now()
	extractor := e.extractor(sess)
	query, err := e.extract(extractor, sess, req.Scheme, req.Query)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w: %w", ErrQueryExtraction, err)
	}

	vectors, skipped, err := e.extractAll(ctx, extractor, sess, req.Scheme, req.Candidates)
	if err != nil {
		return nil, err
	}
	hits := make([]index.Hit, 0, len(req.Candidates))
	for i, vec := range vectors {
		if vec == nil {
			continue
		}
		hits = append(hits, index.Hit{ID: req.Candidates[i].ID, Score: metric(query, vec)})
	}
	hits, found := index.Rank(hits, req.K, e.rank)
	result := &Result{Hits: hits, Found: found, Skipped: skipped}
	e.finish(sess, req.Scheme, req.K, result, started)
	return result, nil
}

// BuildIndex extracts candidates under scheme and builds idx from the
// resulting vectors in candidate order. Candidates whose extraction fails
// are skipped; their count is returned.
func (e *Engine) BuildIndex(ctx context.Context, sess *Session, scheme feature.Scheme, candidates []Candidate, idx index.Index) (int, error) {
	if _, err := e.Metric(scheme); err != nil {
		return 0, err
	}
	vectors, skipped, err := e.extractAll(ctx, e.extractor(sess), sess, scheme, candidates)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(candidates))
	kept := make([][]float32, 0, len(candidates))
	for i, vec := range vectors {
		if vec == nil {
			continue
		}
		ids = append(ids, candidates[i].ID)
		kept = append(kept, vec)
	}
	if err := idx.Build(ids, kept); err != nil {
		return skipped, fmt.Errorf("retrieval: failed to build index: %w", err)
	}
	e.logger.Debug("index built", "scheme", scheme.String(), "items", len(ids), "skipped", skipped, "session", sess.sessionID())
	return skipped, nil
}

// SearchIndex ranks the contents of a prebuilt index against query. scheme
// must match the scheme the index was built with.
func (e *Engine) SearchIndex(ctx context.Context, sess *Session, idx FeatureIndex, scheme feature.Scheme, query Candidate, k int) (*Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("retrieval: %w: %d", ErrInvalidK, k)
	}
	metric, err := e.Metric(scheme)
	if err != nil {
		return nil, err
	}
	if idx.Scheme() != scheme {
		return nil, fmt.Errorf("retrieval: %w: index %v, requested %v", ErrSchemeMismatch, idx.Scheme(), scheme)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	vec, err := e.extract(e.extractor(sess), sess, scheme, query)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w: %w", ErrQueryExtraction, err)
	}
	hits, found, err := idx.Query(vec, metric, k, e.rank)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}
	result := &Result{Hits: hits, Found: found}
	e.finish(sess, scheme, k, result, started)
	return result, nil
}

func (e *Engine) finish(sess *Session, scheme feature.Scheme, k int, result *Result, started time.Time) {
	e.metrics.observeSearch(scheme.Kind.String(), time.Since(started))
	e.logger.Debug("search completed",
		"scheme", scheme.String(),
		"k", k,
		"found", result.Found,
		"skipped", result.Skipped,
		"session", sess.sessionID(),
	)
}

// extractAll extracts every candidate on a bounded worker pool. Vectors are
// stored at the candidate's position; failed slots are nil.
func (e *Engine) extractAll(ctx context.Context, extractor *feature.Extractor, sess *Session, scheme feature.Scheme, candidates []Candidate) ([]feature.Vector, int, error) {
	vectors := make([]feature.Vector, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vectors[i], errs[i] = e.extract(extractor, sess, scheme, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	skipped := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		skipped++
		vectors[i] = nil
		e.logger.Warn("skipping candidate", "id", candidates[i].ID, "path", candidates[i].Path, "scheme", scheme.String(), "error", err)
	}
	e.metrics.extractionFailed(scheme.Kind.String(), skipped)
	return vectors, skipped, nil
}

func (e *Engine) extractor(sess *Session) *feature.Extractor {
	return feature.NewExtractor(
		feature.WithEmbeddings(sess.Embeddings()),
		feature.WithSkinTone(e.skin),
	)
}

// extract runs the extractor through the feature cache when enabled.
func (e *Engine) extract(extractor *feature.Extractor, sess *Session, scheme feature.Scheme, c Candidate) (feature.Vector, error) {
	if e.cache == nil {
		return extractor.Extract(scheme, c.ID, c.Pixels)
	}
	key, ok := cacheKey(sess, scheme, c)
	if !ok {
		return extractor.Extract(scheme, c.ID, c.Pixels)
	}
	if vec, ok := e.cache.Get(key); ok {
		return vec, nil
	}
	vec, err := extractor.Extract(scheme, c.ID, c.Pixels)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, vec)
	return vec, nil
}

// cacheKey identifies a vector by scheme and bins plus the file path for
// pixel-based schemes or the id for the embedding scheme. Embedding-backed
// schemes also key on the session, since their vectors depend on its table.
// ok is false when the candidate has no path to key its pixels on.
func cacheKey(sess *Session, scheme feature.Scheme, c Candidate) (string, bool) {
	key := fmt.Sprintf("%s|%d", scheme.Kind, scheme.Bins)
	if scheme.NeedsPixels() {
		if c.Path == "" {
			return "", false
		}
		key += "|" + c.Path
	}
	if scheme.NeedsEmbeddings() {
		key = sess.sessionID() + "|" + key + "|" + c.ID
	}
	return key, true
}
